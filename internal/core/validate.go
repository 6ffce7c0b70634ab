package core

import (
	"errors"
	"sort"
	"strings"
)

// User-facing validation messages
const (
	MsgDebtAmount       = "Qarz miqdori noldan katta bo'lishi kerak"
	MsgReceivableAmount = "Berilgan summa noldan katta bo'lishi kerak"
	MsgExpenseAmount    = "Xarajat summasi noldan katta bo'lishi kerak"
	MsgPaymentAmount    = "To'lov summasi noldan katta bo'lishi kerak"
	MsgDueDate          = "Qaytarish muddatini tanlang!"
	MsgCustomCategory   = "Iltimos, yangi kategoriya nomini kiriting"
	MsgName             = "Ismni kiriting"
	MsgTitle            = "Sarlavhani kiriting"
	MsgCurrency         = "Noto'g'ri valyuta"
	MsgMethod           = "Noto'g'ri to'lov usuli"
	MsgPasswordMismatch = "Parollar mos kelmadi"
	MsgAlreadySettled   = "Bu yozuv allaqachon to'liq yopilgan"
)

var ErrPasswordMismatch = errors.New("password mismatch")

// FieldError is one failed check.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// ValidationError collects every failed check of one input.
type ValidationError struct {
	Fields []FieldError
}

func (v *ValidationError) Error() string {
	parts := make([]string, 0, len(v.Fields))
	for _, f := range v.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes the sentinel errors so errors.Is works on the aggregate.
func (v *ValidationError) Unwrap() []error {
	errs := make([]error, 0, len(v.Fields))
	for _, f := range v.Fields {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errs
}

// Messages maps field names to messages.
func (v *ValidationError) Messages() map[string]string {
	out := make(map[string]string, len(v.Fields))
	for _, f := range v.Fields {
		out[f.Field] = f.Message
	}
	return out
}

func (v *ValidationError) add(field, msg string, err error) {
	v.Fields = append(v.Fields, FieldError{Field: field, Message: msg, Err: err})
}

func (v *ValidationError) errOrNil() error {
	if len(v.Fields) == 0 {
		return nil
	}
	return v
}

// Invalid builds a single-field validation error.
func Invalid(field, msg string, err error) error {
	v := &ValidationError{}
	v.add(field, msg, err)
	return v
}

func (in DebtInput) Validate() error {
	var v ValidationError
	if in.CreditorName == "" {
		v.add("creditorName", MsgName, ErrEmptyName)
	}
	if in.Amount <= 0 {
		v.add("amount", MsgDebtAmount, ErrInvalidAmount)
	}
	if !in.Currency.Valid() {
		v.add("currency", MsgCurrency, ErrInvalidCurrency)
	}
	if !in.PaymentMethod.Valid() {
		v.add("paymentMethod", MsgMethod, ErrInvalidMethod)
	}
	if in.DueDate.IsZero() {
		v.add("dueDate", MsgDueDate, ErrMissingDueDate)
	}
	return v.errOrNil()
}

func (in ReceivableInput) Validate() error {
	var v ValidationError
	if in.Debtor == "" {
		v.add("debtor", MsgName, ErrEmptyName)
	}
	if in.Amount <= 0 {
		v.add("amount", MsgReceivableAmount, ErrInvalidAmount)
	}
	if !in.Currency.Valid() {
		v.add("currency", MsgCurrency, ErrInvalidCurrency)
	}
	if !in.PaymentMethod.Valid() {
		v.add("paymentMethod", MsgMethod, ErrInvalidMethod)
	}
	if in.DueDate.IsZero() {
		v.add("dueDate", MsgDueDate, ErrMissingDueDate)
	}
	return v.errOrNil()
}

// Validate must run after Normalize, which resolves the "other" category.
func (in ExpenseInput) Validate() error {
	var v ValidationError
	if in.Title == "" {
		v.add("title", MsgTitle, ErrEmptyTitle)
	}
	if in.Category == "" || in.Category == CategoryOther {
		v.add("customCategory", MsgCustomCategory, ErrMissingCategory)
	}
	if in.Amount <= 0 {
		v.add("amount", MsgExpenseAmount, ErrInvalidAmount)
	}
	if !in.Method.Valid() {
		v.add("method", MsgMethod, ErrInvalidMethod)
	}
	return v.errOrNil()
}

func (in PaymentInput) Validate() error {
	if in.Amount <= 0 {
		return Invalid("amount", MsgPaymentAmount, ErrInvalidAmount)
	}
	return nil
}

func (f RegisterForm) Validate() error {
	var v ValidationError
	if strings.TrimSpace(f.Name) == "" {
		v.add("name", MsgName, ErrEmptyName)
	}
	if f.Password != f.ConfirmPassword {
		v.add("confirmPassword", MsgPasswordMismatch, ErrPasswordMismatch)
	}
	return v.errOrNil()
}

func (in ProfileInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return Invalid("name", MsgName, ErrEmptyName)
	}
	return nil
}
