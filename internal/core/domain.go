package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	UZS Currency = "UZS"
	USD Currency = "USD"

	Cash PaymentMethod = "cash"
	Card PaymentMethod = "card"

	StatusPaid    Status = "paid"
	StatusPartial Status = "partial"
	StatusPending Status = "pending"

	Overdue    Urgency = "overdue"
	CloseToDue Urgency = "closeToDue"
	OnTrack    Urgency = "onTrack"
)

// Built-in expense categories. Any other non-empty string is a custom category.
const (
	CategoryFood      = "food"
	CategoryTransport = "transport"
	CategoryShopping  = "shopping"
	CategoryHouse     = "house"
	CategoryServices  = "services"
	CategoryOther     = "other"
)

type (
	Currency      string
	PaymentMethod string
	Status        string
	Urgency       string

	// Amount is a whole-unit money value (so'm or dollars). The upstream
	// sends plain JSON numbers; fractional values are rounded on decode.
	Amount int64

	// Date is an upstream timestamp. Empty strings and null decode to the zero value.
	Date struct {
		time.Time
	}

	User struct {
		ID        string `json:"_id"`
		Name      string `json:"name"`
		Phone     string `json:"phone"`
		Email     string `json:"email,omitempty"`
		IsAdmin   bool   `json:"isAdmin"`
		IsBlocked bool   `json:"isBlocked"`
		CreatedAt Date   `json:"createdAt"`
	}

	HistoryEntry struct {
		ID     string `json:"_id"`
		Amount Amount `json:"amount"`
		Date   Date   `json:"date"`
		Note   string `json:"note,omitempty"`
	}

	Debt struct {
		ID                string         `json:"_id"`
		CreditorName      string         `json:"creditorName"`
		Amount            Amount         `json:"amount"`
		Currency          Currency       `json:"currency"`
		PaidAmount        Amount         `json:"paidAmount"`
		PaymentMethod     PaymentMethod  `json:"paymentMethod"`
		CardNumber        string         `json:"cardNumber,omitempty"`
		CardHolder        string         `json:"cardHolder,omitempty"`
		DateTaken         Date           `json:"dateTaken"`
		DueDate           Date           `json:"dueDate"`
		IsReminderEnabled bool           `json:"isReminderEnabled"`
		Description       string         `json:"description,omitempty"`
		Status            Status         `json:"status,omitempty"`
		History           []HistoryEntry `json:"history"`
		CreatedAt         Date           `json:"createdAt"`
		UpdatedAt         Date           `json:"updatedAt"`
	}

	Receivable struct {
		ID                string         `json:"_id"`
		Debtor            string         `json:"debtor"`
		Amount            Amount         `json:"amount"`
		Currency          Currency       `json:"currency"`
		ReceivedAmount    Amount         `json:"receivedAmount"`
		PaymentMethod     PaymentMethod  `json:"paymentMethod"`
		CardNumber        string         `json:"cardNumber,omitempty"`
		CardHolder        string         `json:"cardHolder,omitempty"`
		DateGiven         Date           `json:"dateGiven"`
		DueDate           Date           `json:"dueDate"`
		IsReminderEnabled bool           `json:"isReminderEnabled"`
		Description       string         `json:"description,omitempty"`
		Status            Status         `json:"status,omitempty"`
		History           []HistoryEntry `json:"history"`
		CreatedAt         Date           `json:"createdAt"`
		UpdatedAt         Date           `json:"updatedAt"`
	}

	Expense struct {
		ID          string        `json:"_id"`
		Title       string        `json:"title"`
		Amount      Amount        `json:"amount"`
		Category    string        `json:"category"`
		Method      PaymentMethod `json:"method"`
		CardNumber  string        `json:"cardNumber,omitempty"`
		CardHolder  string        `json:"cardHolder,omitempty"`
		Date        Date          `json:"date"`
		Description string        `json:"description,omitempty"`
		CreatedAt   Date          `json:"createdAt"`
		UpdatedAt   Date          `json:"updatedAt"`
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrMissingDueDate  = errors.New("missing due date")
	ErrMissingCategory = errors.New("missing custom category")
	ErrEmptyName       = errors.New("empty name")
	ErrEmptyTitle      = errors.New("empty title")
	ErrInvalidCurrency = errors.New("invalid currency")
	ErrInvalidMethod   = errors.New("invalid payment method")
	ErrAlreadySettled  = errors.New("already settled")
	ErrHistoryNotFound = errors.New("history entry not found")
)

func (c Currency) Valid() bool {
	return c == UZS || c == USD
}

func (m PaymentMethod) Valid() bool {
	return m == Cash || m == Card
}

// BuiltinCategory reports whether c is one of the predefined expense categories.
func BuiltinCategory(c string) bool {
	switch c {
	case CategoryFood, CategoryTransport, CategoryShopping, CategoryHouse, CategoryServices:
		return true
	}
	return false
}

// UnmarshalJSON accepts a number, rounded to a whole amount, or a grouped
// string as typed into a form ("1 000 000").
func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("amount %s: %w", b, ErrInvalidAmount)
		}
		if strings.TrimSpace(s) == "" {
			*a = 0
			return nil
		}
		v, err := ParseAmountInput(s)
		if err != nil {
			return fmt.Errorf("amount %q: %w", s, err)
		}
		*a = v
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("amount %s: %w", b, ErrInvalidAmount)
	}
	*a = Amount(math.Round(f))
	return nil
}

const jsTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// NewDate creates a Date at midnight UTC
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.UTC().Format(jsTimeLayout))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ParseDate accepts RFC 3339 timestamps and bare YYYY-MM-DD dates.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: unsupported format", s)
	}
	return t, nil
}

// The upstream is a MongoDB-backed API and answers with "_id", but some
// routes serialize "id". Both are accepted.

func pickID(primary, alt string) string {
	if primary != "" {
		return primary
	}
	return alt
}

func (u *User) UnmarshalJSON(b []byte) error {
	type alias User
	var raw struct {
		alias
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*u = User(raw.alias)
	u.ID = pickID(u.ID, raw.AltID)
	return nil
}

func (h *HistoryEntry) UnmarshalJSON(b []byte) error {
	type alias HistoryEntry
	var raw struct {
		alias
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*h = HistoryEntry(raw.alias)
	h.ID = pickID(h.ID, raw.AltID)
	return nil
}

func (d *Debt) UnmarshalJSON(b []byte) error {
	type alias Debt
	var raw struct {
		alias
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*d = Debt(raw.alias)
	d.ID = pickID(d.ID, raw.AltID)
	return nil
}

func (r *Receivable) UnmarshalJSON(b []byte) error {
	type alias Receivable
	var raw struct {
		alias
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = Receivable(raw.alias)
	r.ID = pickID(r.ID, raw.AltID)
	return nil
}

func (e *Expense) UnmarshalJSON(b []byte) error {
	type alias Expense
	var raw struct {
		alias
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*e = Expense(raw.alias)
	e.ID = pickID(e.ID, raw.AltID)
	return nil
}
