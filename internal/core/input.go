package core

import (
	"strings"
	"unicode"
)

// DebtInput is the create/update body for a debt.
type DebtInput struct {
	CreditorName      string        `json:"creditorName"`
	Amount            Amount        `json:"amount"`
	Currency          Currency      `json:"currency"`
	PaymentMethod     PaymentMethod `json:"paymentMethod"`
	CardNumber        string        `json:"cardNumber,omitempty"`
	CardHolder        string        `json:"cardHolder,omitempty"`
	DateTaken         Date          `json:"dateTaken"`
	DueDate           Date          `json:"dueDate"`
	IsReminderEnabled bool          `json:"isReminderEnabled"`
	Description       string        `json:"description,omitempty"`
}

// ReceivableInput is the create/update body for a receivable.
type ReceivableInput struct {
	Debtor            string        `json:"debtor"`
	Amount            Amount        `json:"amount"`
	Currency          Currency      `json:"currency"`
	PaymentMethod     PaymentMethod `json:"paymentMethod"`
	CardNumber        string        `json:"cardNumber,omitempty"`
	CardHolder        string        `json:"cardHolder,omitempty"`
	DateGiven         Date          `json:"dateGiven"`
	DueDate           Date          `json:"dueDate"`
	IsReminderEnabled bool          `json:"isReminderEnabled"`
	Description       string        `json:"description,omitempty"`
}

// ExpenseInput is the create/update body for an expense. CustomCategory is
// only read when Category is "other" and is folded into Category by Normalize.
type ExpenseInput struct {
	Title          string        `json:"title"`
	Amount         Amount        `json:"amount"`
	Category       string        `json:"category"`
	CustomCategory string        `json:"customCategory,omitempty"`
	Method         PaymentMethod `json:"method"`
	CardNumber     string        `json:"cardNumber,omitempty"`
	CardHolder     string        `json:"cardHolder,omitempty"`
	Date           Date          `json:"date"`
	Description    string        `json:"description,omitempty"`
}

// PaymentInput is one pay/receive event.
type PaymentInput struct {
	Amount Amount `json:"amount"`
	Date   Date   `json:"date"`
	Note   string `json:"note,omitempty"`
}

// ProfileInput updates the current user. Email and password are sent only
// when non-empty.
type ProfileInput struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

// LoginForm is what the browser posts: the local part of the phone number
// without the +998 prefix.
type LoginForm struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Credentials is the upstream login body.
type Credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type RegisterForm struct {
	Name            string `json:"name"`
	Surname         string `json:"surname"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Registration is the upstream register body.
type Registration struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

const phonePrefix = "+998"

// FullPhone prefixes the local number with the country code, dropping spaces.
func FullPhone(local string) string {
	return phonePrefix + stripSpaces(local)
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// normalizeCard drops card details for cash payments and strips spaces
// from card numbers.
func normalizeCard(m PaymentMethod, number, holder string) (string, string) {
	if m != Card {
		return "", ""
	}
	return stripSpaces(number), strings.TrimSpace(holder)
}

func (in *DebtInput) Normalize() {
	in.CreditorName = strings.TrimSpace(in.CreditorName)
	if in.Currency == "" {
		in.Currency = UZS
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = Cash
	}
	in.CardNumber, in.CardHolder = normalizeCard(in.PaymentMethod, in.CardNumber, in.CardHolder)
}

func (in *ReceivableInput) Normalize() {
	in.Debtor = strings.TrimSpace(in.Debtor)
	if in.Currency == "" {
		in.Currency = UZS
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = Cash
	}
	in.CardNumber, in.CardHolder = normalizeCard(in.PaymentMethod, in.CardNumber, in.CardHolder)
}

func (in *ExpenseInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	if in.Method == "" {
		in.Method = Cash
	}
	if in.Category == CategoryOther {
		in.Category = strings.TrimSpace(in.CustomCategory)
	}
	in.CustomCategory = ""
	in.CardNumber, in.CardHolder = normalizeCard(in.Method, in.CardNumber, in.CardHolder)
}

func (f LoginForm) Credentials() Credentials {
	return Credentials{Login: FullPhone(f.Phone), Password: f.Password}
}

func (f RegisterForm) Registration() Registration {
	return Registration{
		Name:     strings.TrimSpace(strings.TrimSpace(f.Name) + " " + strings.TrimSpace(f.Surname)),
		Phone:    FullPhone(f.Phone),
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
	}
}
