// Package schema checks mutation bodies against embedded JSON Schemas
// before anything is sent upstream.
package schema

import (
	"embed"
	"errors"
	"fmt"
	"sort"

	"github.com/xeipuuv/gojsonschema"

	"omonat/internal/core"
)

//go:embed schemas/*.json
var files embed.FS

// Name identifies one body schema.
type Name string

const (
	Debt       Name = "debt"
	Receivable Name = "receivable"
	Expense    Name = "expense"
	Payment    Name = "payment"
	Profile    Name = "profile"
	Login      Name = "login"
	Register   Name = "register"
)

var names = []Name{Debt, Receivable, Expense, Payment, Profile, Login, Register}

// ErrMalformed is returned for bodies that are not JSON at all.
var ErrMalformed = errors.New("malformed JSON body")

const (
	msgPhone    = "Telefon raqamini to'g'ri kiriting"
	msgPassword = "Parolni kiriting"
	msgCategory = "Kategoriyani tanlang"
	msgInvalid  = "Noto'g'ri qiymat"
)

// messages maps schema fields to what the form shows next to them.
var messages = map[Name]map[string]string{
	Debt: {
		"creditorName":  core.MsgName,
		"amount":        core.MsgDebtAmount,
		"dueDate":       core.MsgDueDate,
		"currency":      core.MsgCurrency,
		"paymentMethod": core.MsgMethod,
	},
	Receivable: {
		"debtor":        core.MsgName,
		"amount":        core.MsgReceivableAmount,
		"dueDate":       core.MsgDueDate,
		"currency":      core.MsgCurrency,
		"paymentMethod": core.MsgMethod,
	},
	Expense: {
		"title":    core.MsgTitle,
		"amount":   core.MsgExpenseAmount,
		"category": msgCategory,
		"method":   core.MsgMethod,
	},
	Payment: {
		"amount": core.MsgPaymentAmount,
	},
	Profile: {
		"name":  core.MsgName,
		"phone": msgPhone,
	},
	Login: {
		"phone":    msgPhone,
		"password": msgPassword,
	},
	Register: {
		"name":            core.MsgName,
		"phone":           msgPhone,
		"password":        msgPassword,
		"confirmPassword": core.MsgPasswordMismatch,
	},
}

// Validator holds the compiled schemas.
type Validator struct {
	schemas map[Name]*gojsonschema.Schema
}

// New compiles every embedded schema.
func New() (*Validator, error) {
	v := &Validator{schemas: make(map[Name]*gojsonschema.Schema, len(names))}
	for _, n := range names {
		raw, err := files.ReadFile("schemas/" + string(n) + ".json")
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", n, err)
		}
		s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", n, err)
		}
		v.schemas[n] = s
	}
	return v, nil
}

// Validate checks body against the named schema. Failures come back as a
// *core.ValidationError with one message per field.
func (v *Validator) Validate(name Name, body []byte) error {
	s, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}
	res, err := s.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if res.Valid() {
		return nil
	}

	seen := make(map[string]bool)
	verr := &core.ValidationError{}
	for _, e := range res.Errors() {
		field := fieldOf(e)
		if seen[field] {
			continue
		}
		seen[field] = true
		verr.Fields = append(verr.Fields, core.FieldError{
			Field:   field,
			Message: messageFor(name, field),
			Err:     errors.New(e.String()),
		})
	}
	sort.Slice(verr.Fields, func(i, j int) bool { return verr.Fields[i].Field < verr.Fields[j].Field })
	return verr
}

// fieldOf names the property an error is about. Missing properties are
// reported on the parent object, with the name in the details.
func fieldOf(e gojsonschema.ResultError) string {
	if e.Type() == "required" {
		if p, ok := e.Details()["property"].(string); ok {
			return p
		}
	}
	return e.Field()
}

func messageFor(name Name, field string) string {
	if m, ok := messages[name][field]; ok {
		return m
	}
	return msgInvalid
}
