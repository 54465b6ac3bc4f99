package importer

import (
	"github.com/MrJamesThe3rd/invoicer/internal/importer/csvfile"
)

type Message string

const (
	MessageRequired Message = "required"
	MessageInvalid  Message = "invalid"
)

// ValidationError is a problem with one property of one row.
type ValidationError struct {
	Property Property
	Message  Message
}

func (e ValidationError) Error() string {
	return string(e.Property) + ": " + string(e.Message)
}

type Validator struct {
	schema Schema
}

func NewValidator(schema Schema) *Validator {
	return &Validator{schema: schema}
}

// Validate returns every problem in the row, in a fixed order: required text
// properties, then status, then the three amounts. An empty result means the
// row converts cleanly.
func (v *Validator) Validate(row csvfile.Row) []ValidationError {
	var errs []ValidationError

	for _, p := range requiredOrder {
		if !v.schema.requires(p) {
			continue
		}

		if _, ok := parseText(row.Get(Columns[p])); !ok {
			errs = append(errs, ValidationError{Property: p, Message: MessageRequired})
		}
	}

	if _, ok := v.schema.matchStatus(row.Get(ColumnStatus)); !ok {
		errs = append(errs, ValidationError{Property: PropertyStatus, Message: MessageInvalid})
	}

	for _, p := range amountOrder {
		if _, ok := parseAmount(row.Get(Columns[p])); !ok {
			errs = append(errs, ValidationError{Property: p, Message: MessageInvalid})
		}
	}

	return errs
}
