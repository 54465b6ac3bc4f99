package importer

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

// Property names an Invoice field as reported in validation errors.
type Property string

const (
	PropertyCode        Property = "code"
	PropertyIssuedDate  Property = "issuedDate"
	PropertyOwnerName   Property = "ownerName"
	PropertyContactName Property = "contactName"
	PropertySubtotal    Property = "subtotal"
	PropertyTaxes       Property = "taxes"
	PropertyTotal       Property = "total"
	PropertyStatus      Property = "status"
)

// Header columns, matched exactly.
const (
	ColumnCode        = "Invoice Code"
	ColumnIssuedDate  = "Issued Date"
	ColumnOwnerName   = "Owner Name"
	ColumnContactName = "Contact Name"
	ColumnSubtotal    = "Subtotal"
	ColumnTaxes       = "Taxes"
	ColumnTotal       = "Total"
	ColumnStatus      = "Status"
)

// Columns maps every property to the header column it is read from.
var Columns = map[Property]string{
	PropertyCode:        ColumnCode,
	PropertyIssuedDate:  ColumnIssuedDate,
	PropertyOwnerName:   ColumnOwnerName,
	PropertyContactName: ColumnContactName,
	PropertySubtotal:    ColumnSubtotal,
	PropertyTaxes:       ColumnTaxes,
	PropertyTotal:       ColumnTotal,
	PropertyStatus:      ColumnStatus,
}

// columnOrder is the order columns are listed in a header.
var columnOrder = []Property{
	PropertyCode,
	PropertyIssuedDate,
	PropertyOwnerName,
	PropertyContactName,
	PropertySubtotal,
	PropertyTaxes,
	PropertyTotal,
	PropertyStatus,
}

// MissingColumns returns the expected header columns absent from header, in
// their usual file order. Rows of such a file read those columns as empty.
func MissingColumns(header []string) []string {
	var missing []string

	for _, p := range columnOrder {
		if col := Columns[p]; !slices.Contains(header, col) {
			missing = append(missing, col)
		}
	}

	return missing
}

// requiredOrder is the order required-text checks run in.
var requiredOrder = []Property{
	PropertyCode,
	PropertyOwnerName,
	PropertyContactName,
	PropertyIssuedDate,
}

var amountOrder = []Property{PropertySubtotal, PropertyTaxes, PropertyTotal}

// alwaysRequired cannot be switched off: code keys stored invoices.
var alwaysRequired = []Property{PropertyCode, PropertyOwnerName, PropertyIssuedDate}

// Schema is the configurable part of row validation.
type Schema struct {
	// Required lists the text properties that must be non-empty.
	Required []Property `yaml:"required"`

	// Statuses is the closed set of accepted statuses, lower-case.
	Statuses []invoice.Status `yaml:"statuses"`

	// CaseSensitiveStatus rejects "Issued" when only "issued" is allowed.
	CaseSensitiveStatus bool `yaml:"caseSensitiveStatus"`
}

// DefaultSchema requires every text property, including contactName, and
// accepts issued and draft invoices case-insensitively.
func DefaultSchema() Schema {
	return Schema{
		Required: []Property{PropertyCode, PropertyOwnerName, PropertyContactName, PropertyIssuedDate},
		Statuses: []invoice.Status{invoice.StatusIssued, invoice.StatusDraft},
	}
}

func (s Schema) Validate() error {
	var errs []error

	for _, p := range alwaysRequired {
		if !slices.Contains(s.Required, p) {
			errs = append(errs, fmt.Errorf("property %s must be required", p))
		}
	}

	for _, p := range s.Required {
		if !slices.Contains(requiredOrder, p) {
			errs = append(errs, fmt.Errorf("property %s cannot be marked required", p))
		}
	}

	if len(s.Statuses) == 0 {
		errs = append(errs, errors.New("at least one status must be allowed"))
	}

	for _, st := range s.Statuses {
		if string(st) != strings.ToLower(strings.TrimSpace(string(st))) || st == "" {
			errs = append(errs, fmt.Errorf("status %q must be lower-case and trimmed", st))
		}
	}

	return errors.Join(errs...)
}

func (s Schema) requires(p Property) bool {
	return slices.Contains(s.Required, p)
}

// matchStatus returns the canonical status for raw, if it is allowed.
func (s Schema) matchStatus(raw string) (invoice.Status, bool) {
	v := strings.TrimSpace(raw)

	for _, st := range s.Statuses {
		if s.CaseSensitiveStatus && v == string(st) {
			return st, true
		}

		if !s.CaseSensitiveStatus && strings.EqualFold(v, string(st)) {
			return st, true
		}
	}

	return "", false
}

// LoadSchema reads a YAML schema file. Keys that are absent keep their
// DefaultSchema values; unknown keys are an error.
func LoadSchema(path string) (Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return Schema{}, fmt.Errorf("open schema: %w", err)
	}
	defer f.Close()

	schema := DefaultSchema()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	if err := dec.Decode(&schema); err != nil {
		return Schema{}, fmt.Errorf("decode schema %s: %w", path, err)
	}

	if err := schema.Validate(); err != nil {
		return Schema{}, fmt.Errorf("invalid schema %s: %w", path, err)
	}

	return schema, nil
}
