package invoice

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("invoice not found")

// Status is the lifecycle state of an invoice, always stored lower-case.
type Status string

const (
	StatusIssued Status = "issued"
	StatusDraft  Status = "draft"
	StatusPaid   Status = "paid"
)

// Invoice is an accepted invoice row. Values are never mutated after import.
type Invoice struct {
	Code        string
	IssuedDate  string
	OwnerName   string
	ContactName string
	Subtotal    decimal.Decimal
	Taxes       decimal.Decimal
	Total       decimal.Decimal
	Status      Status
}

// Record is an invoice as persisted by the store.
type Record struct {
	ID        uuid.UUID
	BatchID   uuid.UUID
	Invoice   Invoice
	CreatedAt time.Time
	UpdatedAt *time.Time
}
