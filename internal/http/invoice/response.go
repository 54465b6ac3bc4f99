package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

type invoiceResponse struct {
	ID          uuid.UUID       `json:"id"`
	BatchID     uuid.UUID       `json:"batch_id"`
	Code        string          `json:"code"`
	IssuedDate  string          `json:"issued_date"`
	OwnerName   string          `json:"owner_name"`
	ContactName string          `json:"contact_name"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Taxes       decimal.Decimal `json:"taxes"`
	Total       decimal.Decimal `json:"total"`
	Status      invoice.Status  `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}

func toResponse(rec *invoice.Record) invoiceResponse {
	return invoiceResponse{
		ID:          rec.ID,
		BatchID:     rec.BatchID,
		Code:        rec.Invoice.Code,
		IssuedDate:  rec.Invoice.IssuedDate,
		OwnerName:   rec.Invoice.OwnerName,
		ContactName: rec.Invoice.ContactName,
		Subtotal:    rec.Invoice.Subtotal,
		Taxes:       rec.Invoice.Taxes,
		Total:       rec.Invoice.Total,
		Status:      rec.Invoice.Status,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}

func toResponseList(recs []*invoice.Record) []invoiceResponse {
	resp := make([]invoiceResponse, len(recs))
	for i, rec := range recs {
		resp[i] = toResponse(rec)
	}

	return resp
}
