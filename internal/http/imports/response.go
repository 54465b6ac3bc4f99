package imports

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/invoicer/internal/importer"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

type invoiceDTO struct {
	Code        string          `json:"code"`
	IssuedDate  string          `json:"issuedDate"`
	OwnerName   string          `json:"ownerName"`
	ContactName string          `json:"contactName"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Taxes       decimal.Decimal `json:"taxes"`
	Total       decimal.Decimal `json:"total"`
	Status      invoice.Status  `json:"status"`
}

type validationErrorDTO struct {
	Property importer.Property `json:"property"`
	Message  importer.Message  `json:"message"`
}

type failedRowDTO struct {
	Line   int                  `json:"line"`
	Errors []validationErrorDTO `json:"errors"`
}

type importResponse struct {
	File  string         `json:"file"`
	OK    []invoiceDTO   `json:"ok"`
	KO    []failedRowDTO `json:"ko"`
	Saved int            `json:"saved"`
}

func toImportResponse(file string, res *importer.Result, saved int) importResponse {
	resp := importResponse{
		File:  file,
		OK:    make([]invoiceDTO, 0, len(res.OK)),
		KO:    make([]failedRowDTO, 0, len(res.KO)),
		Saved: saved,
	}

	for _, inv := range res.OK {
		resp.OK = append(resp.OK, invoiceDTO{
			Code:        inv.Code,
			IssuedDate:  inv.IssuedDate,
			OwnerName:   inv.OwnerName,
			ContactName: inv.ContactName,
			Subtotal:    inv.Subtotal,
			Taxes:       inv.Taxes,
			Total:       inv.Total,
			Status:      inv.Status,
		})
	}

	for _, f := range res.KO {
		errs := make([]validationErrorDTO, len(f.Errors))
		for i, e := range f.Errors {
			errs[i] = validationErrorDTO{Property: e.Property, Message: e.Message}
		}

		resp.KO = append(resp.KO, failedRowDTO{Line: f.Line, Errors: errs})
	}

	return resp
}
