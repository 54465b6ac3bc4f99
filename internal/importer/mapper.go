package importer

import (
	"github.com/MrJamesThe3rd/invoicer/internal/importer/csvfile"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

// toInvoice converts a row that passed Validate. It never fails for such rows.
func toInvoice(schema Schema, row csvfile.Row) invoice.Invoice {
	code, _ := parseText(row.Get(ColumnCode))
	issuedDate, _ := parseText(row.Get(ColumnIssuedDate))
	ownerName, _ := parseText(row.Get(ColumnOwnerName))
	contactName, _ := parseText(row.Get(ColumnContactName))

	subtotal, _ := parseAmount(row.Get(ColumnSubtotal))
	taxes, _ := parseAmount(row.Get(ColumnTaxes))
	total, _ := parseAmount(row.Get(ColumnTotal))

	status, _ := schema.matchStatus(row.Get(ColumnStatus))

	return invoice.Invoice{
		Code:        code,
		IssuedDate:  issuedDate,
		OwnerName:   ownerName,
		ContactName: contactName,
		Subtotal:    subtotal,
		Taxes:       taxes,
		Total:       total,
		Status:      status,
	}
}
