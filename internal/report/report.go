// Package report renders import results as spreadsheets.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/invoicer/internal/importer"
)

const (
	SheetInvoices = "Invoices"
	SheetErrors   = "Errors"
)

var (
	invoiceHeader = []any{"Invoice Code", "Issued Date", "Owner Name", "Contact Name", "Subtotal", "Taxes", "Total", "Status"}
	errorHeader   = []any{"Line", "Property", "Message"}
)

// WriteXLSX writes a workbook with one sheet of accepted invoices and one
// sheet with a line per validation error.
func WriteXLSX(w io.Writer, res *importer.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetInvoices); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if _, err := f.NewSheet(SheetErrors); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	if err := writeRow(f, SheetInvoices, 1, invoiceHeader); err != nil {
		return err
	}

	for i, inv := range res.OK {
		// Amounts go in as float64 so the spreadsheet can sum them; the
		// exact decimal text is kept in the import result.
		values := []any{
			inv.Code, inv.IssuedDate, inv.OwnerName, inv.ContactName,
			inv.Subtotal.InexactFloat64(), inv.Taxes.InexactFloat64(), inv.Total.InexactFloat64(),
			string(inv.Status),
		}
		if err := writeRow(f, SheetInvoices, i+2, values); err != nil {
			return err
		}
	}

	if err := writeRow(f, SheetErrors, 1, errorHeader); err != nil {
		return err
	}

	next := 2

	for _, failed := range res.KO {
		for _, e := range failed.Errors {
			if err := writeRow(f, SheetErrors, next, []any{failed.Line, string(e.Property), string(e.Message)}); err != nil {
				return err
			}
			next++
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}

	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}

	return nil
}
