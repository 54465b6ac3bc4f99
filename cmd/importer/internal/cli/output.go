package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/MrJamesThe3rd/invoicer/internal/importer"
)

type jsonInvoice struct {
	Code        string `json:"code"`
	IssuedDate  string `json:"issuedDate"`
	OwnerName   string `json:"ownerName"`
	ContactName string `json:"contactName"`
	Subtotal    string `json:"subtotal"`
	Taxes       string `json:"taxes"`
	Total       string `json:"total"`
	Status      string `json:"status"`
}

type jsonError struct {
	Property string `json:"property"`
	Message  string `json:"message"`
}

type jsonFailedRow struct {
	Line   int         `json:"line"`
	Errors []jsonError `json:"errors"`
}

type jsonResult struct {
	File  string          `json:"file"`
	OK    []jsonInvoice   `json:"ok"`
	KO    []jsonFailedRow `json:"ko"`
	Saved int             `json:"saved"`
}

func writeJSON(w io.Writer, file string, res *importer.Result, saved int) error {
	out := jsonResult{
		File:  file,
		OK:    make([]jsonInvoice, 0, len(res.OK)),
		KO:    make([]jsonFailedRow, 0, len(res.KO)),
		Saved: saved,
	}

	for _, inv := range res.OK {
		out.OK = append(out.OK, jsonInvoice{
			Code:        inv.Code,
			IssuedDate:  inv.IssuedDate,
			OwnerName:   inv.OwnerName,
			ContactName: inv.ContactName,
			Subtotal:    inv.Subtotal.String(),
			Taxes:       inv.Taxes.String(),
			Total:       inv.Total.String(),
			Status:      string(inv.Status),
		})
	}

	for _, row := range res.KO {
		errs := make([]jsonError, 0, len(row.Errors))
		for _, e := range row.Errors {
			errs = append(errs, jsonError{Property: string(e.Property), Message: string(e.Message)})
		}

		out.KO = append(out.KO, jsonFailedRow{Line: row.Line, Errors: errs})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(out)
}

func writeSummary(w io.Writer, file string, schema importer.Schema, res *importer.Result) {
	fmt.Fprintf(w, "%s: %d rows, %d ok, %d failed\n", file, res.Rows(), len(res.OK), len(res.KO))

	statuses := make([]string, len(schema.Statuses))
	for i, st := range schema.Statuses {
		statuses[i] = string(st)
	}

	fmt.Fprintf(w, "  accepted statuses: %s\n", strings.Join(statuses, ", "))

	for _, row := range res.KO {
		reasons := make([]string, len(row.Errors))
		for i, e := range row.Errors {
			reasons[i] = e.Error()
		}

		fmt.Fprintf(w, "  line %d: %s\n", row.Line, strings.Join(reasons, ", "))
	}
}
