package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/invoicer/internal/importer/csvfile"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

// Source produces the rows of a named file.
type Source interface {
	Read(ctx context.Context, filename string) ([]csvfile.Row, error)
	Load(name string, src io.Reader) ([]csvfile.Row, error)
}

// FailedRow is a rejected row and every reason it was rejected.
type FailedRow struct {
	Line   int
	Errors []ValidationError
}

// Result partitions the rows of one file. Each row appears exactly once, and
// both slices keep file order.
type Result struct {
	OK []invoice.Invoice
	KO []FailedRow
}

func (r *Result) Rows() int {
	return len(r.OK) + len(r.KO)
}

// ImportError is a file-level failure. It wraps a *csvfile.IOError or
// *csvfile.ParseError.
type ImportError struct {
	File string
	Err  error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import %s: %v", e.File, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }
