package csvfile

import "strings"

// Row is one data line keyed by header column. Lookups of unknown columns, or of
// columns past the end of a short line, yield "".
type Row struct {
	// Line is the 1-based line of the row in the source file, header included.
	Line int

	columns []string
	values  map[string]string
}

// NewRow zips values positionally with columns. Values are trimmed; when a column
// name repeats, the first occurrence wins.
func NewRow(line int, columns, values []string) Row {
	row := Row{
		Line:    line,
		columns: columns,
		values:  make(map[string]string, len(columns)),
	}

	for i, col := range columns {
		if _, seen := row.values[col]; seen {
			continue
		}

		row.values[col] = cellValue(values, i)
	}

	return row
}

func (r Row) Get(column string) string {
	return r.values[column]
}

// Columns returns the header names in file order.
func (r Row) Columns() []string {
	return r.columns
}

// cellValue safely gets a trimmed cell value from a record.
func cellValue(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}

	return strings.TrimSpace(record[idx])
}
