package importer

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// The validator and the mapper both go through these two functions, so a row
// the validator accepts always converts.

func parseText(s string) (string, bool) {
	v := strings.TrimSpace(s)
	return v, v != ""
}

// parseAmount parses a plain decimal such as "1234.56", "-3" or "1e3".
// Thousands separators, currency symbols, NaN and Infinity are rejected, and so
// is any value too large for a float64. Values too small for a float64 become 0.
func parseAmount(s string) (decimal.Decimal, bool) {
	v := strings.TrimSpace(s)
	if v == "" {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, false
	}

	// Range is checked on the float; ParseFloat never expands the exponent.
	f, err := strconv.ParseFloat(v, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return decimal.Zero, false
	}

	if math.IsInf(f, 0) {
		return decimal.Zero, false
	}

	if f == 0 {
		return decimal.Zero, true
	}

	return d, true
}
