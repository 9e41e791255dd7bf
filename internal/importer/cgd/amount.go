package cgd

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseEuropeanAmount reads "1.234,56" style numbers: dots group thousands and
// the comma is the decimal mark.
func parseEuropeanAmount(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(s, ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")

	return decimal.NewFromString(clean)
}
