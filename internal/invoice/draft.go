package invoice

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fintrack/internal/fault"
	"github.com/MrJamesThe3rd/fintrack/internal/finance"
)

// DraftLine is an editable line. Its amount is derived, never stored.
type DraftLine struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

func (l DraftLine) Amount() decimal.Decimal {
	return finance.LineAmount(l.Quantity, l.Rate)
}

// Valid reports whether the line survives into a saved invoice.
func (l DraftLine) Valid() bool {
	return strings.TrimSpace(l.Description) != "" && l.Amount().IsPositive()
}

// Draft is an unsaved invoice.
type Draft struct {
	Client string      `json:"client"`
	Date   string      `json:"date"`
	Lines  []DraftLine `json:"lineItems"`

	TopLeft      string `json:"topLeft"`
	TopRight     string `json:"topRight"`
	BottomLeft   string `json:"bottomLeft"`
	BottomRight  string `json:"bottomRight"`
	BottomCenter string `json:"bottomCenter"`
}

func (d Draft) checkLines() error {
	for i, l := range d.Lines {
		if l.Quantity.IsNegative() {
			return fault.Invalid(fmt.Sprintf("lineItems[%d].quantity", i), "must not be negative")
		}

		if l.Rate.IsNegative() {
			return fault.Invalid(fmt.Sprintf("lineItems[%d].rate", i), "must not be negative")
		}
	}

	return nil
}

// ValidLines returns the lines that would be persisted, with amounts fixed.
func (d Draft) ValidLines() []LineItem {
	out := make([]LineItem, 0, len(d.Lines))

	for _, l := range d.Lines {
		if !l.Valid() {
			continue
		}

		out = append(out, LineItem{
			Description: strings.TrimSpace(l.Description),
			Quantity:    l.Quantity,
			Rate:        l.Rate,
			Amount:      l.Amount(),
		})
	}

	return out
}

// Totals previews subtotal, tax and total over the valid lines.
func (d Draft) Totals(taxPercentage decimal.Decimal) finance.Totals {
	return totalsOf(d.ValidLines(), taxPercentage)
}

func totalsOf(lines []LineItem, taxPercentage decimal.Decimal) finance.Totals {
	amounts := make([]decimal.Decimal, len(lines))
	for i, l := range lines {
		amounts[i] = l.Amount
	}

	return finance.ComputeTotals(amounts, taxPercentage)
}
