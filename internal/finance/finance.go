// Package finance holds the invoice arithmetic. All functions are pure and
// keep full decimal precision; rounding belongs to presentation.
package finance

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// LineAmount is quantity × rate.
func LineAmount(quantity, rate decimal.Decimal) decimal.Decimal {
	return quantity.Mul(rate)
}

// Sum adds amounts.
func Sum(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}

	return total
}

// TaxAmount is subtotal × percentage / 100.
func TaxAmount(subtotal, percentage decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(percentage).Div(hundred)
}

// Total is subtotal + tax.
func Total(subtotal, tax decimal.Decimal) decimal.Decimal {
	return subtotal.Add(tax)
}

// Totals is the derived money block of an invoice.
type Totals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// ComputeTotals derives subtotal, tax and total from line amounts that have
// already passed validation.
func ComputeTotals(lineAmounts []decimal.Decimal, taxPercentage decimal.Decimal) Totals {
	subtotal := Sum(lineAmounts)
	tax := TaxAmount(subtotal, taxPercentage)

	return Totals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     Total(subtotal, tax),
	}
}

// Format renders an amount with two fraction digits for display.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}
