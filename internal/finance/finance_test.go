package finance_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/fintrack/internal/finance"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLineAmount(t *testing.T) {
	assert.Equal(t, "100.00", finance.Format(finance.LineAmount(dec("2"), dec("50"))))
	assert.Equal(t, "0.00", finance.Format(finance.LineAmount(dec("0"), dec("50"))))
	assert.True(t, finance.LineAmount(dec("1.5"), dec("0.333")).Equal(dec("0.4995")))
}

func TestComputeTotals(t *testing.T) {
	type testCase struct {
		name         string
		amounts      []decimal.Decimal
		tax          decimal.Decimal
		wantSubtotal string
		wantTax      string
		wantTotal    string
	}

	tests := []testCase{
		{
			name:         "DesignAndHosting",
			amounts:      []decimal.Decimal{finance.LineAmount(dec("2"), dec("50")), finance.LineAmount(dec("1"), dec("20"))},
			tax:          dec("10"),
			wantSubtotal: "120.00",
			wantTax:      "12.00",
			wantTotal:    "132.00",
		},
		{
			name:         "NoTax",
			amounts:      []decimal.Decimal{dec("99.99")},
			tax:          decimal.Zero,
			wantSubtotal: "99.99",
			wantTax:      "0.00",
			wantTotal:    "99.99",
		},
		{
			name:         "Empty",
			tax:          dec("20"),
			wantSubtotal: "0.00",
			wantTax:      "0.00",
			wantTotal:    "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := finance.ComputeTotals(tt.amounts, tt.tax)

			assert.Equal(t, tt.wantSubtotal, finance.Format(got.Subtotal))
			assert.Equal(t, tt.wantTax, finance.Format(got.TaxAmount))
			assert.Equal(t, tt.wantTotal, finance.Format(got.Total))
		})
	}
}

func TestTaxAmount_KeepsPrecision(t *testing.T) {
	// 33.33 at 7.5% is 2.49975; rounding is left to display.
	got := finance.TaxAmount(dec("33.33"), dec("7.5"))

	assert.True(t, got.Equal(dec("2.49975")), got.String())
	assert.Equal(t, "2.50", finance.Format(got))
}
