package invoice

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fintrack/internal/finance"
)

// LineItem is one persisted invoice line. Amount is the snapshot taken at
// creation and is never recomputed from quantity and rate.
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// Invoice is a persisted invoice. Older records carry free-text Items and a
// single Amount instead of LineItems and the computed totals; use Normalize
// or GrandTotal rather than reading those fields directly.
type Invoice struct {
	ID            string `json:"id"`
	InvoiceNumber string `json:"invoiceNumber"`
	Client        string `json:"client"`
	Date          string `json:"date"`

	LineItems     []LineItem       `json:"lineItems,omitempty"`
	Subtotal      *decimal.Decimal `json:"subtotal,omitempty"`
	TaxPercentage decimal.Decimal  `json:"taxPercentage"`
	TaxAmount     *decimal.Decimal `json:"taxAmount,omitempty"`
	TaxName       string           `json:"taxName,omitempty"`
	Total         *decimal.Decimal `json:"total,omitempty"`

	// Legacy shape.
	Items  string           `json:"items,omitempty"`
	Amount *decimal.Decimal `json:"amount,omitempty"`

	Currency       string `json:"currency,omitempty"`
	CurrencySymbol string `json:"currencySymbol,omitempty"`

	CompanyName        string `json:"companyName"`
	CompanyLogo        string `json:"companyLogo"`
	CompanyDescription string `json:"companyDescription"`

	TopLeft      string `json:"topLeft"`
	TopRight     string `json:"topRight"`
	BottomLeft   string `json:"bottomLeft"`
	BottomRight  string `json:"bottomRight"`
	BottomCenter string `json:"bottomCenter"`

	Timestamp int64 `json:"timestamp"`
}

type Kind int

const (
	KindItemized Kind = iota
	KindLegacy
)

func (k Kind) String() string {
	if k == KindLegacy {
		return "legacy"
	}

	return "itemized"
}

func (inv Invoice) Kind() Kind {
	if len(inv.LineItems) > 0 {
		return KindItemized
	}

	return KindLegacy
}

// GrandTotal is total, falling back to the legacy amount, falling back to zero.
func (inv Invoice) GrandTotal() decimal.Decimal {
	if inv.Total != nil {
		return *inv.Total
	}

	if inv.Amount != nil {
		return *inv.Amount
	}

	return decimal.Zero
}

// Symbol is the currency symbol to print, "$" when the record has none.
func (inv Invoice) Symbol() string {
	if inv.CurrencySymbol == "" {
		return defaultCurrencySymbol
	}

	return inv.CurrencySymbol
}

// View is the shape-independent read model of an invoice.
type View struct {
	Kind      Kind
	Lines     []LineItem
	ItemsText string
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

func (inv Invoice) Normalize() View {
	total := inv.GrandTotal()

	if inv.Kind() == KindLegacy {
		return View{
			Kind:      KindLegacy,
			ItemsText: inv.Items,
			Subtotal:  total,
			TaxAmount: decimal.Zero,
			Total:     total,
		}
	}

	v := View{
		Kind:      KindItemized,
		Lines:     inv.LineItems,
		TaxAmount: decimal.Zero,
		Total:     total,
	}

	if inv.Subtotal != nil {
		v.Subtotal = *inv.Subtotal
	} else {
		amounts := make([]decimal.Decimal, len(inv.LineItems))
		for i, l := range inv.LineItems {
			amounts[i] = l.Amount
		}

		v.Subtotal = finance.Sum(amounts)
	}

	if inv.TaxAmount != nil {
		v.TaxAmount = *inv.TaxAmount
	}

	if inv.Total == nil && inv.Amount == nil {
		v.Total = finance.Total(v.Subtotal, v.TaxAmount)
	}

	return v
}
