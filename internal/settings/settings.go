package settings

import (
	"github.com/shopspring/decimal"
)

// Settings is the organization-wide singleton: company identity, tax,
// currency label and default invoice customization text.
type Settings struct {
	CompanyName         string          `json:"companyName" toml:"company_name"`
	CompanyLogo         string          `json:"companyLogo" toml:"company_logo"`
	CompanyDescription  string          `json:"companyDescription" toml:"company_description"`
	TaxName             string          `json:"taxName" toml:"tax_name"`
	TaxPercentage       decimal.Decimal `json:"taxPercentage" toml:"tax_percentage"`
	Currency            string          `json:"currency" toml:"currency"`
	CurrencySymbol      string          `json:"currencySymbol" toml:"currency_symbol"`
	DefaultTopLeft      string          `json:"defaultTopLeft" toml:"default_top_left"`
	DefaultTopRight     string          `json:"defaultTopRight" toml:"default_top_right"`
	DefaultBottomLeft   string          `json:"defaultBottomLeft" toml:"default_bottom_left"`
	DefaultBottomRight  string          `json:"defaultBottomRight" toml:"default_bottom_right"`
	DefaultBottomCenter string          `json:"defaultBottomCenter" toml:"default_bottom_center"`
}

// Default is the record returned when nothing has been saved yet.
func Default() Settings {
	return Settings{
		TaxName:             "Tax",
		TaxPercentage:       decimal.Zero,
		Currency:            "USD",
		CurrencySymbol:      "$",
		DefaultBottomCenter: "Thank you for your business",
	}
}
