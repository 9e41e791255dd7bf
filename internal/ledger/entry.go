package ledger

import (
	"github.com/shopspring/decimal"
)

// Type is the direction of an entry; the amount itself is never negative.
type Type string

const (
	TypeExpense Type = "expense"
	TypeCredit  Type = "credit"
)

func (t Type) Valid() bool {
	return t == TypeExpense || t == TypeCredit
}

// Label is the capitalized form used in tables and CSV.
func (t Type) Label() string {
	switch t {
	case TypeExpense:
		return "Expense"
	case TypeCredit:
		return "Credit"
	}

	return string(t)
}

// Entry is one expense or credit in the ledger.
type Entry struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        Type            `json:"type"`
	Category    string          `json:"category,omitempty"`
	Timestamp   int64           `json:"timestamp"` // Creation time in ms since epoch
}

func (e Entry) CategoryLabel() string {
	if e.Category == "" {
		return "Uncategorized"
	}

	return e.Category
}
