package ledger

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

// Signed returns the amount with credits positive and expenses negative.
func (e Entry) Signed() decimal.Decimal {
	if e.Type == TypeCredit {
		return e.Amount
	}

	if e.Type == TypeExpense {
		return e.Amount.Neg()
	}

	return decimal.Zero
}

type Totals struct {
	Credits  decimal.Decimal `json:"credits"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

// Summarize totals credits and expenses in any order.
func Summarize(entries []Entry) Totals {
	var t Totals

	for _, e := range entries {
		switch e.Type {
		case TypeCredit:
			t.Credits = t.Credits.Add(e.Amount)
		case TypeExpense:
			t.Expenses = t.Expenses.Add(e.Amount)
		}
	}

	t.Net = t.Credits.Sub(t.Expenses)

	return t
}

// NetBalance is credits minus expenses.
func NetBalance(entries []Entry) decimal.Decimal {
	return Summarize(entries).Net
}

// Sorted is a sequence of entries ordered ascending by date together with
// the running balance at each position. It can only be built by SortByDate,
// so a balance is never computed over an unsorted sequence.
type Sorted struct {
	entries  []Entry
	balances []decimal.Decimal
}

// SortByDate orders a copy of entries by date, oldest first. Entries on the
// same date keep their relative order.
func SortByDate(entries []Entry) Sorted {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		return cmp.Compare(a.Date, b.Date)
	})

	balances := make([]decimal.Decimal, len(sorted))
	running := decimal.Zero

	for i, e := range sorted {
		running = running.Add(e.Signed())
		balances[i] = running
	}

	return Sorted{entries: sorted, balances: balances}
}

func (s Sorted) Len() int { return len(s.entries) }

// Entries returns a copy, so reordering it cannot desynchronise the
// precomputed balances.
func (s Sorted) Entries() []Entry { return slices.Clone(s.entries) }

func (s Sorted) Entry(i int) Entry { return s.entries[i] }

// RunningBalance is the signed sum of positions 0 through i inclusive.
func (s Sorted) RunningBalance(i int) decimal.Decimal {
	return s.balances[i]
}

func (s Sorted) Totals() Totals {
	return Summarize(s.entries)
}
