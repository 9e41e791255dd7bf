package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fintrack/internal/ledger"
)

func entry(date, amount string, typ ledger.Type) ledger.Entry {
	return ledger.Entry{Date: date, Description: date, Amount: decimal.RequireFromString(amount), Type: typ}
}

func TestSummarize(t *testing.T) {
	type testCase struct {
		name    string
		entries []ledger.Entry
		want    [3]string // credits, expenses, net
	}

	tests := []testCase{
		{
			name: "Empty",
			want: [3]string{"0.00", "0.00", "0.00"},
		},
		{
			name: "RentAndSalary",
			entries: []ledger.Entry{
				entry("2024-01-10", "1000", ledger.TypeExpense),
				entry("2024-01-15", "3000", ledger.TypeCredit),
			},
			want: [3]string{"3000.00", "1000.00", "2000.00"},
		},
		{
			name: "OnlyExpenses",
			entries: []ledger.Entry{
				entry("2024-02-01", "10.505", ledger.TypeExpense),
				entry("2024-02-02", "0.495", ledger.TypeExpense),
			},
			want: [3]string{"0.00", "11.00", "-11.00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ledger.Summarize(tt.entries)

			assert.Equal(t, tt.want[0], got.Credits.StringFixed(2))
			assert.Equal(t, tt.want[1], got.Expenses.StringFixed(2))
			assert.Equal(t, tt.want[2], got.Net.StringFixed(2))
			assert.True(t, got.Net.Equal(ledger.NetBalance(tt.entries)))
		})
	}
}

func TestSortByDate_RunningBalance(t *testing.T) {
	// Stored newest first; the ledger view must still be oldest first.
	sorted := ledger.SortByDate([]ledger.Entry{
		entry("2024-01-15", "3000", ledger.TypeCredit),
		entry("2024-01-10", "1000", ledger.TypeExpense),
	})

	require.Equal(t, 2, sorted.Len())
	assert.Equal(t, "2024-01-10", sorted.Entry(0).Date)
	assert.Equal(t, "-1000.00", sorted.RunningBalance(0).StringFixed(2))
	assert.Equal(t, "2000.00", sorted.RunningBalance(1).StringFixed(2))
	assert.Equal(t, "2000.00", sorted.Totals().Net.StringFixed(2))
}

func TestSortByDate_SameDateKeepsOrder(t *testing.T) {
	a := entry("2024-03-01", "5", ledger.TypeExpense)
	a.ID = "a"
	b := entry("2024-03-01", "7", ledger.TypeCredit)
	b.ID = "b"
	c := entry("2024-02-01", "1", ledger.TypeCredit)
	c.ID = "c"

	sorted := ledger.SortByDate([]ledger.Entry{a, b, c})

	ids := make([]string, 0, sorted.Len())
	for _, e := range sorted.Entries() {
		ids = append(ids, e.ID)
	}

	assert.Equal(t, []string{"c", "a", "b"}, ids)
	assert.Equal(t, "3.00", sorted.RunningBalance(2).StringFixed(2))
}

func TestSortByDate_DoesNotMutateInput(t *testing.T) {
	in := []ledger.Entry{
		entry("2024-01-15", "1", ledger.TypeCredit),
		entry("2024-01-10", "1", ledger.TypeCredit),
	}

	ledger.SortByDate(in)

	assert.Equal(t, "2024-01-15", in[0].Date)
}

func TestSorted_EntriesIsACopy(t *testing.T) {
	sorted := ledger.SortByDate([]ledger.Entry{
		entry("2024-01-10", "1000", ledger.TypeExpense),
		entry("2024-01-15", "3000", ledger.TypeCredit),
	})

	got := sorted.Entries()
	got[0], got[1] = got[1], got[0]
	got[0].Amount = decimal.NewFromInt(1)

	assert.Equal(t, "2024-01-10", sorted.Entry(0).Date)
	assert.Equal(t, "1000.00", sorted.Entry(0).Amount.StringFixed(2))
	assert.Equal(t, "-1000.00", sorted.RunningBalance(0).StringFixed(2))
}

func TestEntry_CategoryLabel(t *testing.T) {
	assert.Equal(t, "Uncategorized", ledger.Entry{}.CategoryLabel())
	assert.Equal(t, "Food", ledger.Entry{Category: "Food"}.CategoryLabel())
}
