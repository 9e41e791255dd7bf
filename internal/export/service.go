package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/fintrack/internal/finance"
	"github.com/MrJamesThe3rd/fintrack/internal/ledger"
)

// LedgerReader is the part of the ledger service the exporter needs.
type LedgerReader interface {
	Ledger(ctx context.Context, filter ledger.ListFilter) (ledger.Sorted, error)
}

// Service renders ledger entries as CSV and as a plain-text summary.
type Service struct {
	ledger LedgerReader
}

// NewService creates a new export Service.
func NewService(ledger LedgerReader) *Service {
	return &Service{ledger: ledger}
}

var header = []string{"Date", "Description", "Category", "Type", "Amount", "Balance"}

// FileName is the download name for a ledger export taken at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("ledger_%s.csv", t.Format(time.DateOnly))
}

// WriteLedgerCSV writes the entries matching filter, oldest first, with a
// running Balance column.
func (s *Service) WriteLedgerCSV(ctx context.Context, w io.Writer, filter ledger.ListFilter) error {
	sorted, err := s.ledger.Ledger(ctx, filter)
	if err != nil {
		return fmt.Errorf("loading ledger: %w", err)
	}

	return WriteCSV(w, sorted)
}

// WriteCSV writes one row per entry of an already sorted ledger.
func WriteCSV(w io.Writer, sorted ledger.Sorted) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, e := range sorted.Entries() {
		row := []string{
			e.Date,
			e.Description,
			e.Category,
			e.Type.Label(),
			finance.Format(e.Amount),
			finance.Format(sorted.RunningBalance(i)),
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// Summary renders the ledger as plain text, one line per entry followed by
// the totals, suitable for pasting into an email.
func Summary(sorted ledger.Sorted, symbol string) string {
	var sb strings.Builder

	for i, e := range sorted.Entries() {
		sign := "-"
		if e.Type == ledger.TypeCredit {
			sign = "+"
		}

		fmt.Fprintf(&sb, "* %s | %s | %s | %s%s%s | %s%s\n",
			e.Date, e.Description, e.CategoryLabel(),
			sign, symbol, finance.Format(e.Amount),
			symbol, finance.Format(sorted.RunningBalance(i)))
	}

	t := sorted.Totals()
	fmt.Fprintf(&sb, "\nCredits: %s%s\nExpenses: %s%s\nNet: %s%s\n",
		symbol, finance.Format(t.Credits),
		symbol, finance.Format(t.Expenses),
		symbol, finance.Format(t.Net))

	return sb.String()
}
