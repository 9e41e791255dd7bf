// Package cgd reads Caixa Geral de Depósitos statement exports (account,
// statement and card views) into ledger entries.
package cgd

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fintrack/internal/encoding"
	"github.com/MrJamesThe3rd/fintrack/internal/fault"
	"github.com/MrJamesThe3rd/fintrack/internal/ledger"
)

const dateLayout = "02-01-2006"

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse skips the preamble CGD puts above the table, finds the first row that
// matches a known layout and reads every dated row below it. Footer rows
// without a date or amount are dropped.
func (p *Parser) Parse(r io.Reader) ([]ledger.CreateParams, error) {
	utf8r, _, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fault.Invalid("file", fmt.Sprintf("read csv: %v", err))
	}

	l, h, at, ok := locate(rows)
	if !ok {
		return nil, fault.Invalid("file", "no matching CGD format found: expected columns for conta, extrato, or cartão")
	}

	var out []ledger.CreateParams

	for i, row := range rows[at+1:] {
		line := at + i + 2

		date, ok := parseDate(text(row, h[l.date]))
		if !ok {
			continue
		}

		desc := text(row, h[l.desc])
		if desc == "" {
			return nil, fault.Invalid(fmt.Sprintf("row %d", line), "missing description")
		}

		amount, typ, ok := l.amount(h, row)
		if !ok {
			continue
		}

		out = append(out, ledger.CreateParams{
			Date:        date,
			Description: desc,
			Amount:      amount,
			Type:        typ,
		})
	}

	return out, nil
}

// header maps trimmed column titles to their index.
type header map[string]int

func locate(rows [][]string) (layout, header, int, bool) {
	for at, row := range rows {
		h := make(header, len(row))

		for i, c := range row {
			if name := strings.TrimSpace(c); name != "" {
				h[name] = i
			}
		}

		for _, l := range layouts {
			if h.has(l.columns()) {
				return l, h, at, true
			}
		}
	}

	return layout{}, nil, 0, false
}

func (h header) has(names []string) bool {
	for _, n := range names {
		if _, ok := h[n]; !ok {
			return false
		}
	}

	return true
}

func parseDate(s string) (string, bool) {
	if s == "" {
		return "", false
	}

	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", false
	}

	return t.Format(time.DateOnly), true
}

func text(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func cell(row []string, idx int) (decimal.Decimal, bool) {
	s := text(row, idx)
	if s == "" {
		return decimal.Zero, false
	}

	d, err := parseEuropeanAmount(s)
	if err != nil {
		return decimal.Zero, false
	}

	return d, true
}
