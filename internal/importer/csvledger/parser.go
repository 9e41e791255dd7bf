// Package csvledger reads plain ledger spreadsheets, including the CSV the
// ledger export writes, into entries.
package csvledger

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fintrack/internal/encoding"
	"github.com/MrJamesThe3rd/fintrack/internal/fault"
	"github.com/MrJamesThe3rd/fintrack/internal/ledger"
)

// Two sheet shapes are accepted. With a Type column the amount is unsigned and
// the type word decides the direction. Without one, a negative amount is an
// expense. Unknown columns such as Balance are ignored.
const (
	colDate        = "date"
	colDescription = "description"
	colAmount      = "amount"
	colType        = "type"
	colCategory    = "category"
)

var typeWords = map[string]ledger.Type{
	"expense": ledger.TypeExpense,
	"debit":   ledger.TypeExpense,
	"credit":  ledger.TypeCredit,
	"income":  ledger.TypeCredit,
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]ledger.CreateParams, error) {
	utf8r, _, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	br := bufio.NewReader(utf8r)

	comma, err := sniffComma(br)
	if err != nil {
		return nil, fmt.Errorf("sniff delimiter: %w", err)
	}

	reader := csv.NewReader(br)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fault.Invalid("file", fmt.Sprintf("read csv: %v", err))
	}

	if len(rows) == 0 {
		return nil, fault.Invalid("file", "is empty")
	}

	cols := indexHeader(rows[0])
	for _, need := range []string{colDate, colDescription, colAmount} {
		if _, ok := cols[need]; !ok {
			return nil, fault.Invalid("file", fmt.Sprintf("missing %q column", need))
		}
	}

	var out []ledger.CreateParams

	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}

		params, err := cols.params(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}

		out = append(out, params)
	}

	return out, nil
}

// sniffComma picks ';' when the first non-empty line has more semicolons than
// commas, which is what European spreadsheet locales produce.
func sniffComma(br *bufio.Reader) (rune, error) {
	for n := 512; ; n *= 2 {
		buf, err := br.Peek(n)
		if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
			return 0, err
		}

		text := strings.TrimLeft(string(buf), "\r\n")
		if line, _, found := strings.Cut(text, "\n"); found || err != nil {
			if strings.Count(line, ";") > strings.Count(line, ",") {
				return ';', nil
			}

			return ',', nil
		}
	}
}

type columns map[string]int

func indexHeader(row []string) columns {
	cols := make(columns, len(row))

	for i, c := range row {
		name := strings.ToLower(strings.TrimSpace(c))
		if _, dup := cols[name]; name != "" && !dup {
			cols[name] = i
		}
	}

	return cols
}

func (c columns) get(row []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[i])
}

func (c columns) params(row []string) (ledger.CreateParams, error) {
	p := ledger.CreateParams{
		Date:        c.get(row, colDate),
		Description: c.get(row, colDescription),
		Amount:      c.get(row, colAmount),
		Category:    c.get(row, colCategory),
	}

	if _, typed := c[colType]; typed {
		word := strings.ToLower(c.get(row, colType))

		t, ok := typeWords[word]
		if !ok {
			return p, fault.Invalid(colType, fmt.Sprintf("unknown type %q", word))
		}

		p.Type = t

		return p, nil
	}

	if p.Amount == "" {
		return p, fault.Invalid(colAmount, "is required")
	}

	d, err := decimal.NewFromString(p.Amount)
	if err != nil {
		return p, fault.Invalid(colAmount, "must be a number")
	}

	p.Type = ledger.TypeCredit
	if d.IsNegative() {
		p.Type = ledger.TypeExpense
	}

	p.Amount = d.Abs().String()

	return p, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}
