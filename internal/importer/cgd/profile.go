package cgd

import "github.com/MrJamesThe3rd/fintrack/internal/ledger"

type amountMode int

const (
	// signed: one column, negative for money out ("Montante" = "-10,00").
	signed amountMode = iota
	// split: separate "Débito" and "Crédito" columns, both unsigned.
	split
)

// layout is the column set of one CGD statement export.
type layout struct {
	name      string
	date      string
	desc      string
	mode      amountMode
	amountCol string
	debit     string
	credit    string
}

func (l layout) columns() []string {
	cols := []string{l.date, l.desc}
	if l.mode == split {
		return append(cols, l.debit, l.credit)
	}

	return append(cols, l.amountCol)
}

// amount returns the unsigned value and direction of a row, or false when the
// row carries no movement.
func (l layout) amount(h header, row []string) (string, ledger.Type, bool) {
	if l.mode == signed {
		d, ok := cell(row, h[l.amountCol])
		if !ok || d.IsZero() {
			return "", "", false
		}

		if d.IsNegative() {
			return d.Abs().StringFixed(2), ledger.TypeExpense, true
		}

		return d.StringFixed(2), ledger.TypeCredit, true
	}

	if d, ok := cell(row, h[l.debit]); ok && !d.IsZero() {
		return d.Abs().StringFixed(2), ledger.TypeExpense, true
	}

	if d, ok := cell(row, h[l.credit]); ok && !d.IsZero() {
		return d.Abs().StringFixed(2), ledger.TypeCredit, true
	}

	return "", "", false
}

// layouts are tried in order, so the most specific comes first.
var layouts = []layout{
	{name: "cartão", date: "Data", desc: "Descrição", mode: split, debit: "Débito", credit: "Crédito"},
	{name: "extrato", date: "Data mov.", desc: "Descrição", mode: signed, amountCol: "Movimento"},
	{name: "conta", date: "Data mov.", desc: "Descrição", mode: signed, amountCol: "Montante"},
}
