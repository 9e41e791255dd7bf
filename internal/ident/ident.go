// Package ident assigns record identifiers and human-readable invoice numbers.
package ident

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const invoicePrefix = "INV-"

// NewID returns a time-ordered unique identifier (UUIDv7).
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FormatInvoiceNumber renders n as INV-NNNNN.
func FormatInvoiceNumber(n int) string {
	return fmt.Sprintf("%s%05d", invoicePrefix, n)
}

// ParseInvoiceNumber extracts the sequence from an INV-NNNNN string.
func ParseInvoiceNumber(s string) (int, bool) {
	digits, ok := strings.CutPrefix(s, invoicePrefix)
	if !ok || digits == "" {
		return 0, false
	}

	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return 0, false
	}

	return n, true
}

// Numbering picks the next invoice number given the numbers already stored.
type Numbering interface {
	Next(existing []string) string
}

// Strategy names accepted by ParseNumbering.
const (
	StrategyCount = "count"
	StrategyMax   = "max"
)

// ParseNumbering resolves a configured strategy name.
func ParseNumbering(name string) (Numbering, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategyCount:
		return CountNumbering{}, nil
	case StrategyMax:
		return MaxNumbering{}, nil
	}

	return nil, fmt.Errorf("unknown invoice numbering strategy %q", name)
}

// CountNumbering numbers invoices by collection size: count + 1.
// Deleting invoices and creating new ones can reuse a number.
type CountNumbering struct{}

func (CountNumbering) Next(existing []string) string {
	return FormatInvoiceNumber(len(existing) + 1)
}

// MaxNumbering numbers invoices one past the highest number still stored,
// so a new invoice never shares a number with a live one.
type MaxNumbering struct{}

func (MaxNumbering) Next(existing []string) string {
	highest := 0

	for _, s := range existing {
		if n, ok := ParseInvoiceNumber(s); ok && n > highest {
			highest = n
		}
	}

	return FormatInvoiceNumber(highest + 1)
}
