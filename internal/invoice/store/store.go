package store

import (
	"context"

	"github.com/MrJamesThe3rd/fintrack/internal/invoice"
	"github.com/MrJamesThe3rd/fintrack/internal/kv"
)

type Store struct {
	kv *kv.Store
}

func New(s *kv.Store) *Store {
	return &Store{kv: s}
}

func (s *Store) ListInvoices(ctx context.Context) ([]invoice.Invoice, error) {
	return kv.Read[invoice.Invoice](ctx, s.kv, kv.KeyInvoices)
}

// UpdateInvoices holds the invoices lock for the whole of fn, so a number
// picked inside fn cannot be taken by a concurrent create.
func (s *Store) UpdateInvoices(ctx context.Context, fn func([]invoice.Invoice) ([]invoice.Invoice, error)) error {
	return kv.Update(ctx, s.kv, kv.KeyInvoices, fn)
}
