package store

import (
	"context"

	"github.com/MrJamesThe3rd/fintrack/internal/kv"
	"github.com/MrJamesThe3rd/fintrack/internal/ledger"
)

type Store struct {
	kv *kv.Store
}

func New(s *kv.Store) *Store {
	return &Store{kv: s}
}

func (s *Store) ListEntries(ctx context.Context) ([]ledger.Entry, error) {
	return kv.Read[ledger.Entry](ctx, s.kv, kv.KeyEntries)
}

func (s *Store) UpdateEntries(ctx context.Context, fn func([]ledger.Entry) ([]ledger.Entry, error)) error {
	return kv.Update(ctx, s.kv, kv.KeyEntries, fn)
}
