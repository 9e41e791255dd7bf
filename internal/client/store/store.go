package store

import (
	"context"

	"github.com/MrJamesThe3rd/fintrack/internal/kv"
)

type Store struct {
	kv *kv.Store
}

func New(s *kv.Store) *Store {
	return &Store{kv: s}
}

func (s *Store) ListClients(ctx context.Context) ([]string, error) {
	return kv.Read[string](ctx, s.kv, kv.KeyClients)
}

func (s *Store) UpdateClients(ctx context.Context, fn func([]string) ([]string, error)) error {
	return kv.Update(ctx, s.kv, kv.KeyClients, fn)
}
