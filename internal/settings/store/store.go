package store

import (
	"context"

	"github.com/MrJamesThe3rd/fintrack/internal/kv"
	"github.com/MrJamesThe3rd/fintrack/internal/settings"
)

type Store struct {
	kv *kv.Store
}

func New(s *kv.Store) *Store {
	return &Store{kv: s}
}

func (s *Store) GetSettings(ctx context.Context) (*settings.Settings, error) {
	return kv.ReadObject[settings.Settings](ctx, s.kv, kv.KeySettings)
}

func (s *Store) SaveSettings(ctx context.Context, in settings.Settings) error {
	return kv.WriteObject(ctx, s.kv, kv.KeySettings, in)
}
