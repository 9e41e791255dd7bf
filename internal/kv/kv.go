// Package kv is the entity store: four fixed keys, each holding one
// independently encoded JSON collection that is always read and written whole.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/MrJamesThe3rd/fintrack/internal/fault"
	"github.com/MrJamesThe3rd/fintrack/internal/metrics"
)

// Key names one stored collection.
type Key string

const (
	KeyEntries  Key = "entries"
	KeyInvoices Key = "invoices"
	KeyClients  Key = "clients"
	KeySettings Key = "settings"
)

// Keys lists every collection in commit order.
func Keys() []Key {
	return []Key{KeyEntries, KeyInvoices, KeyClients, KeySettings}
}

// Backend persists the raw text of each collection.
type Backend interface {
	// Get returns fault.ErrNotFound when the key was never written.
	Get(ctx context.Context, key Key) ([]byte, error)
	Put(ctx context.Context, key Key, value []byte) error
	// PutAll replaces several keys together. Backends document how atomic it is.
	PutAll(ctx context.Context, values map[Key][]byte) error
	Close() error
}

// Store serializes read-modify-write cycles per key on top of a Backend.
type Store struct {
	backend Backend
	locks   map[Key]*sync.Mutex
}

func New(backend Backend) *Store {
	locks := make(map[Key]*sync.Mutex, len(Keys()))
	for _, k := range Keys() {
		locks[k] = &sync.Mutex{}
	}

	return &Store{backend: backend, locks: locks}
}

func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) lock(key Key) (func(), error) {
	mu, ok := s.locks[key]
	if !ok {
		return nil, fmt.Errorf("unknown key %q", key)
	}

	mu.Lock()

	return mu.Unlock, nil
}

// Raw returns the verbatim stored text, or fault.ErrNotFound.
func (s *Store) Raw(ctx context.Context, key Key) ([]byte, error) {
	unlock, err := s.lock(key)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return s.backend.Get(ctx, key)
}

// ReplaceAll overwrites the given keys with verbatim text in one backend commit.
// Every key lock is held for the duration so no update interleaves.
func (s *Store) ReplaceAll(ctx context.Context, values map[Key][]byte) error {
	for k := range values {
		if _, ok := s.locks[k]; !ok {
			return fmt.Errorf("unknown key %q", k)
		}
	}

	for _, k := range Keys() {
		if _, ok := values[k]; !ok {
			continue
		}

		mu := s.locks[k]
		mu.Lock()
		defer mu.Unlock()
	}

	err := s.backend.PutAll(ctx, values)
	recordWrite("all", err)

	return err
}

func (s *Store) get(ctx context.Context, key Key) ([]byte, error) {
	data, err := s.backend.Get(ctx, key)
	if errors.Is(err, fault.ErrNotFound) {
		return nil, nil
	}

	return data, err
}

func (s *Store) put(ctx context.Context, key Key, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}

	err = s.backend.Put(ctx, key, data)
	recordWrite(string(key), err)

	return err
}

// Read decodes the collection under key, or returns an empty slice if it was never written.
func Read[T any](ctx context.Context, s *Store, key Key) ([]T, error) {
	unlock, err := s.lock(key)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return decodeList[T](ctx, s, key)
}

func decodeList[T any](ctx context.Context, s *Store, key Key) ([]T, error) {
	data, err := s.get(ctx, key)
	if err != nil {
		return nil, err
	}

	out := []T{}
	if len(data) == 0 {
		return out, nil
	}

	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", key, err)
	}

	return out, nil
}

// Update runs a locked read-modify-write over the collection under key.
// If fn fails nothing is written.
func Update[T any](ctx context.Context, s *Store, key Key, fn func([]T) ([]T, error)) error {
	unlock, err := s.lock(key)
	if err != nil {
		return err
	}
	defer unlock()

	current, err := decodeList[T](ctx, s, key)
	if err != nil {
		return err
	}

	next, err := fn(current)
	if err != nil {
		return err
	}

	if next == nil {
		next = []T{}
	}

	return s.put(ctx, key, next)
}

// ReadObject decodes a single record stored under key, or returns fault.ErrNotFound.
func ReadObject[T any](ctx context.Context, s *Store, key Key) (*T, error) {
	unlock, err := s.lock(key)
	if err != nil {
		return nil, err
	}
	defer unlock()

	data, err := s.backend.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", key, err)
	}

	return &out, nil
}

// WriteObject replaces the single record stored under key.
func WriteObject[T any](ctx context.Context, s *Store, key Key, v T) error {
	unlock, err := s.lock(key)
	if err != nil {
		return err
	}
	defer unlock()

	return s.put(ctx, key, v)
}

func recordWrite(key string, err error) {
	metrics.StoreWrites.WithLabelValues(key, metrics.Outcome(err)).Inc()
}
