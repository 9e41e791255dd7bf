// Package memory is an in-process kv.Backend used by tests and STORE_DRIVER=memory.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/MrJamesThe3rd/fintrack/internal/fault"
	"github.com/MrJamesThe3rd/fintrack/internal/kv"
)

type Backend struct {
	mu   sync.RWMutex
	data map[kv.Key][]byte
}

func New() *Backend {
	return &Backend{data: make(map[kv.Key][]byte)}
}

func (b *Backend) Get(_ context.Context, key kv.Key) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	v, ok := b.data[key]
	if !ok {
		return nil, fault.ErrNotFound
	}

	return slices.Clone(v), nil
}

func (b *Backend) Put(_ context.Context, key kv.Key, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.data[key] = slices.Clone(value)

	return nil
}

// PutAll is atomic: readers see either the old or the new set.
func (b *Backend) PutAll(_ context.Context, values map[kv.Key][]byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for k, v := range values {
		b.data[k] = slices.Clone(v)
	}

	return nil
}

func (b *Backend) Close() error {
	return nil
}
