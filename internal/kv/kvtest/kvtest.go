// Package kvtest holds a conformance suite every kv.Backend must pass, plus
// a backend wrapper that injects write failures.
package kvtest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fintrack/internal/fault"
	"github.com/MrJamesThe3rd/fintrack/internal/kv"
)

// Run exercises a fresh backend from newBackend against the kv.Backend contract.
func Run(t *testing.T, newBackend func(t *testing.T) kv.Backend) {
	t.Helper()

	ctx := context.Background()

	t.Run("GetAbsent", func(t *testing.T) {
		b := newBackend(t)

		_, err := b.Get(ctx, kv.KeyEntries)
		assert.ErrorIs(t, err, fault.ErrNotFound)
	})

	t.Run("PutThenGet", func(t *testing.T) {
		b := newBackend(t)

		require.NoError(t, b.Put(ctx, kv.KeyClients, []byte(`["Acme"]`)))
		require.NoError(t, b.Put(ctx, kv.KeyClients, []byte(`["Acme","Globex"]`)))

		got, err := b.Get(ctx, kv.KeyClients)
		require.NoError(t, err)
		assert.JSONEq(t, `["Acme","Globex"]`, string(got))

		_, err = b.Get(ctx, kv.KeyInvoices)
		assert.ErrorIs(t, err, fault.ErrNotFound)
	})

	t.Run("PutAll", func(t *testing.T) {
		b := newBackend(t)

		require.NoError(t, b.Put(ctx, kv.KeyEntries, []byte(`[{"id":"old"}]`)))

		err := b.PutAll(ctx, map[kv.Key][]byte{
			kv.KeyEntries:  []byte(`[]`),
			kv.KeyInvoices: []byte(`[{"id":"inv"}]`),
			kv.KeyClients:  []byte(`["Acme"]`),
			kv.KeySettings: []byte(`{"currency":"EUR"}`),
		})
		require.NoError(t, err)

		want := map[kv.Key]string{
			kv.KeyEntries:  `[]`,
			kv.KeyInvoices: `[{"id":"inv"}]`,
			kv.KeyClients:  `["Acme"]`,
			kv.KeySettings: `{"currency":"EUR"}`,
		}

		for k, v := range want {
			got, err := b.Get(ctx, k)
			require.NoError(t, err, k)
			assert.Equal(t, v, string(got), k)
		}
	})
}

// ErrInjected is returned by Failing once armed.
var ErrInjected = errors.New("injected write failure")

// Failing wraps a backend and rejects writes while FailWrites is set.
type Failing struct {
	kv.Backend
	FailWrites bool
}

func (f *Failing) Put(ctx context.Context, key kv.Key, value []byte) error {
	if f.FailWrites {
		return fault.Storage("writing "+string(key), ErrInjected)
	}

	return f.Backend.Put(ctx, key, value)
}

func (f *Failing) PutAll(ctx context.Context, values map[kv.Key][]byte) error {
	if f.FailWrites {
		return fault.Storage("commit", ErrInjected)
	}

	return f.Backend.PutAll(ctx, values)
}
