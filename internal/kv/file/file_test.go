package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fintrack/internal/fault"
	"github.com/MrJamesThe3rd/fintrack/internal/kv"
	"github.com/MrJamesThe3rd/fintrack/internal/kv/file"
	"github.com/MrJamesThe3rd/fintrack/internal/kv/kvtest"
)

func TestBackend(t *testing.T) {
	kvtest.Run(t, func(t *testing.T) kv.Backend {
		b, err := file.New(t.TempDir())
		require.NoError(t, err)

		return b
	})
}

func TestBackend_Layout(t *testing.T) {
	dir := t.TempDir()

	b, err := file.New(dir)
	require.NoError(t, err)

	require.NoError(t, b.Put(context.Background(), kv.KeyClients, []byte(`["Acme"]`)))

	data, err := os.ReadFile(filepath.Join(dir, "clients.json"))
	require.NoError(t, err)
	assert.Equal(t, `["Acme"]`, string(data))

	leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestBackend_PutAllRollsBack(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	b, err := file.New(dir)
	require.NoError(t, err)

	require.NoError(t, b.Put(ctx, kv.KeyClients, []byte(`["Acme"]`)))
	require.NoError(t, b.Put(ctx, kv.KeyEntries, []byte(`[{"id":"e1"}]`)))

	require.NoError(t, b.Put(ctx, kv.KeySettings, []byte(`{"currency":"EUR"}`)))

	// A non-empty directory where the settings backup goes makes the last swap fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "settings.json.bak"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.json.bak", "pin"), nil, 0o644))

	err = b.PutAll(ctx, map[kv.Key][]byte{
		kv.KeyClients:  []byte(`[]`),
		kv.KeyEntries:  []byte(`[]`),
		kv.KeySettings: []byte(`{}`),
	})
	require.ErrorIs(t, err, fault.ErrStorage)

	got, err := b.Get(ctx, kv.KeyClients)
	require.NoError(t, err)
	assert.Equal(t, `["Acme"]`, string(got))

	got, err = b.Get(ctx, kv.KeyEntries)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"e1"}]`, string(got))

	got, err = b.Get(ctx, kv.KeySettings)
	require.NoError(t, err)
	assert.Equal(t, `{"currency":"EUR"}`, string(got))
}
