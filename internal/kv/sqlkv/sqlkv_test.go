package sqlkv_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fintrack/internal/database"
	"github.com/MrJamesThe3rd/fintrack/internal/kv"
	"github.com/MrJamesThe3rd/fintrack/internal/kv/kvtest"
	"github.com/MrJamesThe3rd/fintrack/internal/kv/sqlkv"
)

func newSQLite(t *testing.T) *sqlkv.Backend {
	t.Helper()

	db, err := database.NewSQLite(filepath.Join(t.TempDir(), "fintrack.db"))
	require.NoError(t, err)

	b, err := sqlkv.New(context.Background(), db, sqlkv.SQLite)
	require.NoError(t, err)

	t.Cleanup(func() { b.Close() })

	return b
}

func TestBackend_SQLite(t *testing.T) {
	kvtest.Run(t, func(t *testing.T) kv.Backend {
		return newSQLite(t)
	})
}

func TestBackend_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "fintrack.db")

	db, err := database.NewSQLite(path)
	require.NoError(t, err)

	b, err := sqlkv.New(ctx, db, sqlkv.SQLite)
	require.NoError(t, err)
	require.NoError(t, b.Put(ctx, kv.KeyClients, []byte(`["Acme"]`)))
	require.NoError(t, b.Close())

	db, err = database.NewSQLite(path)
	require.NoError(t, err)

	b, err = sqlkv.New(ctx, db, sqlkv.SQLite)
	require.NoError(t, err)

	defer b.Close()

	got, err := b.Get(ctx, kv.KeyClients)
	require.NoError(t, err)
	assert.Equal(t, `["Acme"]`, string(got))
}

func TestNew_UnknownDialect(t *testing.T) {
	db, err := database.NewSQLite(filepath.Join(t.TempDir(), "x.db"))
	require.NoError(t, err)

	defer db.Close()

	_, err = sqlkv.New(context.Background(), db, sqlkv.Dialect("oracle"))
	assert.Error(t, err)
}
