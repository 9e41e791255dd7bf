// Package sqlkv keeps collections in a single SQL table, one row per key.
// It works with the pgx (postgres) and modernc (sqlite) drivers.
package sqlkv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/fintrack/internal/fault"
	"github.com/MrJamesThe3rd/fintrack/internal/kv"
)

type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

const createTable = `
	CREATE TABLE IF NOT EXISTS collections (
		name       TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at BIGINT NOT NULL
	)
`

type Backend struct {
	db      *sql.DB
	dialect Dialect
}

// New creates the collections table if needed. The caller owns db; Close closes it.
func New(ctx context.Context, db *sql.DB, dialect Dialect) (*Backend, error) {
	if dialect != Postgres && dialect != SQLite {
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	if _, err := db.ExecContext(ctx, createTable); err != nil {
		return nil, fmt.Errorf("creating collections table: %w", err)
	}

	return &Backend{db: db, dialect: dialect}, nil
}

// placeholders returns the bind markers for the dialect.
func (b *Backend) placeholders() (string, string, string) {
	if b.dialect == Postgres {
		return "$1", "$2", "$3"
	}

	return "?", "?", "?"
}

func (b *Backend) selectQuery() string {
	p1, _, _ := b.placeholders()
	return "SELECT value FROM collections WHERE name = " + p1
}

func (b *Backend) upsertQuery() string {
	p1, p2, p3 := b.placeholders()

	return fmt.Sprintf(`
		INSERT INTO collections (name, value, updated_at)
		VALUES (%s, %s, %s)
		ON CONFLICT (name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, p1, p2, p3)
}

func (b *Backend) Get(ctx context.Context, key kv.Key) ([]byte, error) {
	var value string

	err := b.db.QueryRowContext(ctx, b.selectQuery(), string(key)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fault.ErrNotFound
	}

	if err != nil {
		return nil, fault.Storage("reading "+string(key), err)
	}

	return []byte(value), nil
}

func (b *Backend) Put(ctx context.Context, key kv.Key, value []byte) error {
	_, err := b.db.ExecContext(ctx, b.upsertQuery(), string(key), string(value), time.Now().UnixMilli())
	if err != nil {
		return fault.Storage("writing "+string(key), err)
	}

	return nil
}

// PutAll writes every key inside one transaction.
func (b *Backend) PutAll(ctx context.Context, values map[kv.Key][]byte) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fault.Storage("begin", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, b.upsertQuery())
	if err != nil {
		return fault.Storage("prepare", err)
	}
	defer stmt.Close()

	now := time.Now().UnixMilli()

	for _, k := range kv.Keys() {
		v, ok := values[k]
		if !ok {
			continue
		}

		if _, err := stmt.ExecContext(ctx, string(k), string(v), now); err != nil {
			return fault.Storage("writing "+string(k), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fault.Storage("commit", err)
	}

	return nil
}

func (b *Backend) Close() error {
	return b.db.Close()
}
