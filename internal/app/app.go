// Package app opens the configured store and builds every service on top of it.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/fintrack/internal/backup"
	"github.com/MrJamesThe3rd/fintrack/internal/client"
	clientStore "github.com/MrJamesThe3rd/fintrack/internal/client/store"
	"github.com/MrJamesThe3rd/fintrack/internal/config"
	"github.com/MrJamesThe3rd/fintrack/internal/database"
	"github.com/MrJamesThe3rd/fintrack/internal/export"
	"github.com/MrJamesThe3rd/fintrack/internal/ident"
	"github.com/MrJamesThe3rd/fintrack/internal/importer"
	"github.com/MrJamesThe3rd/fintrack/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/fintrack/internal/invoice/store"
	"github.com/MrJamesThe3rd/fintrack/internal/kv"
	"github.com/MrJamesThe3rd/fintrack/internal/kv/file"
	"github.com/MrJamesThe3rd/fintrack/internal/kv/memory"
	"github.com/MrJamesThe3rd/fintrack/internal/kv/sqlkv"
	"github.com/MrJamesThe3rd/fintrack/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/fintrack/internal/ledger/store"
	"github.com/MrJamesThe3rd/fintrack/internal/settings"
	settingsStore "github.com/MrJamesThe3rd/fintrack/internal/settings/store"
)

// App holds the services shared by the API, the CLI and the TUI.
type App struct {
	Store    *kv.Store
	Ledger   *ledger.Service
	Invoices *invoice.Service
	Clients  *client.Service
	Settings *settings.Service
	Backup   *backup.Service
	Export   *export.Service
	Importer *importer.Service
}

// OpenBackend returns the kv backend selected by cfg.Store.Driver.
func OpenBackend(ctx context.Context, cfg *config.Config) (kv.Backend, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return memory.New(), nil
	case config.DriverFile:
		return file.New(cfg.Store.Path)
	case config.DriverSQLite:
		db, err := database.NewSQLite(cfg.Store.Path)
		if err != nil {
			return nil, err
		}

		return openSQL(ctx, db, sqlkv.SQLite)
	case config.DriverPostgres:
		db, err := database.New(cfg.ConnectionString())
		if err != nil {
			return nil, err
		}

		return openSQL(ctx, db, sqlkv.Postgres)
	}

	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func openSQL(ctx context.Context, db *sql.DB, dialect sqlkv.Dialect) (kv.Backend, error) {
	b, err := sqlkv.New(ctx, db, dialect)
	if err != nil {
		db.Close()
		return nil, err
	}

	return b, nil
}

// New wires the services over an already opened backend.
func New(backend kv.Backend, numbering ident.Numbering) *App {
	store := kv.New(backend)

	var (
		settingsService = settings.NewService(settingsStore.New(store))
		clientService   = client.NewService(clientStore.New(store))
		ledgerService   = ledger.NewService(ledgerStore.New(store))
		invoiceService  = invoice.NewService(invoiceStore.New(store), settingsService, clientService, numbering)
	)

	return &App{
		Store:    store,
		Ledger:   ledgerService,
		Invoices: invoiceService,
		Clients:  clientService,
		Settings: settingsService,
		Backup:   backup.NewService(store),
		Export:   export.NewService(ledgerService),
		Importer: importer.NewService(),
	}
}

// Open loads the backend and numbering named in cfg and wires the services.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	numbering, err := ident.ParseNumbering(cfg.Invoice.Numbering)
	if err != nil {
		return nil, fmt.Errorf("invoice numbering: %w", err)
	}

	backend, err := OpenBackend(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Store.Driver, err)
	}

	slog.Info("store opened", "driver", cfg.Store.Driver)

	return New(backend, numbering), nil
}

func (a *App) Close() error {
	return a.Store.Close()
}
