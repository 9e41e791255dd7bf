package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrJamesThe3rd/fintrack/internal/app"
	"github.com/MrJamesThe3rd/fintrack/internal/http/backup"
	"github.com/MrJamesThe3rd/fintrack/internal/http/client"
	"github.com/MrJamesThe3rd/fintrack/internal/http/dashboard"
	"github.com/MrJamesThe3rd/fintrack/internal/http/entry"
	"github.com/MrJamesThe3rd/fintrack/internal/http/importcsv"
	"github.com/MrJamesThe3rd/fintrack/internal/http/invoice"
	"github.com/MrJamesThe3rd/fintrack/internal/http/ledger"
	"github.com/MrJamesThe3rd/fintrack/internal/http/settings"
)

type Options struct {
	CORSOrigins []string
	Timeout     time.Duration
}

func New(a *app.App, opts Options) http.Handler {
	var (
		entriesV1   = entry.NewHandler(a.Ledger)
		ledgerV1    = ledger.NewHandler(a.Ledger, a.Export, a.Settings)
		dashboardV1 = dashboard.NewHandler(a.Ledger, a.Invoices, a.Settings)
		invoicesV1  = invoice.NewHandler(a.Invoices)
		clientsV1   = client.NewHandler(a.Clients)
		settingsV1  = settings.NewHandler(a.Settings)
		backupV1    = backup.NewHandler(a.Backup)
		importV1    = importcsv.NewHandler(a.Importer, a.Ledger)
	)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/entries", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			entriesV1.Routes(r)
		})

		r.Route("/ledger", ledgerV1.Routes)
		r.Route("/dashboard", dashboardV1.Routes)

		r.Route("/invoices", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			invoicesV1.Routes(r)
		})

		r.Route("/clients", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			clientsV1.Routes(r)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			settingsV1.Routes(r)
		})

		r.Route("/backup", backupV1.Routes)
		r.Route("/import", importV1.Routes)
	})

	return router
}
