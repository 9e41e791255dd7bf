package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/fintrack/internal/http/httpx"
	"github.com/MrJamesThe3rd/fintrack/internal/invoice"
	"github.com/MrJamesThe3rd/fintrack/internal/ledger"
	"github.com/MrJamesThe3rd/fintrack/internal/settings"
)

const recentCount = 5

type Handler struct {
	ledger   *ledger.Service
	invoices *invoice.Service
	settings *settings.Service
}

func NewHandler(ledgerSvc *ledger.Service, invoiceSvc *invoice.Service, settingsSvc *settings.Service) *Handler {
	return &Handler{ledger: ledgerSvc, invoices: invoiceSvc, settings: settingsSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
}

type response struct {
	CurrencySymbol string            `json:"currencySymbol"`
	Totals         ledger.Totals     `json:"totals"`
	Invoices       invoice.Summary   `json:"invoices"`
	RecentEntries  []ledger.Entry    `json:"recentEntries"`
	RecentInvoices []invoice.Invoice `json:"recentInvoices"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var resp response

	s, err := h.settings.Get(ctx)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	resp.CurrencySymbol = s.CurrencySymbol

	if resp.Totals, err = h.ledger.Summary(ctx, ledger.ListFilter{}); err != nil {
		httpx.Error(w, err)
		return
	}

	if resp.Invoices, err = h.invoices.Summary(ctx); err != nil {
		httpx.Error(w, err)
		return
	}

	if resp.RecentEntries, err = h.ledger.Recent(ctx, recentCount); err != nil {
		httpx.Error(w, err)
		return
	}

	if resp.RecentInvoices, err = h.invoices.Recent(ctx, recentCount); err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, resp)
}
