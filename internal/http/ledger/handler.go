package ledger

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fintrack/internal/export"
	"github.com/MrJamesThe3rd/fintrack/internal/http/httpx"
	"github.com/MrJamesThe3rd/fintrack/internal/ledger"
	"github.com/MrJamesThe3rd/fintrack/internal/settings"
)

type Handler struct {
	ledger   *ledger.Service
	export   *export.Service
	settings *settings.Service
	now      func() time.Time
}

func NewHandler(ledgerSvc *ledger.Service, exportSvc *export.Service, settingsSvc *settings.Service) *Handler {
	return &Handler{ledger: ledgerSvc, export: exportSvc, settings: settingsSvc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.view)
	r.Get("/csv", h.csv)
	r.Get("/summary", h.summary)
}

type rowResponse struct {
	ledger.Entry
	Balance decimal.Decimal `json:"balance"`
}

type ledgerResponse struct {
	Rows   []rowResponse `json:"rows"`
	Totals ledger.Totals `json:"totals"`
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (ledger.Sorted, bool) {
	filter, err := httpx.LedgerFilter(r)
	if err != nil {
		httpx.Error(w, err)
		return ledger.Sorted{}, false
	}

	sorted, err := h.ledger.Ledger(r.Context(), filter)
	if err != nil {
		httpx.Error(w, err)
		return ledger.Sorted{}, false
	}

	return sorted, true
}

func (h *Handler) view(w http.ResponseWriter, r *http.Request) {
	sorted, ok := h.load(w, r)
	if !ok {
		return
	}

	resp := ledgerResponse{
		Rows:   make([]rowResponse, sorted.Len()),
		Totals: sorted.Totals(),
	}

	for i := range sorted.Len() {
		resp.Rows[i] = rowResponse{Entry: sorted.Entry(i), Balance: sorted.RunningBalance(i)}
	}

	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) csv(w http.ResponseWriter, r *http.Request) {
	filter, err := httpx.LedgerFilter(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	var buf bytes.Buffer
	if err := h.export.WriteLedgerCSV(r.Context(), &buf, filter); err != nil {
		httpx.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(h.now())))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write csv", "error", err)
	}
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	sorted, ok := h.load(w, r)
	if !ok {
		return
	}

	s, err := h.settings.Get(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if _, err := fmt.Fprint(w, export.Summary(sorted, s.CurrencySymbol)); err != nil {
		slog.Error("failed to write summary", "error", err)
	}
}
