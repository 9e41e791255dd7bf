package entry

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/fintrack/internal/http/httpx"
	"github.com/MrJamesThe3rd/fintrack/internal/ledger"
)

const defaultRecent = 5

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/recent", h.recent)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.replace)
	r.Delete("/{id}", h.delete)
}

// entryRequest accepts the amount as a JSON number or a numeric string.
type entryRequest struct {
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Type        ledger.Type `json:"type"`
	Category    string      `json:"category"`
}

func (req entryRequest) params() ledger.CreateParams {
	return ledger.CreateParams{
		Date:        req.Date,
		Description: req.Description,
		Amount:      req.Amount.String(),
		Type:        req.Type,
		Category:    req.Category,
	}
}

func decode(w http.ResponseWriter, r *http.Request) (entryRequest, bool) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.BadRequest(w, "invalid request body: "+err.Error())
		return req, false
	}

	return req, true
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	req, ok := decode(w, r)
	if !ok {
		return
	}

	e, err := h.svc.Add(r.Context(), req.params())
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, e)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := httpx.LedgerFilter(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	entries, err := h.svc.List(r.Context(), filter)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, entries)
}

func (h *Handler) recent(w http.ResponseWriter, r *http.Request) {
	n, err := httpx.Limit(r, "n", defaultRecent)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	entries, err := h.svc.Recent(r.Context(), n)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, entries)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, e)
}

func (h *Handler) replace(w http.ResponseWriter, r *http.Request) {
	req, ok := decode(w, r)
	if !ok {
		return
	}

	e, err := h.svc.Replace(r.Context(), chi.URLParam(r, "id"), req.params())
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, e)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
