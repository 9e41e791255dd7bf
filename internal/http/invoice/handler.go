package invoice

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fintrack/internal/http/httpx"
	"github.com/MrJamesThe3rd/fintrack/internal/invoice"
)

type Handler struct {
	svc *invoice.Service
}

func NewHandler(svc *invoice.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/draft", h.draft)
	r.Get("/summary", h.summary)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
}

type viewResponse struct {
	Kind      string             `json:"kind"`
	Lines     []invoice.LineItem `json:"lines,omitempty"`
	ItemsText string             `json:"itemsText,omitempty"`
	Subtotal  decimal.Decimal    `json:"subtotal"`
	TaxAmount decimal.Decimal    `json:"taxAmount"`
	Total     decimal.Decimal    `json:"total"`
}

type invoiceResponse struct {
	Invoice *invoice.Invoice `json:"invoice"`
	View    viewResponse     `json:"view"`
}

func toResponse(inv *invoice.Invoice) invoiceResponse {
	v := inv.Normalize()

	return invoiceResponse{
		Invoice: inv,
		View: viewResponse{
			Kind:      v.Kind.String(),
			Lines:     v.Lines,
			ItemsText: v.ItemsText,
			Subtotal:  v.Subtotal,
			TaxAmount: v.TaxAmount,
			Total:     v.Total,
		},
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.svc.List(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, invoices)
}

func (h *Handler) draft(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.NewDraft(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, d)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var d invoice.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		httpx.BadRequest(w, "invalid request body: "+err.Error())
		return
	}

	inv, err := h.svc.Create(r.Context(), d)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toResponse(inv))
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Summary(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, s)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	inv, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toResponse(inv))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
