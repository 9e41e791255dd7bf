package backup

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/fintrack/internal/backup"
	"github.com/MrJamesThe3rd/fintrack/internal/http/httpx"
)

// maxArchive bounds the upload; backup.Import caps each member separately.
const maxArchive = 256 << 20

type Handler struct {
	svc *backup.Service
}

func NewHandler(svc *backup.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/preview", h.preview)
	r.Get("/export", h.export)
	r.Post("/import", h.importArchive)
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	counts, err := h.svc.Preview(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, counts)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	archive, err := h.svc.Export(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", archive.Name))

	if _, err := w.Write(archive.Data); err != nil {
		slog.Error("failed to write archive", "error", err)
	}
}

// importArchive replaces all data with the uploaded "file". Confirmation is
// the caller's job.
func (h *Handler) importArchive(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxArchive)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		httpx.BadRequest(w, "failed to parse form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		httpx.BadRequest(w, "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httpx.BadRequest(w, "failed to read upload: "+err.Error())
		return
	}

	counts, err := h.svc.Import(r.Context(), data)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, counts)
}
