package importcsv

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/fintrack/internal/http/httpx"
	"github.com/MrJamesThe3rd/fintrack/internal/importer"
	"github.com/MrJamesThe3rd/fintrack/internal/ledger"
)

const maxUpload = 10 << 20

type Handler struct {
	importSvc *importer.Service
	ledgerSvc *ledger.Service
}

func NewHandler(importSvc *importer.Service, ledgerSvc *ledger.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		ledgerSvc: ledgerSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/formats", h.formats)
	r.Post("/", h.importCSV)
}

type importResponse struct {
	Imported int            `json:"imported"`
	Entries  []ledger.Entry `json:"entries"`
}

func (h *Handler) formats(w http.ResponseWriter, _ *http.Request) {
	httpx.JSON(w, http.StatusOK, h.importSvc.Formats())
}

// importCSV parses the uploaded "file" in the optional "format" field and
// appends every row, or none when any row is rejected.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		httpx.BadRequest(w, "failed to parse form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		httpx.BadRequest(w, "file field is required")
		return
	}
	defer file.Close()

	params, err := h.importSvc.Parse(importer.Format(r.FormValue("format")), file)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	entries, err := h.ledgerSvc.ImportBatch(r.Context(), params)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	if entries == nil {
		entries = []ledger.Entry{}
	}

	httpx.JSON(w, http.StatusCreated, importResponse{Imported: len(entries), Entries: entries})
}
