// Package httpx holds the response and query helpers shared by the handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/MrJamesThe3rd/fintrack/internal/fault"
	"github.com/MrJamesThe3rd/fintrack/internal/ledger"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Status maps an error from the services to an HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, fault.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, fault.ErrFormat):
		return http.StatusUnprocessableEntity
	case errors.Is(err, fault.ErrNotFound):
		return http.StatusNotFound
	}

	return http.StatusInternalServerError
}

// Error writes err as a JSON body. Server faults are logged and their detail
// is not sent to the client.
func Error(w http.ResponseWriter, err error) {
	status := Status(err)

	resp := errorResponse{Error: err.Error()}

	var verr *fault.ValidationError
	if errors.As(err, &verr) {
		resp.Field = verr.Field
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)

		resp.Error = "internal error"
	}

	JSON(w, status, resp)
}

// BadRequest reports a malformed request that never reached a service.
func BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// LedgerFilter reads start_date, end_date (YYYY-MM-DD) and type from the query.
func LedgerFilter(r *http.Request) (ledger.ListFilter, error) {
	var filter ledger.ListFilter

	q := r.URL.Query()

	if s := q.Get("start_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, fault.Invalid("start_date", "must be YYYY-MM-DD")
		}

		filter.StartDate = new(t)
	}

	if s := q.Get("end_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, fault.Invalid("end_date", "must be YYYY-MM-DD")
		}

		filter.EndDate = new(t)
	}

	if s := q.Get("type"); s != "" {
		t := ledger.Type(s)
		if !t.Valid() {
			return filter, fault.Invalid("type", "must be expense or credit")
		}

		filter.Type = new(t)
	}

	return filter, nil
}

// Limit reads a positive integer query parameter, falling back to def.
func Limit(r *http.Request, name string, def int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fault.Invalid(name, "must be a positive integer")
	}

	return n, nil
}
