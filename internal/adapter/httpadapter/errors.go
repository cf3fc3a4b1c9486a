package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/couchcryptid/zhvi-dashboard/internal/domain"
	"github.com/couchcryptid/zhvi-dashboard/internal/session"
)

var (
	errBadRequest   = errors.New("bad request")
	errStaticMapOff = errors.New("static map rendering is disabled")
	errUpstream     = errors.New("upstream request failed")
	errUnknownState = errors.New("unknown state")
)

const internalErrorString = "internal server error"

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeError maps domain and adapter errors to HTTP statuses. Anything
// unrecognized is a server bug: it is logged and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, code := http.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, errUnknownState):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrNoData):
		status, code = http.StatusNotFound, "no_data"
	case errors.Is(err, domain.ErrInvalidSelection):
		status, code = http.StatusUnprocessableEntity, "invalid_selection"
	case errors.Is(err, errBadRequest):
		status, code = http.StatusBadRequest, "bad_request"
	case errors.Is(err, errStaticMapOff):
		status, code = http.StatusServiceUnavailable, "disabled"
	case errors.Is(err, errUpstream):
		status, code = http.StatusBadGateway, "upstream"
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = internalErrorString
	}
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client gone; nothing left to report
}
