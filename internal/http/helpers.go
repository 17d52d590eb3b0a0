package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"daftar/internal/core"
	"daftar/internal/gate"
	"daftar/internal/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain sentinels onto HTTP statuses and logs server-side
// failures with the request logger.
func writeError(w http.ResponseWriter, r *http.Request, fallback int, err error) {
	status := fallback
	switch {
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrAccountNotEmpty),
		errors.Is(err, core.ErrCategoryNotEmpty),
		errors.Is(err, core.ErrCurrencyMismatch):
		status = http.StatusConflict
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrInvalidCurrency),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidDate):
		status = http.StatusBadRequest
	case errors.Is(err, gate.ErrLocked):
		status = http.StatusTooManyRequests
	case errors.Is(err, gate.ErrBadPin), errors.Is(err, gate.ErrPinFormat):
		status = http.StatusUnauthorized
	case errors.Is(err, gate.ErrGateClosed):
		status = http.StatusForbidden
	}

	if status >= 500 {
		log.FromContext(r.Context()).Error("Handler error",
			log.FieldPath, r.URL.Path, log.FieldError, err.Error())
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func queryInt(r *http.Request, key string, def int) int {
	if v := strings.TrimSpace(r.URL.Query().Get(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
