// Package handler implements the HTTP layer: it decodes requests, calls the
// service layer, and encodes responses. No business rules live here, and no
// SQL — handlers only know about HTTP and JSON.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/solardev/solar-api/internal/apperror"
)

// ErrorResponse is the error shape every endpoint returns: a machine-readable
// kind plus a human-readable message. One shape for 400, 404, 409 and 500
// keeps the frontend's error handling to a single code path.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// MessageResponse is the body for operations that return a confirmation
// rather than an entity (deletes).
type MessageResponse struct {
	Message string `json:"message"`
}

// writeJSON sends data with the given status. Headers and status must be set
// before the first body write — Encode writes — so the order here is fixed.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already gone; logging is all that's left.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError translates a domain error into an HTTP response.
//
// The service layer returns apperror sentinels; this is the single place
// where they meet status codes. errors.Is walks the wrap chain (AppError
// implements Unwrap), so services are free to add context with %w.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		kind := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			kind = "validation_error"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			kind = "not_found"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			kind = "conflict"
		}

		writeJSON(w, status, ErrorResponse{Error: kind, Message: appErr.Message})
		return
	}

	// Anything else is an unexpected storage or programming failure. The raw
	// message may contain SQL or file paths — clients get a generic line.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// pathID extracts the {id} route parameter as an int64.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, apperror.ValidationFailed("id", "id must be an integer")
	}
	return id, nil
}

// queryInt reads an optional integer query parameter, falling back to def
// when absent. A present but non-numeric value is a validation error, not a
// silent fallback — silently ignoring bad input hides client bugs.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.ValidationFailed(name, name+" must be an integer")
	}
	return v, nil
}
