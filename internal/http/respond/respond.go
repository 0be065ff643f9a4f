// Package respond holds the JSON and error writers shared by the handlers.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/ahorros/internal/apperrors"
)

type errorResponse struct {
	Error string `json:"error"`
}

// JSON encodes v before writing the status, so an unencodable value ends
// up as a 500 rather than an empty success.
func JSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)

		status = http.StatusInternalServerError
		body = []byte(`{"error":"internal error"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(append(body, '\n')); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// Error writes err with the status its sentinel maps to. Unknown errors are
// logged and reported as a bare 500.
func Error(w http.ResponseWriter, err error) {
	status := Status(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		msg = "internal error"
	}

	JSON(w, status, errorResponse{Error: msg})
}

func BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// Status maps the error taxonomy to HTTP status codes.
func Status(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrMissingRequiredMapping),
		errors.Is(err, apperrors.ErrUnknownFormat):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrInvalidBackupFormat),
		errors.Is(err, apperrors.ErrUnparsableDelimitedText),
		errors.Is(err, apperrors.ErrEmptySpreadsheet),
		errors.Is(err, apperrors.ErrInsufficientRows),
		errors.Is(err, apperrors.ErrNoValidRows):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrStorageWriteFailure):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
