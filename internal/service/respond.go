package service

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gastosfacil/backend/internal/auth"
	"github.com/gastosfacil/backend/internal/ledger"
)

const maxBodyBytes = 1 << 20

var errInvalidBody = errors.New("invalid request body")

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Message: msg})
}

// writeError maps domain errors to HTTP statuses. Anything unrecognised is
// logged and reported as a bare 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ledger.ValidationError
	switch {
	case errors.As(err, &verr):
		writeMessage(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, errInvalidBody),
		errors.Is(err, auth.ErrMissingFields),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrPasswordTooLong):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
	case errors.Is(err, ledger.ErrNotMember):
		writeMessage(w, http.StatusForbidden, ledger.ErrNotMember.Error())
	case errors.Is(err, ledger.ErrForbidden):
		writeMessage(w, http.StatusForbidden, ledger.ErrForbidden.Error())
	case errors.Is(err, ledger.ErrNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrAlreadyMember):
		writeMessage(w, http.StatusConflict, ledger.ErrAlreadyMember.Error())
	case errors.Is(err, auth.ErrEmailExists):
		writeMessage(w, http.StatusConflict, auth.ErrEmailExists.Error())
	default:
		slog.ErrorContext(r.Context(), "Unhandled error",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errInvalidBody
	}
	return nil
}
