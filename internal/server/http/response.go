package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/studentcrm/internal/common"
)

const (
	msgUnexpected     = "An unexpected error occurred."
	msgSessionExpired = "Session expired."
	msgNotFound       = "Not found."
)

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": message,
	})
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]any{
		"success": false,
		"message": message,
	})
}

// mapError turns a service error into a status and a client-safe message.
// notFound is the message used for common.ErrNotFound on this endpoint.
func mapError(err error, notFound string) (int, string) {
	if msg, ok := common.ValidationMessage(err); ok {
		return http.StatusUnprocessableEntity, msg
	}
	switch {
	case errors.Is(err, common.ErrUnauthenticated):
		return http.StatusUnauthorized, msgSessionExpired
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password."
	case errors.Is(err, common.ErrRecoveryNotVerified):
		return http.StatusUnprocessableEntity, "Verify your security answer first."
	case errors.Is(err, common.ErrNotFound):
		if notFound == "" {
			notFound = msgNotFound
		}
		return http.StatusNotFound, notFound
	default:
		return http.StatusInternalServerError, msgUnexpected
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	status, msg := mapError(err, notFound)
	if status >= http.StatusInternalServerError {
		h.log.Error(r.Context(), "request failed",
			"request_id", requestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeError(w, status, msg)
}
