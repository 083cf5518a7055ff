package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"llamachat/internal/chat"
	"llamachat/internal/engine"
	"llamachat/pkg/types"
)

// msgInvalidJSON is the only error text a client sees for a bad request body.
const msgInvalidJSON = "Invalid JSON data"

// statusFor maps a Respond error to an HTTP status.
func statusFor(err error) int {
	switch {
	case chat.IsTooBusy(err):
		return http.StatusTooManyRequests
	case engine.IsDependencyUnavailable(err):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.ErrorResponse{Error: msg})
}
