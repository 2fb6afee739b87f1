package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("Failed to encode response", "err", err)
	}
}

// WriteError writes err as {error, details?}.
func WriteError(w http.ResponseWriter, err *RequestError) {
	WriteJSON(w, err.StatusCode, ErrorResponse{Error: err.Message, Details: err.Details()})
}

// RedactURL keeps the first 30 characters of a URL.
func RedactURL(u string) string {
	const keep = 30
	if len(u) > keep {
		u = u[:keep]
	}
	return u + "..."
}
