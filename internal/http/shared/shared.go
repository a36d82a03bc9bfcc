// Package shared centralizes JSON response writing so every handler emits
// the same envelope for data and errors.
package shared

import (
	"encoding/json"
	"net/http"

	derrors "redink/pkg/domain-errors"
)

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into its HTTP status and a JSON
// error envelope. Unclassified errors become opaque 500s.
func WriteError(w http.ResponseWriter, err error) {
	code := derrors.CodeOf(err)
	message := err.Error()
	if code == derrors.CodeInternal || code == derrors.CodeStorage {
		// Don't leak internals to clients; logs carry the detail.
		message = "internal server error"
	}
	WriteJSON(w, derrors.ToHTTPStatus(code), map[string]string{
		"error":   string(code),
		"message": message,
	})
}
