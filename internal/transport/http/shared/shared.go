// Package shared holds response helpers used by every HTTP handler so error
// envelopes and JSON encoding stay consistent across domains.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "ordr/pkg/domain-errors"
)

// WriteJSON encodes v with the given status. Encoding failures are ignored:
// at that point the status line is already on the wire.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into a JSON error envelope. Unknown
// error types map to 500 without leaking internals.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	WriteJSON(w, dErrors.ToHTTPStatus(code), map[string]string{
		"error":             string(code),
		"error_description": dErrors.MessageOf(err),
	})
}
