package server

import (
	"encoding/json"
	"net/http"
)

// respondSuccess writes the generic success envelope with the given payload
// fields merged in.
func respondSuccess(w http.ResponseWriter, payload map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

// respondError writes the generic failure envelope. Error kinds are not
// differentiated to the caller; the message carries the underlying detail.
func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
