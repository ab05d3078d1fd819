// Package httpx provides JSON response utilities and the shared error taxonomy.
package httpx

import (
	"encoding/json"
	"net/http"
	"time"
)

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Envelope merges the payload keys into a top-level object together with a
// response timestamp.
func Envelope(w http.ResponseWriter, status int, payload map[string]any) {
	body := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		body[k] = v
	}
	body["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	JSON(w, status, body)
}

// Error sends an error body of the form {"error": message}.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// Internal sends a generic 500 with a correlation timestamp. The message
// must not leak persistence-layer internals.
func Internal(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Internal server error"
	}
	JSON(w, http.StatusInternalServerError, map[string]string{
		"error":     message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// DecodeJSON decodes a JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
