package mw

import (
	"encoding/json"
	"net/http"
)

type denyBody struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	Retryable bool   `json:"retryable"`
}

// deny writes the JSON error body shared with the handlers.
func deny(w http.ResponseWriter, status int, kind string, retryable bool) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(denyBody{
		Error:     http.StatusText(status),
		Kind:      kind,
		Retryable: retryable,
	})
}
