package utils

import (
	"encoding/json"
	"net/http"
)

// APIResponse is the envelope every handler writes. Data is omitted on
// plain acknowledgements and on errors.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// WriteJSON writes resp as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
