// Package httpx provides JSON response helpers for the API envelope.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the response shape shared by every API path, success or failure.
type Envelope struct {
	Success            bool     `json:"success"`
	Data               any      `json:"data,omitempty"`
	Count              *int64   `json:"count,omitempty"`
	Error              string   `json:"error,omitempty"`
	AuthorizedWeddings []string `json:"authorized_weddings,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// OK sends a success envelope with data.
func OK(w http.ResponseWriter, status int, data any) {
	JSON(w, status, Envelope{Success: true, Data: data})
}

// OKList sends a success envelope with data and a total count.
func OKList(w http.ResponseWriter, data any, count int64) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data, Count: &count})
}

// OKEmpty sends a success envelope with no payload.
func OKEmpty(w http.ResponseWriter) {
	JSON(w, http.StatusOK, Envelope{Success: true})
}

// DecodeJSON decodes JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
