package handler

import (
	"encoding/json"
	"net/http"
)

// Fixed response bodies. Clients match on these strings.
const (
	msgThankYou      = "Thank you for your feedback!"
	msgSubmitFailed  = "There was a problem submitting your feedback. Please try again later."
	msgMalformedBody = "Request body is not valid JSON."
	msgTooLarge      = "Request body too large."
)

// MessageResponse is the success body of a feedback submission.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is the health check body.
type StatusResponse struct {
	Status string `json:"status"`
}

// writeJSON writes v as the JSON body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
