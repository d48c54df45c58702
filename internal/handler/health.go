package handler

import "net/http"

// Health handles GET /health. It does not probe the mail server; a relay
// that is up but cannot reach SMTP still reports ok.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}
