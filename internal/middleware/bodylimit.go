package middleware

import (
	"encoding/json"
	"net/http"
)

// BodyLimit caps request payloads. Attachments arrive inline, so the limit
// is generous but finite.
type BodyLimit struct {
	Max int64
}

// Handler rejects requests whose declared length exceeds Max with 413 and
// wraps the body so handlers reading past Max get *http.MaxBytesError.
func (b BodyLimit) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if b.Max <= 0 || r.Body == nil {
			next.ServeHTTP(w, r)
			return
		}

		if r.ContentLength > b.Max {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error": "Request body too large.",
			})
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, b.Max)
		next.ServeHTTP(w, r)
	})
}
