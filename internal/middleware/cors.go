package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/drawdb-io/feedback-relay/internal/metrics"
	"github.com/go-chi/cors"
)

// CORSMiddleware enforces the origin allow-list.
//
// Requests without an Origin header (curl, mobile apps, server-to-server)
// always pass. Browser requests from an origin outside the list are refused
// with 403 before any handler runs. In development every origin passes.
type CORSMiddleware struct {
	allowed     map[string]bool
	development bool
	logger      *slog.Logger
	cors        *cors.Cors
}

// NewCORSMiddleware creates a CORS middleware for the given allow-list.
func NewCORSMiddleware(allowedOrigins []string, development bool, logger *slog.Logger) *CORSMiddleware {
	m := &CORSMiddleware{
		allowed:     make(map[string]bool, len(allowedOrigins)),
		development: development,
		logger:      logger,
	}
	for _, origin := range allowedOrigins {
		m.allowed[origin] = true
	}

	m.cors = cors.New(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			return m.Allowed(origin)
		},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	return m
}

// Allowed reports whether a request carrying this Origin may proceed.
func (m *CORSMiddleware) Allowed(origin string) bool {
	return origin == "" || m.development || m.allowed[origin]
}

// Handler returns middleware that rejects disallowed origins and sets CORS
// headers for allowed ones, answering preflight requests directly.
func (m *CORSMiddleware) Handler(next http.Handler) http.Handler {
	withHeaders := m.cors.Handler(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if !m.Allowed(origin) {
			metrics.CORSRejectionsTotal.Inc()
			m.logger.Warn("origin not allowed",
				"origin", origin,
				"path", r.URL.Path,
				"method", r.Method,
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error": "Not allowed by CORS",
			})
			return
		}

		withHeaders.ServeHTTP(w, r)
	})
}
