package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// =============================================================================
// Metrics Auth Middleware Tests
// =============================================================================

func serveMetrics(mw *MetricsAuthMiddleware, setAuth func(r *http.Request)) *httptest.ResponseRecorder {
	handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("metrics"))
	}))

	req := httptest.NewRequest("GET", "/metrics", nil)
	if setAuth != nil {
		setAuth(req)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestMetricsAuthMiddleware_AllowsValidCredentials(t *testing.T) {
	mw := NewMetricsAuthMiddleware("admin", "secret")

	rec := serveMetrics(mw, func(r *http.Request) { r.SetBasicAuth("admin", "secret") })

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
}

func TestMetricsAuthMiddleware_RejectsBadCredentials(t *testing.T) {
	mw := NewMetricsAuthMiddleware("admin", "secret")

	tests := []struct {
		name    string
		setAuth func(r *http.Request)
	}{
		{"no credentials", nil},
		{"wrong username", func(r *http.Request) { r.SetBasicAuth("root", "secret") }},
		{"wrong password", func(r *http.Request) { r.SetBasicAuth("admin", "guess") }},
		{"empty credentials", func(r *http.Request) { r.SetBasicAuth("", "") }},
		{"malformed header", func(r *http.Request) { r.Header.Set("Authorization", "Basic !!!") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveMetrics(mw, tt.setAuth)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected status 401, got %d", rec.Code)
			}
			if rec.Header().Get("WWW-Authenticate") == "" {
				t.Error("expected WWW-Authenticate header")
			}
		})
	}
}

func TestMetricsAuthMiddleware_DisabledWhenNoCredentials(t *testing.T) {
	mw := NewMetricsAuthMiddleware("", "")

	rec := serveMetrics(mw, nil)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200 when auth disabled, got %d", rec.Code)
	}
}
