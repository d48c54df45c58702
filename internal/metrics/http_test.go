package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/send_email", "/send_email"},
		{"/health", "/health"},
		{"/wp-login.php", "other"},
		{"/send_email/extra", "other"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestMiddleware_SkipsMetricsScrapes(t *testing.T) {
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	other := HTTPRequestsTotal.WithLabelValues(http.MethodGet, "other", "200")
	health := HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/health", "200")
	otherBefore := testutil.ToFloat64(other)
	healthBefore := testutil.ToFloat64(health)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	if got := testutil.ToFloat64(other); got != otherBefore {
		t.Errorf("scrape counted under path=other: %v -> %v", otherBefore, got)
	}
	if got := testutil.ToFloat64(health); got != healthBefore+1 {
		t.Errorf("health requests = %v, want %v", got, healthBefore+1)
	}
}
