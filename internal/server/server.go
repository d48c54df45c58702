// Package server assembles the HTTP surface of the relay: routes, the
// middleware chain and the metrics endpoint.
package server

import (
	"log/slog"
	"net/http"

	"github.com/drawdb-io/feedback-relay/internal"
	"github.com/drawdb-io/feedback-relay/internal/email"
	"github.com/drawdb-io/feedback-relay/internal/feedback"
	"github.com/drawdb-io/feedback-relay/internal/handler"
	"github.com/drawdb-io/feedback-relay/internal/metrics"
	"github.com/drawdb-io/feedback-relay/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// New returns the fully wrapped HTTP handler. The same handler serves the
// local listener and the Lambda adapter.
func New(cfg *internal.Config, sender email.Sender, composer *feedback.Composer, logger *slog.Logger) http.Handler {
	feedbackHandler := handler.NewFeedbackHandler(sender, composer, handler.FeedbackConfig{
		From:        cfg.EmailUser,
		To:          cfg.EmailReport,
		SendTimeout: cfg.SendTimeout,
	}, logger)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.Health)
	feedbackHandler.RegisterRoutes(mux)

	metricsAuth := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)
	mux.Handle("GET /metrics", metricsAuth.Handler(promhttp.Handler()))

	logging := middleware.NewRequestLoggingMiddleware(logger)
	security := middleware.NewSecurityHeadersMiddleware(!cfg.IsDevelopment())
	cors := middleware.NewCORSMiddleware(cfg.ClientURLs, cfg.IsDevelopment(), logger)

	chain := middleware.Stack(
		middleware.RequestID,
		logging.Handler,
		middleware.Recoverer(logger),
		metrics.Middleware,
		security.Handler,
		cors.Handler,
		middleware.BodyLimit{Max: cfg.MaxBodyBytes}.Handler,
	)

	return chain(mux)
}
