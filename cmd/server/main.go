package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/drawdb-io/feedback-relay/internal"
	"github.com/drawdb-io/feedback-relay/internal/email"
	"github.com/drawdb-io/feedback-relay/internal/feedback"
	"github.com/drawdb-io/feedback-relay/internal/server"
)

func run() error {
	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// The transport configuration is shared read-only by every request
	sender := email.NewSMTPSender(email.SMTPConfig{
		Host:               cfg.SMTPHost,
		Port:               cfg.SMTPPort,
		Username:           cfg.EmailUser,
		Password:           cfg.EmailPass,
		SSL:                cfg.SMTPSSL,
		InsecureSkipVerify: cfg.SMTPInsecureSkipVerify,
	}, logger)

	handler := server.New(cfg, sender, feedback.NewComposer(), logger)

	// ==========================================================================
	// Lambda: requests arrive as API Gateway proxy events
	// ==========================================================================

	if cfg.RunsOnLambda() {
		logger.Info("Starting Lambda handler", "function", cfg.LambdaFunction, "env", cfg.Env)
		lambda.Start(httpadapter.New(handler).ProxyWithContext)
		return nil
	}

	// ==========================================================================
	// Start server
	// ==========================================================================

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server started", "address", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case <-sigChan:
	}
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	// In-flight sends get up to the send timeout to finish
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.SendTimeout+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
