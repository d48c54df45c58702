package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/drawdb-io/feedback-relay/internal/email"
	"github.com/drawdb-io/feedback-relay/internal/feedback"
	"github.com/drawdb-io/feedback-relay/internal/metrics"
	"github.com/drawdb-io/feedback-relay/internal/middleware"
)

// FeedbackConfig holds the fixed addressing of every feedback email.
type FeedbackConfig struct {
	From        string        // Account the relay sends as
	To          string        // Report recipient
	SendTimeout time.Duration // Upper bound on one transport call; 0 means none
}

// FeedbackHandler relays feedback submissions as emails.
type FeedbackHandler struct {
	sender   email.Sender
	composer *feedback.Composer
	config   FeedbackConfig
	logger   *slog.Logger
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(
	sender email.Sender,
	composer *feedback.Composer,
	config FeedbackConfig,
	logger *slog.Logger,
) *FeedbackHandler {
	if composer == nil {
		composer = feedback.NewComposer()
	}
	return &FeedbackHandler{
		sender:   sender,
		composer: composer,
		config:   config,
		logger:   logger,
	}
}

// RegisterRoutes registers the feedback routes on the mux.
func (h *FeedbackHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /send_email", h.SendEmail)
}

// SendEmail handles POST /send_email.
//
// Every field is optional. The composed body is wrapped in the shared email
// document and sent once; any transport failure becomes a generic 500.
func (h *FeedbackHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("request_id", middleware.GetRequestID(r.Context()))

	sub := feedback.EmptySubmission()
	if feedback.IsJSON(r.Header.Get("Content-Type")) {
		var err error
		sub, err = feedback.DecodeSubmission(r.Body)
		if err != nil {
			h.rejectBody(w, logger, err)
			return
		}
	}

	content := h.composer.Compose(sub.Message, sub.Fields)

	msg := email.Message{
		From:        h.config.From,
		To:          h.config.To,
		Subject:     sub.Subject,
		HTML:        feedback.Document(content),
		Attachments: sub.Attachments,
	}

	ctx := r.Context()
	if h.config.SendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.SendTimeout)
		defer cancel()
	}

	receipt, err := h.sender.Send(ctx, msg)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("failed").Inc()
		logger.Error("error sending feedback email",
			"subject", msg.Subject,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: msgSubmitFailed})
		return
	}

	metrics.SubmissionsTotal.WithLabelValues("sent").Inc()
	logger.Info("feedback relayed",
		"subject", msg.Subject,
		"message_id", receipt.MessageID,
	)
	writeJSON(w, http.StatusOK, MessageResponse{Message: msgThankYou})
}

// rejectBody answers a JSON body that could not be read or parsed.
func (h *FeedbackHandler) rejectBody(w http.ResponseWriter, logger *slog.Logger, err error) {
	metrics.SubmissionsTotal.WithLabelValues("malformed").Inc()
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: msgTooLarge})
		return
	}
	logger.Info("rejected malformed feedback body", "error", err)
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msgMalformedBody})
}
