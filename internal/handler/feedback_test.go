package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/drawdb-io/feedback-relay/internal/email"
	"github.com/drawdb-io/feedback-relay/internal/feedback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSender records every message and answers with err.
type stubSender struct {
	mu    sync.Mutex
	calls []email.Message
	err   error
	wait  time.Duration
}

func (s *stubSender) Send(ctx context.Context, msg email.Message) (email.Receipt, error) {
	s.mu.Lock()
	s.calls = append(s.calls, msg)
	s.mu.Unlock()

	if s.wait > 0 {
		select {
		case <-time.After(s.wait):
		case <-ctx.Done():
			return email.Receipt{}, &email.SendError{To: msg.To, Err: ctx.Err()}
		}
	}
	if s.err != nil {
		return email.Receipt{}, &email.SendError{To: msg.To, Subject: msg.Subject, Err: s.err}
	}
	return email.Receipt{MessageID: "<id@test>", Accepted: []string{msg.To}}, nil
}

var testNow = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func newTestHandler(sender email.Sender, timeout time.Duration) (*http.ServeMux, *bytes.Buffer) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	h := NewFeedbackHandler(sender, &feedback.Composer{Now: func() time.Time { return testNow }}, FeedbackConfig{
		From:        "relay@example.com",
		To:          "reports@example.com",
		SendTimeout: timeout,
	}, logger)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	mux.HandleFunc("GET /health", Health)
	return mux, &logs
}

func postJSON(mux http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/send_email", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestSendEmail_Success(t *testing.T) {
	sender := &stubSender{}
	mux, _ := newTestHandler(sender, time.Second)

	rec := postJSON(mux, `{"feedbackText": "great tool"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message": "Thank you for your feedback!"}`, rec.Body.String())

	require.Len(t, sender.calls, 1)
	msg := sender.calls[0]
	assert.Equal(t, "reports@example.com", msg.To)
	assert.Equal(t, "relay@example.com", msg.From)
	assert.Equal(t, feedback.DefaultSubject, msg.Subject)
	assert.NotNil(t, msg.Attachments)
	assert.Empty(t, msg.Attachments)
	// No rating and no message: the body is empty but still wrapped and sent.
	assert.Equal(t, feedback.Document(""), msg.HTML)
}

func TestSendEmail_StructuredBody(t *testing.T) {
	sender := &stubSender{}
	mux, _ := newTestHandler(sender, time.Second)

	rec := postJSON(mux, `{
		"subject": "Survey",
		"satisfaction": 50,
		"difficulties": false,
		"occupation": "Engineer",
		"attachments": [{"filename": "a.txt", "content": "hi"}]
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, sender.calls, 1)
	msg := sender.calls[0]

	want := feedback.Document(feedback.Compose("", feedback.Fields{
		Satisfaction: ptr(50.0),
		Difficulties: ptr(false),
		Occupation:   "Engineer",
	}, testNow))
	assert.Equal(t, want, msg.HTML)
	assert.Equal(t, "Survey", msg.Subject)
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "a.txt", msg.Attachments[0].Filename)
}

func TestSendEmail_MessageUsedVerbatim(t *testing.T) {
	sender := &stubSender{}
	mux, _ := newTestHandler(sender, time.Second)

	rec := postJSON(mux, `{"message": "<b>hi</b>", "satisfaction": 99}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, sender.calls, 1)
	assert.Equal(t, feedback.Document("<b>hi</b>"), sender.calls[0].HTML)
}

func TestSendEmail_SenderFailure(t *testing.T) {
	sender := &stubSender{err: errors.New("dial tcp 10.0.0.1:587: connection refused")}
	mux, logs := newTestHandler(sender, time.Second)

	rec := postJSON(mux, `{"feedbackText": "great tool"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t,
		`{"error": "There was a problem submitting your feedback. Please try again later."}`,
		rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "connection refused")

	assert.Len(t, sender.calls, 1, "failed sends are not retried")
	assert.Contains(t, logs.String(), "level=ERROR")
	assert.Contains(t, logs.String(), "connection refused")
}

func TestSendEmail_SendTimeout(t *testing.T) {
	sender := &stubSender{wait: time.Minute}
	mux, logs := newTestHandler(sender, 20*time.Millisecond)

	start := time.Now()
	rec := postJSON(mux, `{}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Contains(t, logs.String(), "deadline exceeded")
}

func TestSendEmail_MalformedBody(t *testing.T) {
	sender := &stubSender{}
	mux, _ := newTestHandler(sender, time.Second)

	rec := postJSON(mux, `{"subject": `)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Error)
	assert.Empty(t, sender.calls)
}

func TestSendEmail_NonJSONBodyIsEmptySubmission(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{name: "form encoded", contentType: "application/x-www-form-urlencoded", body: "satisfaction=80"},
		{name: "plain text", contentType: "text/plain", body: "hello"},
		{name: "no content type", body: `{"satisfaction": 80}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &stubSender{}
			mux, _ := newTestHandler(sender, time.Second)

			req := httptest.NewRequest(http.MethodPost, "/send_email", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			require.Len(t, sender.calls, 1)
			assert.Equal(t, feedback.DefaultSubject, sender.calls[0].Subject)
			assert.Equal(t, feedback.Document(""), sender.calls[0].HTML)
		})
	}
}

func TestSendEmail_JSONNonObjectIsEmptySubmission(t *testing.T) {
	for _, body := range []string{`[]`, `[1, 2]`, `"text"`, `5`} {
		sender := &stubSender{}
		mux, _ := newTestHandler(sender, time.Second)

		rec := postJSON(mux, body)

		assert.Equal(t, http.StatusOK, rec.Code, "body %q", body)
		require.Len(t, sender.calls, 1, "body %q", body)
		assert.Equal(t, feedback.Document(""), sender.calls[0].HTML)
	}
}

func TestSendEmail_JSONWithCharset(t *testing.T) {
	sender := &stubSender{}
	mux, _ := newTestHandler(sender, time.Second)

	req := httptest.NewRequest(http.MethodPost, "/send_email", strings.NewReader(`{"message": "hi"}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, sender.calls, 1)
	assert.Equal(t, feedback.Document("hi"), sender.calls[0].HTML)
}

func TestSendEmail_BodyTooLarge(t *testing.T) {
	sender := &stubSender{}
	mux, _ := newTestHandler(sender, time.Second)

	req := httptest.NewRequest(http.MethodPost, "/send_email", strings.NewReader(`{"message": "`+strings.Repeat("x", 64)+`"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	req.Body = http.MaxBytesReader(rec, req.Body, 16)
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Empty(t, sender.calls)
}

func TestSendEmail_WrongMethod(t *testing.T) {
	sender := &stubSender{}
	mux, _ := newTestHandler(sender, time.Second)

	req := httptest.NewRequest(http.MethodGet, "/send_email", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Empty(t, sender.calls)
}

func TestHealth(t *testing.T) {
	mux, _ := newTestHandler(&stubSender{}, time.Second)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func ptr[T any](v T) *T { return &v }
