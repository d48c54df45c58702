package email

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"strings"
	"time"

	"github.com/drawdb-io/feedback-relay/internal/metrics"
	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

// =============================================================================
// SMTP Email Sender Implementation
// =============================================================================

// SMTPSender sends emails through an SMTP relay using gomail.
//
// The dialer is built once at startup and shared read-only by every request;
// each Send opens its own connection.
type SMTPSender struct {
	config SMTPConfig
	dialer *gomail.Dialer
	logger *slog.Logger

	// deliver performs the transport call. Tests swap it for a stub.
	deliver func(m ...*gomail.Message) error
}

// NewSMTPSender creates a new SMTP-based sender.
//
// Port 465 or config.SSL selects implicit TLS; any other port upgrades with
// STARTTLS when the server offers it.
func NewSMTPSender(config SMTPConfig, logger *slog.Logger) *SMTPSender {
	if config.Host == "" {
		config.Host = DefaultSMTPHost
	}
	if config.Port == 0 {
		config.Port = DefaultSMTPPort
	}

	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	dialer.SSL = config.SSL || config.Port == 465
	dialer.TLSConfig = &tls.Config{
		ServerName:         config.Host,
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: config.InsecureSkipVerify, //nolint:gosec // opt-in for local relays
	}

	return &SMTPSender{
		config:  config,
		dialer:  dialer,
		logger:  logger,
		deliver: dialer.DialAndSend,
	}
}

// Send delivers msg and waits for the server's answer or for ctx to finish.
// A transport call still running when ctx is done is abandoned; its result is
// discarded.
func (s *SMTPSender) Send(ctx context.Context, msg Message) (Receipt, error) {
	start := time.Now()
	defer func() {
		metrics.EmailSendDuration.Observe(time.Since(start).Seconds())
	}()

	m, messageID := s.buildMessage(msg)

	done := make(chan error, 1)
	go func() {
		done <- s.deliver(m)
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}

	if err != nil {
		metrics.EmailsSentTotal.WithLabelValues("error").Inc()
		s.logger.Debug("failed to send email",
			"to", msg.To,
			"subject", msg.Subject,
			"error", err,
		)
		return Receipt{}, &SendError{To: msg.To, Subject: msg.Subject, Err: err}
	}

	metrics.EmailsSentTotal.WithLabelValues("success").Inc()
	s.logger.Info("email sent",
		"to", msg.To,
		"subject", msg.Subject,
		"message_id", messageID,
		"attachments", len(msg.Attachments),
	)

	return Receipt{MessageID: messageID, Accepted: []string{msg.To}}, nil
}

// buildMessage converts msg into a gomail message and returns it with the
// generated Message-ID.
func (s *SMTPSender) buildMessage(msg Message) (*gomail.Message, string) {
	messageID := fmt.Sprintf("<%s@%s>", uuid.New().String(), messageIDDomain(msg.From, s.config.Host))

	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-ID", messageID)
	m.SetDateHeader("Date", time.Now())
	m.SetBody("text/html", msg.HTML)

	for i, a := range msg.Attachments {
		data, ok := s.attachmentData(a)
		if !ok {
			continue
		}

		name := headerSafe(a.Filename)
		if name == "" {
			name = fmt.Sprintf("attachment-%d", i+1)
		}

		header := map[string][]string{
			"Content-Type": {DetectContentType(validMediaType(a.ContentType), name, data)},
		}
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		}

		if cid := headerSafe(a.CID); cid != "" {
			header["Content-ID"] = []string{"<" + cid + ">"}
			m.Embed(name, append(settings, gomail.SetHeader(header))...)
			continue
		}
		m.Attach(name, append(settings, gomail.SetHeader(header))...)
	}

	return m, messageID
}

// attachmentData decodes inline attachment content. Attachments that only
// point at a path or URL, or whose content cannot be decoded, are skipped.
func (s *SMTPSender) attachmentData(a Attachment) ([]byte, bool) {
	if a.Content == "" {
		reason := "empty"
		if a.Path != "" || a.Href != "" {
			reason = "external_reference"
		}
		metrics.AttachmentsSkippedTotal.WithLabelValues(reason).Inc()
		s.logger.Warn("skipping attachment without inline content",
			"filename", a.Filename,
			"reason", reason,
		)
		return nil, false
	}

	data, err := decodeContent(a.Content, a.Encoding)
	if err != nil {
		metrics.AttachmentsSkippedTotal.WithLabelValues("decode_error").Inc()
		s.logger.Warn("skipping undecodable attachment",
			"filename", a.Filename,
			"encoding", a.Encoding,
			"error", err,
		)
		return nil, false
	}
	return data, true
}

// decodeContent turns attachment content into raw bytes according to its
// declared encoding. Unknown encodings are treated as text.
func decodeContent(content, encoding string) ([]byte, error) {
	switch strings.ToLower(encoding) {
	case "base64":
		// Data URLs are common from browser clients.
		if i := strings.Index(content, ";base64,"); i >= 0 && strings.HasPrefix(content, "data:") {
			content = content[i+len(";base64,"):]
		}
		data, err := base64.StdEncoding.DecodeString(content)
		if err != nil {
			return base64.RawStdEncoding.DecodeString(strings.TrimRight(content, "="))
		}
		return data, nil
	case "hex":
		return hex.DecodeString(content)
	default:
		return []byte(content), nil
	}
}

// headerSafe strips characters that would end a MIME header line or break
// out of a quoted parameter.
func headerSafe(v string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\r', '\n', '"', '<', '>':
			return -1
		}
		return r
	}, strings.TrimSpace(v))
}

// validMediaType returns contentType if it parses as a media type and ""
// otherwise, so detection falls back to the filename and content.
func validMediaType(contentType string) string {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" || strings.ContainsAny(contentType, "\r\n") {
		return ""
	}
	if _, _, err := mime.ParseMediaType(contentType); err != nil {
		return ""
	}
	return contentType
}

func messageIDDomain(from, fallback string) string {
	if i := strings.LastIndex(from, "@"); i >= 0 && i < len(from)-1 {
		return strings.TrimSuffix(from[i+1:], ">")
	}
	return fallback
}

// =============================================================================
// Compile-time interface check
// =============================================================================

var _ Sender = (*SMTPSender)(nil)
