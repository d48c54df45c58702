// Package email relays composed feedback messages to an outbound mail server.
//
// The package defines the Sender interface consumed by the HTTP handlers and
// an SMTP implementation backed by gomail. Handlers never talk to the mail
// server directly; they build a Message and hand it to a Sender.
package email

import (
	"context"
)

// =============================================================================
// Interface Definition
// =============================================================================

// Sender delivers a single email message.
//
// Implementations:
// - SMTPSender: STARTTLS/SSL SMTP via gomail (Outlook by default)
//
// Send blocks until the transport accepts or rejects the message, or until
// ctx is done. It never retries.
type Sender interface {
	Send(ctx context.Context, msg Message) (Receipt, error)
}

// =============================================================================
// Email Data Types
// =============================================================================

// Message is one outbound email.
type Message struct {
	From        string       // Sender address
	To          string       // Recipient address
	Subject     string       // Subject line
	HTML        string       // Full HTML document
	Attachments []Attachment // Passed through from the submission
}

// Attachment is the subset of a nodemailer-style attachment descriptor the
// relay understands. Descriptors that only reference a Path or Href are not
// resolved; the relay never reads local files or fetches remote content.
type Attachment struct {
	Filename    string `json:"filename"`
	Content     string `json:"content"`
	Encoding    string `json:"encoding,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	CID         string `json:"cid,omitempty"`
	Path        string `json:"path,omitempty"`
	Href        string `json:"href,omitempty"`
}

// Receipt is what the transport reports back after a successful send.
type Receipt struct {
	MessageID string
	Accepted  []string
}

// =============================================================================
// Configuration Types
// =============================================================================

// SMTPConfig holds SMTP server configuration.
type SMTPConfig struct {
	Host               string // SMTP server hostname
	Port               int    // 587 for STARTTLS, 465 for implicit TLS
	Username           string // Also used as the From address by the server
	Password           string
	SSL                bool // Force implicit TLS regardless of port
	InsecureSkipVerify bool // Only for local test servers
}

// =============================================================================
// Common Constants
// =============================================================================

const (
	// DefaultSMTPHost matches the Outlook relay the service was built against.
	DefaultSMTPHost = "smtp-mail.outlook.com"

	// DefaultSMTPPort is the STARTTLS submission port.
	DefaultSMTPPort = 587
)
