// Package feedback turns a feedback submission into the HTML email the relay
// sends. It decodes the loosely-typed request body, composes the message body
// from whichever structured fields are present, and wraps it in the shared
// email document.
package feedback

import (
	"github.com/drawdb-io/feedback-relay/internal/email"
)

// DefaultSubject is used when a submission carries no subject.
const DefaultSubject = "DrawDB Feedback Submission"

// Submission is one feedback payload. It lives for a single request.
type Submission struct {
	Subject     string
	Message     string // Pre-rendered HTML, used verbatim when non-empty
	Attachments []email.Attachment
	Fields      Fields
}

// Fields holds the optional structured answers of the feedback form.
//
// Pointers distinguish an absent value from a present zero or false value.
// Empty strings count as absent.
type Fields struct {
	Satisfaction     *float64
	EaseOfUse        *float64
	Likelihood       *float64
	Difficulties     *bool
	TriedSimilarApps *bool
	Occupation       string
	FeedbackText     string
}

// HasRating reports whether at least one numeric rating is present. Only then
// is a structured body synthesized.
func (f Fields) HasRating() bool {
	return f.Satisfaction != nil || f.EaseOfUse != nil || f.Likelihood != nil
}
