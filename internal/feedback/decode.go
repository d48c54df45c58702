package feedback

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"strconv"
	"strings"

	"github.com/drawdb-io/feedback-relay/internal/email"
)

// ErrMalformedBody is returned when the request body is not valid JSON.
var ErrMalformedBody = errors.New("feedback: malformed request body")

// EmptySubmission returns a submission with every field absent.
func EmptySubmission() Submission {
	return Submission{Subject: DefaultSubject, Attachments: []email.Attachment{}}
}

// IsJSON reports whether contentType names a JSON body. Only JSON bodies are
// decoded; anything else is relayed as an empty submission.
func IsJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}

// DecodeSubmission reads a JSON submission from r.
//
// Fields are decoded one by one and a field with an unexpected type is
// treated as absent instead of failing the whole request. Valid JSON that is
// not an object, and an empty body, decode to an empty submission. Only
// syntactically invalid JSON yields ErrMalformedBody.
func DecodeSubmission(r io.Reader) (Submission, error) {
	sub := EmptySubmission()

	body, err := io.ReadAll(r)
	if err != nil {
		return sub, fmt.Errorf("read submission: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return sub, nil
	}

	if !json.Valid(body) {
		return sub, ErrMalformedBody
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return sub, nil
	}

	if s := stringField(raw, "subject"); s != "" {
		sub.Subject = s
	}
	sub.Message = stringField(raw, "message")
	sub.Attachments = attachmentsField(raw, "attachments")

	sub.Fields = Fields{
		Satisfaction:     numberField(raw, "satisfaction"),
		EaseOfUse:        numberField(raw, "easeOfUse"),
		Likelihood:       numberField(raw, "likelihood"),
		Difficulties:     boolField(raw, "difficulties"),
		TriedSimilarApps: boolField(raw, "triedSimilarApps"),
		Occupation:       stringField(raw, "occupation"),
		FeedbackText:     stringField(raw, "feedbackText"),
	}

	return sub, nil
}

// stringField returns a text field. Numbers and true are rendered as their
// text; false, zero and non-scalar values are absent.
func stringField(raw map[string]json.RawMessage, key string) string {
	v, ok := raw[key]
	if !ok {
		return ""
	}
	var x any
	if err := json.Unmarshal(v, &x); err != nil {
		return ""
	}
	switch t := x.(type) {
	case string:
		return t
	case float64:
		if t == 0 {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "true"
		}
	}
	return ""
}

// numberField accepts JSON numbers and numeric strings. Zero is a present
// value; null and anything non-numeric are absent.
func numberField(raw map[string]json.RawMessage, key string) *float64 {
	v, ok := raw[key]
	if !ok || isNull(v) {
		return nil
	}

	var n float64
	if err := json.Unmarshal(v, &n); err == nil {
		return &n
	}

	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return nil
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	return &n
}

// boolField follows the form's presence semantics: a key that is present at
// all, null included, is answered, and the answer is the value's truthiness.
func boolField(raw map[string]json.RawMessage, key string) *bool {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	b := truthy(v)
	return &b
}

func truthy(v json.RawMessage) bool {
	var x any
	if err := json.Unmarshal(v, &x); err != nil {
		return false
	}
	switch t := x.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}

// attachmentsField decodes the attachment list element by element, dropping
// elements that are not attachment objects.
func attachmentsField(raw map[string]json.RawMessage, key string) []email.Attachment {
	out := []email.Attachment{}

	v, ok := raw[key]
	if !ok {
		return out
	}
	var items []json.RawMessage
	if err := json.Unmarshal(v, &items); err != nil {
		return out
	}

	for _, item := range items {
		if isNull(item) {
			continue
		}
		var a email.Attachment
		if err := json.Unmarshal(item, &a); err != nil {
			continue
		}
		out = append(out, a)
	}
	return out
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}
