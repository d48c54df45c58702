package feedback

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"
)

// timestampLayout renders times the way browsers print Date.toISOString.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Composer builds email bodies. Now is injectable so tests can pin the
// submission timestamp; nil means time.Now.
type Composer struct {
	Now func() time.Time
}

// NewComposer returns a Composer that stamps bodies with the wall clock.
func NewComposer() *Composer {
	return &Composer{Now: time.Now}
}

// Compose returns the email body for a submission using the composer's clock.
func (c *Composer) Compose(message string, fields Fields) string {
	now := time.Now
	if c != nil && c.Now != nil {
		now = c.Now
	}
	return Compose(message, fields, now())
}

// Compose returns message unchanged when it is non-empty. Otherwise, if any
// rating is present, it synthesizes an HTML block listing the present fields
// in a fixed order followed by a submission timestamp. With neither, the
// result is empty.
func Compose(message string, fields Fields, now time.Time) string {
	if message != "" || !fields.HasRating() {
		return message
	}

	var b strings.Builder
	b.WriteString("<h2>" + DefaultSubject + "</h2>\n")

	writeRating(&b, "Satisfaction Rating", fields.Satisfaction)
	writeRating(&b, "Ease of Use Rating", fields.EaseOfUse)
	writeRating(&b, "Likelihood to Recommend", fields.Likelihood)
	writeYesNo(&b, "Encountered Difficulties", fields.Difficulties)
	writeYesNo(&b, "Tried Similar Apps", fields.TriedSimilarApps)

	if fields.Occupation != "" {
		writeLine(&b, "Occupation", html.EscapeString(fields.Occupation))
	}

	// Feedback text comes from a rich text editor and is already HTML.
	if fields.FeedbackText != "" {
		fmt.Fprintf(&b, "<h3>Feedback:</h3><div>%s</div>\n", fields.FeedbackText)
	}

	fmt.Fprintf(&b, "<p><em>Submitted on: %s</em></p>\n", now.UTC().Format(timestampLayout))

	return b.String()
}

func writeRating(b *strings.Builder, label string, v *float64) {
	if v == nil {
		return
	}
	writeLine(b, label, strconv.FormatFloat(*v, 'f', -1, 64)+"/100")
}

func writeYesNo(b *strings.Builder, label string, v *bool) {
	if v == nil {
		return
	}
	answer := "No"
	if *v {
		answer = "Yes"
	}
	writeLine(b, label, answer)
}

func writeLine(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "<p><strong>%s:</strong> %s</p>\n", label, value)
}
