package email

import "fmt"

// SendError is returned when the transport fails to deliver a message.
// Callers must not expose it to clients.
type SendError struct {
	To      string
	Subject string
	Err     error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send email to %s: %v", e.To, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}
