package mail

import (
	"context"
	"time"
)

// DefaultTimeout bounds every outbound delivery attempt.
const DefaultTimeout = 15 * time.Second

// Message represents an outbound email.
type Message struct {
	From    string
	To      []string
	Subject string
	Body    string
}

// Mailer defines behaviour for sending email messages. Delivery failures
// are returned to the caller; none of the implementations retry.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
