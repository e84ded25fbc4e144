package mail

import (
	"context"
	"encoding/json"
	"errors"
)

// JobType queue job type for outgoing mail
const JobType = "mail.send"

// Attachment file attached to a message
type Attachment struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// Message one outgoing email
type Message struct {
	To          string       `json:"to"`
	ToName      string       `json:"to_name,omitempty"`
	Subject     string       `json:"subject"`
	HTML        string       `json:"html"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Mailer delivers messages
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// JobHandler decodes a queued mail job payload and sends it
func JobHandler(m Mailer) func(ctx context.Context, payload json.RawMessage) error {
	return func(ctx context.Context, payload json.RawMessage) error {
		var msg Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			return errors.Join(ErrBadPayload, err)
		}
		return m.Send(ctx, &msg)
	}
}

// ErrBadPayload the queued payload is not a Message
var ErrBadPayload = errors.New("mail job payload is not a message")
