package message

import (
	"fmt"
	"time"
)

type Sender string

const (
	SenderUser  Sender = "user"
	SenderAdmin Sender = "admin"
)

// Message is one entry in a user's message inbox.
type Message struct {
	ID        string
	UserID    string
	Sender    Sender
	Subject   string
	Body      string
	IsRead    bool
	CreatedAt time.Time
}

func (m Message) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("message id is required")
	}
	if m.UserID == "" {
		return fmt.Errorf("message user id is required")
	}
	switch m.Sender {
	case SenderUser, SenderAdmin:
	default:
		return fmt.Errorf("unknown message sender %q", m.Sender)
	}
	if m.Subject == "" && m.Body == "" {
		return fmt.Errorf("message subject or body is required")
	}

	return nil
}
