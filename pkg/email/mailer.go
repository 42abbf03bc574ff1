package email

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
)

// Sender delivers a Message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is a multipart email. At least one of Text and HTML is required.
type Message struct {
	To      []string `json:"to"`
	Cc      []string `json:"cc,omitempty"`
	Subject string   `json:"subject"`
	Text    string   `json:"text,omitempty"`
	HTML    string   `json:"html,omitempty"`
	Tag     string   `json:"tag,omitempty"` // Optional provider tag for analytics
}

// Validate checks recipients, subject and body.
func (m Message) Validate() error {
	if len(m.To) == 0 {
		return fmt.Errorf("%w: at least one recipient is required", ErrInvalidParams)
	}
	for _, addr := range append(append([]string{}, m.To...), m.Cc...) {
		if !validAddress(addr) {
			return fmt.Errorf("%w: invalid email address %q", ErrInvalidParams, addr)
		}
	}
	if strings.TrimSpace(m.Subject) == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidParams)
	}
	// Header injection guard
	if strings.ContainsAny(m.Subject, "\r\n") {
		return fmt.Errorf("%w: subject must be a single line", ErrInvalidParams)
	}
	if m.Text == "" && m.HTML == "" {
		return fmt.Errorf("%w: body is required", ErrInvalidParams)
	}
	return nil
}

func validAddress(addr string) bool {
	a, err := mail.ParseAddress(addr)
	return err == nil && a.Address == addr
}
