// Package mail sends email through a provider chosen at startup.
package mail

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNoRecipients is returned when To, Cc and Bcc are all empty.
	ErrNoRecipients = errors.New("mail: no recipients")
	// ErrNoSender is returned when neither the message nor the sender has a From address.
	ErrNoSender = errors.New("mail: no sender")
)

// Message is a provider-agnostic email.
type Message struct {
	// From overrides the sender configured on the Mail implementation.
	From    string
	To      []string
	Cc      []string
	Bcc     []string
	ReplyTo string
	Subject string
	// TextBody is always sent when set; HTMLBody is attached as an alternative.
	TextBody string
	HTMLBody string
}

// Mail delivers messages.
type Mail interface {
	io.Closer
	Send(ctx context.Context, msg Message) error
}

func (m Message) recipients() int {
	return len(m.To) + len(m.Cc) + len(m.Bcc)
}

func (m Message) sender(fallback string) (string, error) {
	if m.From != "" {
		return m.From, nil
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", ErrNoSender
}
