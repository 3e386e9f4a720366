package mail

import (
	"context"
	"log/slog"
)

// Log writes messages to the logger instead of delivering them. It is the
// "log" driver for local development. Bodies are left out since they may
// carry one-time codes.
type Log struct {
	from string
}

func NewLog(from string) *Log {
	return &Log{from: from}
}

func (l *Log) Send(ctx context.Context, msg Message) error {
	if msg.recipients() == 0 {
		return ErrNoRecipients
	}
	from, err := msg.sender(l.from)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "mail not delivered (log driver)",
		"from", from,
		"to", msg.To,
		"subject", msg.Subject,
		"body_length", len(msg.TextBody),
	)
	return nil
}

func (l *Log) Close() error {
	return nil
}
