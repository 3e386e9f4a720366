package mail

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// ErrSendGridKeyRequired is returned when no API key is configured.
var ErrSendGridKeyRequired = errors.New("mail: sendgrid api key is required")

// SendGridConfig configures the SendGrid sender.
type SendGridConfig struct {
	APIKey   string
	From     string
	FromName string
	// Sandbox validates requests without delivering them.
	Sandbox bool
}

// SendGrid sends mail through the SendGrid v3 API.
type SendGrid struct {
	client   *sendgrid.Client
	from     string
	fromName string
	sandbox  bool
}

func NewSendGrid(cfg SendGridConfig) (*SendGrid, error) {
	if cfg.APIKey == "" {
		return nil, ErrSendGridKeyRequired
	}
	return &SendGrid{
		client:   sendgrid.NewSendClient(cfg.APIKey),
		from:     cfg.From,
		fromName: cfg.FromName,
		sandbox:  cfg.Sandbox,
	}, nil
}

func (s *SendGrid) Send(ctx context.Context, msg Message) error {
	if msg.recipients() == 0 {
		return ErrNoRecipients
	}
	from, err := msg.sender(s.from)
	if err != nil {
		return err
	}

	v3 := sgmail.NewV3Mail()
	v3.SetFrom(sgAddress(from, s.fromName))
	v3.Subject = msg.Subject

	p := sgmail.NewPersonalization()
	p.AddTos(sgAddresses(msg.To)...)
	p.AddCCs(sgAddresses(msg.Cc)...)
	p.AddBCCs(sgAddresses(msg.Bcc)...)
	v3.AddPersonalizations(p)

	if msg.ReplyTo != "" {
		v3.SetReplyTo(sgAddress(msg.ReplyTo, ""))
	}
	if msg.TextBody != "" || msg.HTMLBody == "" {
		v3.AddContent(sgmail.NewContent("text/plain", msg.TextBody))
	}
	if msg.HTMLBody != "" {
		v3.AddContent(sgmail.NewContent("text/html", msg.HTMLBody))
	}

	if s.sandbox {
		ms := sgmail.NewMailSettings()
		ms.SetSandboxMode(sgmail.NewSetting(true))
		v3.MailSettings = ms
	}

	resp, err := s.client.SendWithContext(ctx, v3)
	if err != nil {
		return fmt.Errorf("mail: sendgrid: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail: sendgrid responded %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func (s *SendGrid) Close() error {
	return nil
}

// sgAddress accepts both "a@b.c" and "Name <a@b.c>".
func sgAddress(addr, name string) *sgmail.Email {
	if parsed, err := mail.ParseAddress(addr); err == nil {
		if name == "" {
			name = parsed.Name
		}
		return sgmail.NewEmail(name, parsed.Address)
	}
	return sgmail.NewEmail(name, addr)
}

func sgAddresses(addrs []string) []*sgmail.Email {
	out := make([]*sgmail.Email, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, sgAddress(a, ""))
	}
	return out
}
