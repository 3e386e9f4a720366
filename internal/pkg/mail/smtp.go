package mail

import (
	"context"
	"crypto/tls"
	"errors"

	"gopkg.in/gomail.v2"
)

// ErrSMTPHostPortRequired is returned when Host or Port is missing.
var ErrSMTPHostPortRequired = errors.New("mail: smtp host and port are required")

// SMTPConfig configures the SMTP sender.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// From is the default sender when Message.From is empty.
	From string
	// SSL forces implicit TLS; otherwise STARTTLS is used when offered.
	SSL                bool
	InsecureSkipVerify bool
}

// SMTP sends mail with gomail, opening one connection per message.
type SMTP struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, ErrSMTPHostPortRequired
	}

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.SSL
	if cfg.InsecureSkipVerify {
		//nolint:gosec // opt-in for local relays with self-signed certificates
		d.TLSConfig = &tls.Config{ServerName: cfg.Host, InsecureSkipVerify: true}
	}

	return &SMTP{dialer: d, from: cfg.From}, nil
}

func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.recipients() == 0 {
		return ErrNoRecipients
	}
	from, err := msg.sender(s.from)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	if len(msg.To) > 0 {
		m.SetHeader("To", msg.To...)
	}
	if len(msg.Cc) > 0 {
		m.SetHeader("Cc", msg.Cc...)
	}
	if len(msg.Bcc) > 0 {
		m.SetHeader("Bcc", msg.Bcc...)
	}
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetHeader("Subject", msg.Subject)

	switch {
	case msg.TextBody != "" && msg.HTMLBody != "":
		m.SetBody("text/plain", msg.TextBody)
		m.AddAlternative("text/html", msg.HTMLBody)
	case msg.HTMLBody != "":
		m.SetBody("text/html", msg.HTMLBody)
	default:
		m.SetBody("text/plain", msg.TextBody)
	}

	return s.dialer.DialAndSend(m)
}

func (s *SMTP) Close() error {
	return nil
}
