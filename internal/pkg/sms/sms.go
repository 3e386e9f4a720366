// Package sms sends text messages to phone numbers.
package sms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

var (
	// ErrTwilioCredentials is returned when the account SID, token or sender is missing.
	ErrTwilioCredentials = errors.New("sms: twilio account sid, auth token and from number are required")
	// ErrNoRecipient is returned for an empty destination.
	ErrNoRecipient = errors.New("sms: no recipient")
)

// SMS delivers a text body to a single phone number.
type SMS interface {
	Send(ctx context.Context, to, body string) error
}

// TwilioConfig configures the Twilio sender.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string
	// CountryCode replaces the leading zero of national numbers, e.g. "+98"
	// turns 09123456789 into +989123456789.
	CountryCode string
}

// messageCreator is the part of the Twilio API used here.
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// Twilio sends SMS through the Twilio Messages API.
type Twilio struct {
	api         messageCreator
	from        string
	countryCode string
}

func NewTwilio(cfg TwilioConfig) (*Twilio, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.From == "" {
		return nil, ErrTwilioCredentials
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	return &Twilio{api: client.Api, from: cfg.From, countryCode: cfg.CountryCode}, nil
}

// E164 converts a national number to international form using the configured
// country code. Numbers already starting with "+" are returned unchanged.
func (t *Twilio) E164(phone string) string {
	phone = strings.TrimSpace(phone)
	if strings.HasPrefix(phone, "+") || t.countryCode == "" {
		return phone
	}
	return t.countryCode + strings.TrimPrefix(phone, "0")
}

func (t *Twilio) Send(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(to) == "" {
		return ErrNoRecipient
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(t.E164(to))
	params.SetFrom(t.from)
	params.SetBody(body)

	msg, err := t.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("sms: twilio: %w", err)
	}

	if msg != nil && msg.Sid != nil {
		slog.DebugContext(ctx, "sms accepted by twilio", "sid", *msg.Sid)
	}
	return nil
}

// Log writes messages to the logger instead of sending them. It is the "log"
// driver for local development. Bodies carry one-time codes, so only their
// length is logged.
type Log struct{}

func NewLog() *Log { return &Log{} }

func (Log) Send(ctx context.Context, to, body string) error {
	if strings.TrimSpace(to) == "" {
		return ErrNoRecipient
	}
	slog.InfoContext(ctx, "sms not delivered (log driver)", "to", to, "body_length", len(body))
	return nil
}
