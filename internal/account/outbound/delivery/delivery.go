package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/gocharity/internal/account/entity"
	"github.com/shandysiswandi/gocharity/internal/pkg/instrument"
	"github.com/shandysiswandi/gocharity/internal/pkg/mail"
	"github.com/shandysiswandi/gocharity/internal/pkg/sms"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrUnknownChannel is returned for channels other than sms and email.
var ErrUnknownChannel = errors.New("delivery: unknown otp channel")

type Config struct {
	AppName string
	// TTL is mentioned in the message body.
	TTL time.Duration
	// Retries is the number of extra attempts after the first failure.
	Retries   uint64
	RetryBase time.Duration
}

// OTP delivers codes over SMS or email.
type OTP struct {
	sms  sms.SMS
	mail mail.Mail
	cfg  Config
	ins  instrument.Instrumentation
}

func NewOTP(s sms.SMS, m mail.Mail, cfg Config, ins instrument.Instrumentation) *OTP {
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 200 * time.Millisecond
	}
	if cfg.AppName == "" {
		cfg.AppName = "gocharity"
	}

	return &OTP{sms: s, mail: m, cfg: cfg, ins: ins}
}

func (o *OTP) SendOTP(ctx context.Context, code string, channel entity.OTPChannel, identifier string) (err error) {
	ctx, span := o.ins.Tracer("account.outbound.delivery").Start(ctx, "SendOTP",
		trace.WithAttributes(attribute.String("otp.channel", channel.String())))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var send func(context.Context) error
	switch channel {
	case entity.OTPChannelSMS:
		body := fmt.Sprintf("%s verification code: %s\nValid for %s.", o.cfg.AppName, code, o.cfg.TTL)
		send = func(ctx context.Context) error { return o.sms.Send(ctx, identifier, body) }
	case entity.OTPChannelEmail:
		msg := mail.Message{
			To:       []string{identifier},
			Subject:  o.cfg.AppName + " verification code",
			TextBody: fmt.Sprintf("Your verification code is %s.\nIt is valid for %s. If you did not request it, ignore this email.", code, o.cfg.TTL),
		}
		send = func(ctx context.Context) error { return o.mail.Send(ctx, msg) }
	default:
		return ErrUnknownChannel
	}

	b := retry.WithMaxRetries(o.cfg.Retries, retry.NewExponential(o.cfg.RetryBase))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		if err := send(ctx); err != nil {
			if permanent(err) {
				return err
			}
			return retry.RetryableError(err)
		}
		return nil
	})
}

func permanent(err error) bool {
	return errors.Is(err, sms.ErrNoRecipient) ||
		errors.Is(err, mail.ErrNoRecipients) ||
		errors.Is(err, mail.ErrNoSender) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
