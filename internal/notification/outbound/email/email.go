package email

import (
	"context"

	"github.com/shandysiswandi/gocharity/internal/notification/entity"
	"github.com/shandysiswandi/gocharity/internal/pkg/instrument"
	"github.com/shandysiswandi/gocharity/internal/pkg/mail"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Mail struct {
	client mail.Mail
	from   string
	ins    instrument.Instrumentation
}

// New sends through client; from is used as the sender of every message.
func New(client mail.Mail, from string, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, from: from, ins: ins}
}

// SendContact forwards a contact form message to the organisation inbox. The
// visitor address is set as Reply-To so staff can answer directly.
func (m *Mail) SendContact(ctx context.Context, to string, c entity.Contact) error {
	ctx, span := m.ins.Tracer("notification.outbound.email").Start(ctx, "SendContact")
	defer span.End()

	return m.send(ctx, span, mail.Message{
		From:     m.from,
		To:       []string{to},
		ReplyTo:  c.Email,
		Subject:  c.Subject,
		TextBody: c.Body(),
	})
}

func (m *Mail) SendVolunteerWelcome(ctx context.Context, subject, text, html string, w entity.VolunteerWelcome) error {
	ctx, span := m.ins.Tracer("notification.outbound.email").Start(ctx, "SendVolunteerWelcome")
	defer span.End()

	span.SetAttributes(attribute.Int64("volunteer.id", w.VolunteerID))

	return m.send(ctx, span, mail.Message{
		From:     m.from,
		To:       []string{w.Email},
		Subject:  subject,
		TextBody: text,
		HTMLBody: html,
	})
}

func (m *Mail) send(ctx context.Context, span trace.Span, msg mail.Message) error {
	if err := m.client.Send(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
