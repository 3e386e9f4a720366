package mq

import (
	"context"
	"encoding/json"

	"github.com/shandysiswandi/gocharity/internal/account/usecase"
	"github.com/shandysiswandi/gocharity/internal/pkg/instrument"
	"github.com/shandysiswandi/gocharity/internal/pkg/messaging"
	"github.com/shandysiswandi/gocharity/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishVolunteerRegistration(ctx context.Context, msg usecase.VolunteerRegistrationEvent) error {
	ctx, span := m.ins.Tracer("account.outbound.mq").Start(ctx, "PublishVolunteerRegistration")
	defer span.End()

	body, err := json.Marshal(event.VolunteerRegistrationMessage{
		VolunteerID: msg.VolunteerID,
		UserID:      msg.UserID,
		FirstName:   msg.FirstName,
		LastName:    msg.LastName,
		Email:       msg.Email,
		Phone:       msg.Phone,
		NewAccount:  msg.NewAccount,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := m.client.Publish(ctx, event.VolunteerRegistrationDestination, messaging.Outgoing{
		Body:    body,
		Key:     []byte(msg.Phone),
		Headers: map[string]string{event.CorrelationIDHeader: instrument.GetCorrelationID(ctx)},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
