package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/gocharity/internal/notification/usecase"
	"github.com/shandysiswandi/gocharity/internal/pkg/instrument"
	"github.com/shandysiswandi/gocharity/internal/pkg/messaging"
	"github.com/shandysiswandi/gocharity/internal/pkg/uid"
	"github.com/shandysiswandi/gocharity/internal/shared/event"
)

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, msg messaging.Message) context.Context {
	if cid := msg.Header(event.CorrelationIDHeader); cid != "" {
		return instrument.SetCorrelationID(ctx, cid)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

// VolunteerRegistrationNotification never fails a message: a body that cannot
// be decoded will not decode on redelivery either.
func (h *MQHandler) VolunteerRegistrationNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "VolunteerRegistrationNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: volunteer registration notification", "msg_id", msg.ID())

	var payload event.VolunteerRegistrationMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of volunteer registration notification", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumeVolunteerRegistration(ctx, usecase.ConsumeVolunteerRegistrationInput{
		VolunteerID: payload.VolunteerID,
		UserID:      payload.UserID,
		FirstName:   payload.FirstName,
		LastName:    payload.LastName,
		Email:       payload.Email,
		NewAccount:  payload.NewAccount,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume volunteer registration", "volunteer_id", payload.VolunteerID, "error", err)
	}

	return nil
}
