package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/gocharity/internal/notification/entity"
	"github.com/shandysiswandi/gocharity/internal/pkg/goerror"
	"github.com/shandysiswandi/gocharity/internal/pkg/idempotency"
)

var errContactInProgress = goerror.NewBusiness("contact message is already being processed", goerror.CodeConflict)

type ContactInput struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=255"`
	Content string `json:"content" validate:"required"`

	// IdempotencyKey is optional; when set a repeated submission with the same
	// key is not mailed again.
	IdempotencyKey string `json:"-" validate:"-"`
}

func (s *Usecase) SendContact(ctx context.Context, in ContactInput) error {
	ctx, span := s.startSpan(ctx, "SendContact")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	to := s.cfg.GetString("modules.notification.contact_email")
	if to == "" {
		slog.ErrorContext(ctx, "contact email is not configured")
		return goerror.NewServer(errors.New("modules.notification.contact_email is empty"))
	}

	c := entity.Contact{Name: in.Name, Email: in.Email, Subject: in.Subject, Content: in.Content}
	send := func(ctx context.Context) error {
		return s.repoMail.SendContact(ctx, to, c)
	}

	var err error
	if in.IdempotencyKey == "" || s.idempotency == nil {
		err = send(ctx)
	} else {
		err = s.idempotency.Do(ctx, "contact:"+in.IdempotencyKey, send)
	}

	switch {
	case err == nil, errors.Is(err, idempotency.ErrCompleted):
		return nil
	case errors.Is(err, idempotency.ErrInProgress):
		return errContactInProgress
	default:
		slog.ErrorContext(ctx, "failed to send contact mail", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}
}
