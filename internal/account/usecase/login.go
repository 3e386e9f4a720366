package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/gocharity/internal/account/entity"
	"github.com/shandysiswandi/gocharity/internal/pkg/goerror"
	"github.com/shandysiswandi/gocharity/internal/pkg/session"
)

type LoginInput struct {
	Phone    string `validate:"required"`
	Password string `validate:"required"`
}

func (s *Usecase) Login(ctx context.Context, sess *session.Session, in LoginInput) (*entity.User, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	if err := s.ensureAnonymous(ctx, sess); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	user, err := s.authenticate(ctx, sess, Credentials{
		Phone:    strings.TrimSpace(in.Phone),
		Password: in.Password,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to authenticate password", "error", err)
		return nil, goerror.NewServer(err)
	}
	if user == nil {
		return nil, errInvalidCredentials
	}

	sess.Login(user.ID)
	sess.AddFlash("success", "welcome back")

	return user, nil
}
