package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/shandysiswandi/gocharity/internal/account/entity"
	"github.com/shandysiswandi/gocharity/internal/pkg/goerror"
	"github.com/shandysiswandi/gocharity/internal/pkg/session"
	"github.com/shandysiswandi/gocharity/internal/pkg/validator"
)

type RegisterInput struct {
	Phone     string
	Password1 string
	Password2 string
}

func (s *Usecase) Register(ctx context.Context, sess *session.Session, in RegisterInput) (*entity.User, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	phone := strings.TrimSpace(in.Phone)

	var fields []string
	if !validator.IsPhone(phone) {
		fields = append(fields, "phone", "invalid phone number")
	}
	fields = append(fields, s.checkPasswords(in.Password1, in.Password2)...)
	if len(fields) > 0 {
		return nil, goerror.NewInvalidInput(nil, fields...)
	}

	exists, err := s.repoDB.ExistsUserByPhone(ctx, phone)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo check phone", "phone", phone, "error", err)
		return nil, goerror.NewServer(err)
	}
	if exists {
		return nil, errPhoneUsed
	}

	hashed, err := s.password.Hash(in.Password1)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	user := entity.User{
		ID:        s.uid.Generate(),
		Phone:     phone,
		Username:  phone,
		Password:  string(hashed),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.repoDB.CreateUser(ctx, user)
	if errors.Is(err, goerror.ErrConflict) {
		return nil, errPhoneUsed
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create user", "phone", phone, "error", err)
		return nil, goerror.NewServer(err)
	}

	sess.AddFlash("success", "account created successfully")

	return &user, nil
}

// checkPasswords returns field/message pairs for a password and its
// confirmation.
func (s *Usecase) checkPasswords(password1, password2 string) []string {
	switch {
	case password1 == "":
		return []string{"password1", "password1 is a required field"}
	case password1 != password2:
		return []string{"password2", "passwords do not match"}
	case utf8.RuneCountInString(password1) < s.passwordMinLength():
		return []string{"password1", fmt.Sprintf("password must be at least %d characters", s.passwordMinLength())}
	case s.validator.Validate(passwordField{Password: password1}) != nil:
		return []string{"password1", "password must be at most 72 bytes"}
	default:
		return nil
	}
}

type passwordField struct {
	Password string `validate:"password"`
}
