package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/gocharity/internal/pkg/goerror"
	"github.com/shandysiswandi/gocharity/internal/pkg/validator"
)

type ValidatePhoneInput struct {
	Phone string
}

func (s *Usecase) ValidatePhone(ctx context.Context, in ValidatePhoneInput) error {
	ctx, span := s.startSpan(ctx, "ValidatePhone")
	defer span.End()

	phone := strings.TrimSpace(in.Phone)
	if !validator.IsPhone(phone) {
		return goerror.NewBusiness("invalid phone number", goerror.CodeBadRequest)
	}

	exists, err := s.repoDB.ExistsUserByPhone(ctx, phone)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo check phone", "phone", phone, "error", err)
		return goerror.NewServer(err)
	}
	if exists {
		return goerror.NewBusiness("phone number is already used", goerror.CodeConflict)
	}

	return nil
}
