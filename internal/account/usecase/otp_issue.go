package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/gocharity/internal/account/entity"
	"github.com/shandysiswandi/gocharity/internal/pkg/goerror"
	"github.com/shandysiswandi/gocharity/internal/pkg/session"
	"github.com/shandysiswandi/gocharity/internal/pkg/validator"
)

type IssueOTPInput struct {
	Type       string
	Identifier string
}

type IssueOTPOutput struct {
	MaskedIdentifier string
	ExpiresIn        int64 // seconds
}

type emailIdentifier struct {
	Email string `validate:"required,email,max=254"`
}

func (s *Usecase) IssueOTP(ctx context.Context, sess *session.Session, in IssueOTPInput) (*IssueOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "IssueOTP")
	defer span.End()

	if err := s.ensureAnonymous(ctx, sess); err != nil {
		return nil, err
	}

	channel := entity.OTPChannel(strings.ToLower(strings.TrimSpace(in.Type)))
	if !channel.Valid() {
		return nil, goerror.NewBusiness("invalid otp type", goerror.CodeBadRequest)
	}

	identifier := strings.TrimSpace(in.Identifier)
	if identifier == "" {
		return nil, goerror.NewBusiness("otp identifier is required", goerror.CodeBadRequest)
	}

	switch channel {
	case entity.OTPChannelSMS:
		if !validator.IsPhone(identifier) {
			return nil, goerror.NewBusiness("otp identifier does not match otp type", goerror.CodeBadRequest)
		}
	case entity.OTPChannelEmail:
		if err := s.validator.Validate(emailIdentifier{Email: identifier}); err != nil {
			return nil, goerror.NewBusiness("otp identifier does not match otp type", goerror.CodeBadRequest)
		}
		identifier = strings.ToLower(identifier)
	}

	code, err := s.otp.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "error", err)
		return nil, goerror.NewServer(err)
	}

	digest, err := s.otpDigest.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp code", "error", err)
		return nil, goerror.NewServer(err)
	}

	expire := s.otpExpire()
	sess.SetPendingOTP(session.PendingOTP{
		ID:         s.uuid.Generate(),
		CodeDigest: string(digest),
		Identifier: identifier,
		Channel:    channel.String(),
		ExpiresAt:  s.clock.Now().Add(expire),
	})

	if err := s.sender.SendOTP(ctx, code, channel, identifier); err != nil {
		slog.ErrorContext(ctx, "failed to deliver otp code", "channel", channel, "identifier", identifier, "error", err)
		sess.ClearPendingOTP()
		return nil, goerror.NewServer(err)
	}

	return &IssueOTPOutput{
		MaskedIdentifier: maskIdentifier(channel, identifier),
		ExpiresIn:        int64(expire.Seconds()),
	}, nil
}
