package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/gocharity/internal/account/entity"
	"github.com/shandysiswandi/gocharity/internal/pkg/goerror"
	"github.com/shandysiswandi/gocharity/internal/pkg/session"
)

type VerifyOTPInput struct {
	Request string
	Code    string
}

type VerifyOTPOutput struct {
	LoggedIn bool
	UserID   int64
}

func (s *Usecase) VerifyOTP(ctx context.Context, sess *session.Session, in VerifyOTPInput) (*VerifyOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyOTP")
	defer span.End()

	request := entity.OTPRequest(strings.TrimSpace(in.Request))
	if !request.Valid() {
		return nil, goerror.NewBusiness("invalid otp request", goerror.CodeBadRequest)
	}

	code := strings.TrimSpace(in.Code)

	if request == entity.OTPRequestVerify {
		pending, _ := sess.PendingOTP()
		ok, err := s.otpBackend.VerifyOTP(ctx, sess, code)
		if err != nil {
			return nil, goerror.NewServer(err)
		}
		if !ok {
			return nil, errInvalidOTP
		}
		sess.SetVerifiedIdentifier(pending.Identifier)
		return &VerifyOTPOutput{}, nil
	}

	if err := s.ensureAnonymous(ctx, sess); err != nil {
		return nil, err
	}

	if code == "" {
		return nil, errInvalidOTP
	}

	user, err := s.authenticate(ctx, sess, Credentials{OTPCode: code})
	if err != nil {
		slog.ErrorContext(ctx, "failed to authenticate otp", "error", err)
		return nil, goerror.NewServer(err)
	}
	if user == nil {
		return nil, errInvalidOTP
	}

	sess.ClearPendingOTP()
	sess.Login(user.ID)

	return &VerifyOTPOutput{LoggedIn: true, UserID: user.ID}, nil
}
