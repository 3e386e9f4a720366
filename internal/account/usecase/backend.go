package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/gocharity/internal/account/entity"
	"github.com/shandysiswandi/gocharity/internal/pkg/attempt"
	"github.com/shandysiswandi/gocharity/internal/pkg/clock"
	"github.com/shandysiswandi/gocharity/internal/pkg/config"
	"github.com/shandysiswandi/gocharity/internal/pkg/goerror"
	"github.com/shandysiswandi/gocharity/internal/pkg/hash"
	"github.com/shandysiswandi/gocharity/internal/pkg/instrument"
	"github.com/shandysiswandi/gocharity/internal/pkg/session"
	"github.com/shandysiswandi/gocharity/internal/pkg/uid"
)

// Credentials carries whatever the client submitted. Each backend uses the
// fields it understands and ignores the rest.
type Credentials struct {
	Phone    string
	Password string
	OTPCode  string
}

// Backend authenticates credentials. It returns nil, nil when the
// credentials do not apply to it or do not match; errors are infrastructure
// failures only.
type Backend interface {
	Authenticate(ctx context.Context, sess *session.Session, cred Credentials) (*entity.User, error)
}

// authenticate tries the backends in order and returns the first user.
func (s *Usecase) authenticate(ctx context.Context, sess *session.Session, cred Credentials) (*entity.User, error) {
	for _, b := range s.backends {
		user, err := b.Authenticate(ctx, sess, cred)
		if err != nil {
			return nil, err
		}
		if user != nil {
			return user, nil
		}
	}
	return nil, nil
}

type userByPhone interface {
	GetUserByPhone(ctx context.Context, phone string) (*entity.User, error)
}

type PasswordBackend struct {
	repo   userByPhone
	hasher hash.Hash
}

func NewPasswordBackend(repo userByPhone, hasher hash.Hash) *PasswordBackend {
	return &PasswordBackend{repo: repo, hasher: hasher}
}

func (b *PasswordBackend) Authenticate(ctx context.Context, _ *session.Session, cred Credentials) (*entity.User, error) {
	if cred.Phone == "" || cred.Password == "" {
		return nil, nil
	}

	user, err := b.repo.GetUserByPhone(ctx, cred.Phone)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "phone", cred.Phone)
		return nil, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by phone", "phone", cred.Phone, "error", err)
		return nil, err
	}

	if !user.HasUsablePassword() || !b.hasher.Verify(user.Password, cred.Password) {
		slog.WarnContext(ctx, "password user account not match", "user_id", user.ID)
		return nil, nil
	}

	return user, nil
}

type OTPBackendDependency struct {
	RepoDB     repoDB
	Digest     hash.Hash
	Config     config.Config
	UID        uid.NumberID
	Token      uid.StringID
	Attempts   attempt.Counter
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

// OTPBackend checks a submitted code against the session's PendingOTP and
// resolves the user it was issued for.
type OTPBackend struct {
	repo     repoDB
	digest   hash.Hash
	cfg      config.Config
	uid      uid.NumberID
	token    uid.StringID
	attempts attempt.Counter
	clock    clock.Clocker
	ins      instrument.Instrumentation
}

func NewOTPBackend(dep OTPBackendDependency) *OTPBackend {
	return &OTPBackend{
		repo:     dep.RepoDB,
		digest:   dep.Digest,
		cfg:      dep.Config,
		uid:      dep.UID,
		token:    dep.Token,
		attempts: dep.Attempts,
		clock:    dep.Clock,
		ins:      dep.Instrument,
	}
}

func (b *OTPBackend) Authenticate(ctx context.Context, sess *session.Session, cred Credentials) (*entity.User, error) {
	if cred.OTPCode == "" {
		return nil, nil
	}

	ctx, span := b.ins.Tracer("account.usecase").Start(ctx, "OTPBackend.Authenticate")
	defer span.End()

	pending, ok, err := b.check(ctx, sess, cred.OTPCode)
	if err != nil || !ok {
		return nil, err
	}

	switch entity.OTPChannel(pending.Channel) {
	case entity.OTPChannelSMS:
		return b.userByPhone(ctx, pending.Identifier)
	case entity.OTPChannelEmail:
		user, err := b.repo.GetUserByEmail(ctx, pending.Identifier)
		if errors.Is(err, goerror.ErrNotFound) {
			slog.WarnContext(ctx, "no user account for otp email", "email", pending.Identifier)
			return nil, nil
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo get user by email", "email", pending.Identifier, "error", err)
			return nil, err
		}
		return user, nil
	default:
		slog.WarnContext(ctx, "pending otp has unknown channel", "channel", pending.Channel)
		return nil, nil
	}
}

// VerifyOTP reports whether code matches the session's PendingOTP without
// logging anyone in. A match leaves the PendingOTP in place.
func (b *OTPBackend) VerifyOTP(ctx context.Context, sess *session.Session, code string) (bool, error) {
	_, ok, err := b.check(ctx, sess, code)
	return ok, err
}

// check compares code with the pending one. Each comparison first takes an
// attempt from a counter shared by every request holding the same code, so
// parallel guesses cannot exceed the limit; a match returns its attempt.
func (b *OTPBackend) check(ctx context.Context, sess *session.Session, code string) (session.PendingOTP, bool, error) {
	pending, ok := sess.PendingOTP()
	if !ok || code == "" || pending.ID == "" {
		return pending, false, nil
	}

	now := b.clock.Now()
	if pending.Expired(now) {
		sess.ClearPendingOTP()
		return pending, false, nil
	}

	limit := int64(b.cfg.GetInt("modules.account.otp.max_attempts"))
	if limit <= 0 {
		return pending, b.digest.Verify(pending.CodeDigest, code), nil
	}

	key := "otp_attempts:" + pending.ID
	n, err := b.attempts.Incr(ctx, key, pending.ExpiresAt.Sub(now))
	if err != nil {
		slog.ErrorContext(ctx, "failed to count otp attempt", "error", err)
		return pending, false, err
	}
	if n > limit {
		slog.WarnContext(ctx, "otp attempts exhausted", "channel", pending.Channel, "attempts", n)
		sess.ClearPendingOTP()
		return pending, false, nil
	}

	if b.digest.Verify(pending.CodeDigest, code) {
		if err := b.attempts.Decr(ctx, key); err != nil {
			slog.WarnContext(ctx, "failed to return otp attempt", "error", err)
		}
		return pending, true, nil
	}

	if n == limit {
		slog.WarnContext(ctx, "otp attempts exhausted", "channel", pending.Channel, "attempts", n)
		sess.ClearPendingOTP()
	}
	return pending, false, nil
}

// userByPhone returns the user owning phone, creating one with an unusable
// password when none exists.
func (b *OTPBackend) userByPhone(ctx context.Context, phone string) (*entity.User, error) {
	user, err := b.repo.GetUserByPhone(ctx, phone)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get user by phone", "phone", phone, "error", err)
		return nil, err
	}

	now := b.clock.Now()
	newUser := entity.User{
		ID:        b.uid.Generate(),
		Phone:     phone,
		Username:  phone,
		Password:  entity.UnusablePasswordPrefix + b.token.Generate(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = b.repo.CreateUser(ctx, newUser)
	if errors.Is(err, goerror.ErrConflict) {
		return b.repo.GetUserByPhone(ctx, phone)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create user", "phone", phone, "error", err)
		return nil, err
	}

	return &newUser, nil
}
