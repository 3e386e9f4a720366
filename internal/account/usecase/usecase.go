package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/gocharity/internal/account/entity"
	"github.com/shandysiswandi/gocharity/internal/pkg/attempt"
	"github.com/shandysiswandi/gocharity/internal/pkg/clock"
	"github.com/shandysiswandi/gocharity/internal/pkg/config"
	"github.com/shandysiswandi/gocharity/internal/pkg/encrypt"
	"github.com/shandysiswandi/gocharity/internal/pkg/hash"
	"github.com/shandysiswandi/gocharity/internal/pkg/instrument"
	"github.com/shandysiswandi/gocharity/internal/pkg/otp"
	"github.com/shandysiswandi/gocharity/internal/pkg/storage"
	"github.com/shandysiswandi/gocharity/internal/pkg/uid"
	"github.com/shandysiswandi/gocharity/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultOTPExpire          = 2 * time.Minute
	defaultPasswordMinLength  = 8
	defaultProfilePicMaxBytes = 2 << 20
	defaultProfilePicURLTTL   = 15 * time.Minute
)

type VolunteerRegistrationEvent struct {
	VolunteerID int64
	UserID      int64
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	NewAccount  bool
}

type repoMessaging interface {
	PublishVolunteerRegistration(ctx context.Context, msg VolunteerRegistrationEvent) error
}

type repoDB interface {
	GetUserByID(ctx context.Context, id int64) (*entity.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsUserByPhone(ctx context.Context, phone string) (bool, error)
	GetVolunteerByUserID(ctx context.Context, userID int64) (*entity.Volunteer, error)

	CreateUser(ctx context.Context, user entity.User) error
	CreateVolunteer(ctx context.Context, v entity.Volunteer, owner *entity.User) error
}

type otpSender interface {
	SendOTP(ctx context.Context, code string, channel entity.OTPChannel, identifier string) error
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	sender        otpSender
	storage       storage.Storage
	encryptor     encrypt.Encryptor
	validator     validator.Validator
	cfg           config.Config
	password      hash.Hash
	otpDigest     hash.Hash
	otp           otp.Generator
	uid           uid.NumberID
	uuid          uid.StringID
	clock         clock.Clocker
	ins           instrument.Instrumentation

	otpBackend *OTPBackend
	backends   []Backend
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	OTPSender     otpSender
	Storage       storage.Storage
	Encryptor     encrypt.Encryptor
	Validator     validator.Validator
	Config        config.Config
	Password      hash.Hash
	OTPDigest     hash.Hash
	OTP           otp.Generator
	UID           uid.NumberID
	UUID          uid.StringID
	Token         uid.StringID
	Attempts      attempt.Counter
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	otpBackend := NewOTPBackend(OTPBackendDependency{
		RepoDB:     dep.RepoDB,
		Digest:     dep.OTPDigest,
		Config:     dep.Config,
		UID:        dep.UID,
		Token:      dep.Token,
		Attempts:   dep.Attempts,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
	})

	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		sender:        dep.OTPSender,
		storage:       dep.Storage,
		encryptor:     dep.Encryptor,
		validator:     dep.Validator,
		cfg:           dep.Config,
		password:      dep.Password,
		otpDigest:     dep.OTPDigest,
		otp:           dep.OTP,
		uid:           dep.UID,
		uuid:          dep.UUID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
		otpBackend:    otpBackend,
		backends: []Backend{
			NewPasswordBackend(dep.RepoDB, dep.Password),
			otpBackend,
		},
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("account.usecase").Start(ctx, name)
}

func (s *Usecase) otpExpire() time.Duration {
	if d := s.cfg.GetSecond("modules.account.otp.expire"); d > 0 {
		return d
	}
	return defaultOTPExpire
}

func (s *Usecase) passwordMinLength() int {
	if n := s.cfg.GetInt("modules.account.password_min_length"); n > 0 {
		return n
	}
	return defaultPasswordMinLength
}

// ProfilePicMaxBytes is the largest accepted profile picture.
func (s *Usecase) ProfilePicMaxBytes() int64 {
	if n := s.cfg.GetInt64("modules.account.profile_pic_max_bytes"); n > 0 {
		return n
	}
	return defaultProfilePicMaxBytes
}

func (s *Usecase) profilePicURLTTL() time.Duration {
	if d := s.cfg.GetMinute("modules.account.profile_pic_url_expire_minutes"); d > 0 {
		return d
	}
	return defaultProfilePicURLTTL
}
