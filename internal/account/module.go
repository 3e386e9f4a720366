package account

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/gocharity/internal/account/inbound"
	"github.com/shandysiswandi/gocharity/internal/account/outbound/db"
	"github.com/shandysiswandi/gocharity/internal/account/outbound/delivery"
	"github.com/shandysiswandi/gocharity/internal/account/outbound/mq"
	"github.com/shandysiswandi/gocharity/internal/account/usecase"
	"github.com/shandysiswandi/gocharity/internal/pkg/attempt"
	"github.com/shandysiswandi/gocharity/internal/pkg/clock"
	"github.com/shandysiswandi/gocharity/internal/pkg/config"
	"github.com/shandysiswandi/gocharity/internal/pkg/encrypt"
	"github.com/shandysiswandi/gocharity/internal/pkg/hash"
	"github.com/shandysiswandi/gocharity/internal/pkg/instrument"
	"github.com/shandysiswandi/gocharity/internal/pkg/mail"
	"github.com/shandysiswandi/gocharity/internal/pkg/messaging"
	"github.com/shandysiswandi/gocharity/internal/pkg/otp"
	"github.com/shandysiswandi/gocharity/internal/pkg/router"
	"github.com/shandysiswandi/gocharity/internal/pkg/sms"
	"github.com/shandysiswandi/gocharity/internal/pkg/storage"
	"github.com/shandysiswandi/gocharity/internal/pkg/uid"
	"github.com/shandysiswandi/gocharity/internal/pkg/validator"
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Publisher        `validate:"required"`
	Storage    storage.Storage            `validate:"required"`
	SMS        sms.SMS                    `validate:"required"`
	Mail       mail.Mail                  `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Token      uid.StringID               `validate:"required"`
	Attempts   attempt.Counter            `validate:"required"`
	Password   hash.Hash                  `validate:"required"`
	OTPDigest  hash.Hash                  `validate:"required"`
	Encryptor  encrypt.Encryptor          `validate:"required"`
	OTP        otp.Generator              `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(ctx context.Context, dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	repoDB := db.NewDB(dep.DBConn, dep.Instrument)
	if dep.Config.GetBool("database.migrate") {
		if err := repoDB.Migrate(ctx); err != nil {
			return err
		}
	}

	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	sender := delivery.NewOTP(dep.SMS, dep.Mail, delivery.Config{
		AppName:   dep.Config.GetString("app.name"),
		TTL:       dep.Config.GetSecond("modules.account.otp.expire"),
		Retries:   uint64(max(dep.Config.GetInt("modules.account.otp.retries"), 0)),
		RetryBase: dep.Config.GetMillisecond("modules.account.otp.retry_base_ms"),
	}, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        repoDB,
		RepoMessaging: repoMsg,
		OTPSender:     sender,
		Storage:       dep.Storage,
		Encryptor:     dep.Encryptor,
		Validator:     dep.Validator,
		Config:        dep.Config,
		Password:      dep.Password,
		OTPDigest:     dep.OTPDigest,
		OTP:           dep.OTP,
		UID:           dep.UID,
		UUID:          dep.UUID,
		Token:         dep.Token,
		Attempts:      dep.Attempts,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
