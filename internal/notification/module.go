package notification

import (
	"context"

	"github.com/shandysiswandi/gocharity/internal/notification/inbound"
	"github.com/shandysiswandi/gocharity/internal/notification/outbound/email"
	"github.com/shandysiswandi/gocharity/internal/notification/usecase"
	"github.com/shandysiswandi/gocharity/internal/pkg/config"
	"github.com/shandysiswandi/gocharity/internal/pkg/goroutine"
	"github.com/shandysiswandi/gocharity/internal/pkg/idempotency"
	"github.com/shandysiswandi/gocharity/internal/pkg/instrument"
	"github.com/shandysiswandi/gocharity/internal/pkg/mail"
	"github.com/shandysiswandi/gocharity/internal/pkg/messaging"
	"github.com/shandysiswandi/gocharity/internal/pkg/router"
	"github.com/shandysiswandi/gocharity/internal/pkg/uid"
	"github.com/shandysiswandi/gocharity/internal/pkg/validator"
)

type Dependency struct {
	Router      *router.Router             `validate:"required"`
	Messaging   messaging.Consumer         `validate:"required"`
	Mail        mail.Mail                  `validate:"required"`
	Idempotency idempotency.Guard          `validate:"required"`
	Goroutine   *goroutine.Manager         `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UUID        uid.StringID               `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
}

// New wires the contact endpoint and starts the configured consumers, which
// run until ctx is done.
func New(ctx context.Context, dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	repoMail := email.New(dep.Mail, dep.Config.GetString("mail.from"), dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoMail:    repoMail,
		Idempotency: dep.Idempotency,
		Validator:   dep.Validator,
		Config:      dep.Config,
		Instrument:  dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	inbound.RegisterMQConsumer(ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)

	return nil
}
