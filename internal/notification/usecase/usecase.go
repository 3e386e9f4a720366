package usecase

import (
	"bytes"
	"context"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/shandysiswandi/gocharity/internal/notification/entity"
	"github.com/shandysiswandi/gocharity/internal/pkg/config"
	"github.com/shandysiswandi/gocharity/internal/pkg/idempotency"
	"github.com/shandysiswandi/gocharity/internal/pkg/instrument"
	"github.com/shandysiswandi/gocharity/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoMail interface {
	SendContact(ctx context.Context, to string, c entity.Contact) error
	SendVolunteerWelcome(ctx context.Context, subject, text, html string, w entity.VolunteerWelcome) error
}

type Usecase struct {
	repoMail    repoMail
	idempotency idempotency.Guard
	validator   validator.Validator
	cfg         config.Config
	ins         instrument.Instrumentation
}

type Dependency struct {
	RepoMail    repoMail
	Idempotency idempotency.Guard
	Validator   validator.Validator
	Config      config.Config
	Instrument  instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoMail:    dep.RepoMail,
		idempotency: dep.Idempotency,
		validator:   dep.Validator,
		cfg:         dep.Config,
		ins:         dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}

func renderText(name, tpl string, data any) (string, error) {
	t, err := texttemplate.New(name).Option("missingkey=zero").Parse(tpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func renderHTML(name, tpl string, data any) (string, error) {
	t, err := htmltemplate.New(name).Option("missingkey=zero").Parse(tpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
