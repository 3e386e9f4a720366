package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/shandysiswandi/gocharity/internal/notification/entity"
	"github.com/shandysiswandi/gocharity/internal/pkg/config"
	"github.com/shandysiswandi/gocharity/internal/pkg/goerror"
	"github.com/shandysiswandi/gocharity/internal/pkg/idempotency"
	"github.com/shandysiswandi/gocharity/internal/pkg/instrument"
	"github.com/shandysiswandi/gocharity/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
app:
  name: Charity
modules:
  notification:
    contact_email: info@charity.example
`

type welcomeMail struct {
	subject string
	text    string
	html    string
	w       entity.VolunteerWelcome
}

type fakeMail struct {
	mu       sync.Mutex
	contacts []entity.Contact
	to       []string
	welcomes []welcomeMail
	err      error
}

func (f *fakeMail) SendContact(_ context.Context, to string, c entity.Contact) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.to = append(f.to, to)
	f.contacts = append(f.contacts, c)
	return nil
}

func (f *fakeMail) SendVolunteerWelcome(_ context.Context, subject, text, html string, w entity.VolunteerWelcome) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.welcomes = append(f.welcomes, welcomeMail{subject: subject, text: text, html: html, w: w})
	return f.err
}

func newTestUsecase(t *testing.T, yaml string) (*Usecase, *fakeMail) {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	require.NoError(t, err)

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	fm := &fakeMail{}
	return New(Dependency{
		RepoMail:    fm,
		Idempotency: idempotency.NewMemory(),
		Validator:   v,
		Config:      cfg,
		Instrument:  instrument.NewNoop(),
	}), fm
}

func validContact() ContactInput {
	return ContactInput{
		Name:    "Sara",
		Email:   "sara@example.com",
		Subject: "Volunteering",
		Content: "How can I help?",
	}
}

func TestSendContact(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers to the organisation", func(t *testing.T) {
		uc, fm := newTestUsecase(t, testConfig)

		require.NoError(t, uc.SendContact(ctx, validContact()))
		require.Len(t, fm.contacts, 1)
		assert.Equal(t, []string{"info@charity.example"}, fm.to)
		assert.Equal(t, "name: Sara\nemail: sara@example.com\nmessage: How can I help?", fm.contacts[0].Body())
	})

	t.Run("field errors", func(t *testing.T) {
		uc, fm := newTestUsecase(t, testConfig)

		in := validContact()
		in.Email = "not-an-email"
		in.Name = strings.Repeat("a", 101)
		err := uc.SendContact(ctx, in)

		var gErr *goerror.Error
		require.ErrorAs(t, err, &gErr)
		assert.Equal(t, 422, gErr.StatusCode())
		assert.Empty(t, fm.contacts)
	})

	t.Run("delivery failure is a server error", func(t *testing.T) {
		uc, fm := newTestUsecase(t, testConfig)
		fm.err = errors.New("smtp down")

		var gErr *goerror.Error
		require.ErrorAs(t, uc.SendContact(ctx, validContact()), &gErr)
		assert.Equal(t, 500, gErr.StatusCode())
	})

	t.Run("missing recipient is a server error", func(t *testing.T) {
		uc, fm := newTestUsecase(t, "app:\n  name: Charity\n")

		var gErr *goerror.Error
		require.ErrorAs(t, uc.SendContact(ctx, validContact()), &gErr)
		assert.Equal(t, 500, gErr.StatusCode())
		assert.Empty(t, fm.contacts)
	})

	t.Run("replayed key is sent once", func(t *testing.T) {
		uc, fm := newTestUsecase(t, testConfig)

		in := validContact()
		in.IdempotencyKey = "abc"
		require.NoError(t, uc.SendContact(ctx, in))
		require.NoError(t, uc.SendContact(ctx, in))
		assert.Len(t, fm.contacts, 1)
	})

	t.Run("failed attempt releases the key", func(t *testing.T) {
		uc, fm := newTestUsecase(t, testConfig)
		fm.err = errors.New("smtp down")

		in := validContact()
		in.IdempotencyKey = "retry"
		require.Error(t, uc.SendContact(ctx, in))

		fm.err = nil
		require.NoError(t, uc.SendContact(ctx, in))
		assert.Len(t, fm.contacts, 1)
	})

	t.Run("in flight key conflicts", func(t *testing.T) {
		uc, fm := newTestUsecase(t, testConfig)

		in := validContact()
		in.IdempotencyKey = "busy"

		held := make(chan struct{})
		release := make(chan struct{})
		done := make(chan error, 1)
		go func() {
			done <- uc.idempotency.Do(ctx, "contact:busy", func(context.Context) error {
				close(held)
				<-release
				return nil
			})
		}()
		<-held

		var gErr *goerror.Error
		require.ErrorAs(t, uc.SendContact(ctx, in), &gErr)
		assert.Equal(t, 409, gErr.StatusCode())
		assert.Empty(t, fm.contacts)

		close(release)
		require.NoError(t, <-done)
	})
}

func TestConsumeVolunteerRegistration(t *testing.T) {
	ctx := context.Background()

	t.Run("sends welcome mail", func(t *testing.T) {
		uc, fm := newTestUsecase(t, testConfig)

		err := uc.ConsumeVolunteerRegistration(ctx, ConsumeVolunteerRegistrationInput{
			VolunteerID: 11,
			UserID:      7,
			FirstName:   "Ali",
			LastName:    "Rezaei",
			Email:       "ali@example.com",
			NewAccount:  true,
		})
		require.NoError(t, err)
		require.Len(t, fm.welcomes, 1)

		got := fm.welcomes[0]
		assert.Equal(t, "Welcome to Charity", got.subject)
		assert.Contains(t, got.text, "Hello Ali Rezaei,")
		assert.Contains(t, got.text, "An account was created for you")
		assert.Contains(t, got.html, "<p>Hello Ali Rezaei,</p>")
		assert.Equal(t, "ali@example.com", got.w.Email)
	})

	t.Run("existing account has no sign in hint", func(t *testing.T) {
		uc, fm := newTestUsecase(t, testConfig)

		require.NoError(t, uc.ConsumeVolunteerRegistration(ctx, ConsumeVolunteerRegistrationInput{
			VolunteerID: 12, UserID: 8, FirstName: "Mina", Email: "mina@example.com",
		}))
		require.Len(t, fm.welcomes, 1)
		assert.NotContains(t, fm.welcomes[0].text, "An account was created")
	})

	t.Run("html escapes names", func(t *testing.T) {
		uc, fm := newTestUsecase(t, testConfig)

		require.NoError(t, uc.ConsumeVolunteerRegistration(ctx, ConsumeVolunteerRegistrationInput{
			VolunteerID: 13, UserID: 9, FirstName: "<b>", Email: "b@example.com",
		}))
		require.Len(t, fm.welcomes, 1)
		assert.Contains(t, fm.welcomes[0].html, "&lt;b&gt;")
	})

	t.Run("skipped without email", func(t *testing.T) {
		uc, fm := newTestUsecase(t, testConfig)

		require.NoError(t, uc.ConsumeVolunteerRegistration(ctx, ConsumeVolunteerRegistrationInput{
			VolunteerID: 14, UserID: 10, FirstName: "Reza",
		}))
		assert.Empty(t, fm.welcomes)
	})

	t.Run("invalid payload and mail failure are swallowed", func(t *testing.T) {
		uc, fm := newTestUsecase(t, testConfig)

		require.NoError(t, uc.ConsumeVolunteerRegistration(ctx, ConsumeVolunteerRegistrationInput{
			Email: "x@example.com",
		}))
		assert.Empty(t, fm.welcomes)

		fm.err = errors.New("smtp down")
		require.NoError(t, uc.ConsumeVolunteerRegistration(ctx, ConsumeVolunteerRegistrationInput{
			VolunteerID: 15, UserID: 11, FirstName: "Sara", Email: "s@example.com",
		}))
		assert.Len(t, fm.welcomes, 1)
	})
}
