package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/gocharity/internal/notification/entity"
)

const welcomeText = `Hello {{.Name}},

Thank you for registering as a volunteer with {{.App}}.
{{- if .NewAccount}}
An account was created for you; sign in with your phone number and the password you chose.
{{- end}}
We will contact you when a matching opportunity comes up.
`

const welcomeHTML = `<p>Hello {{.Name}},</p>
<p>Thank you for registering as a volunteer with {{.App}}.</p>
{{- if .NewAccount}}
<p>An account was created for you; sign in with your phone number and the password you chose.</p>
{{- end}}
<p>We will contact you when a matching opportunity comes up.</p>
`

type ConsumeVolunteerRegistrationInput struct {
	VolunteerID int64  `validate:"required,gt=0"`
	UserID      int64  `validate:"required,gt=0"`
	FirstName   string `validate:"required"`
	LastName    string
	Email       string `validate:"omitempty,email"`
	NewAccount  bool
}

// ConsumeVolunteerRegistration mails a welcome message to a new volunteer.
// Failures are logged and never returned, so the message is acked either way.
func (s *Usecase) ConsumeVolunteerRegistration(ctx context.Context, in ConsumeVolunteerRegistrationInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeVolunteerRegistration")
	defer span.End()

	if in.Email == "" {
		slog.InfoContext(ctx, "volunteer has no email, welcome mail skipped", "volunteer_id", in.VolunteerID)
		return nil
	}

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "volunteer_id", in.VolunteerID, "error", err)
		return nil
	}

	w := entity.VolunteerWelcome{
		VolunteerID: in.VolunteerID,
		UserID:      in.UserID,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		NewAccount:  in.NewAccount,
	}

	app := s.cfg.GetString("app.name")
	data := map[string]any{"Name": w.FullName(), "App": app, "NewAccount": w.NewAccount}

	text, err := renderText("welcome_text", welcomeText, data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render welcome text", "volunteer_id", in.VolunteerID, "error", err)
		return nil
	}
	html, err := renderHTML("welcome_html", welcomeHTML, data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render welcome html", "volunteer_id", in.VolunteerID, "error", err)
		return nil
	}

	subject := "Welcome to " + app
	if app == "" {
		subject = "Welcome"
	}

	if err := s.repoMail.SendVolunteerWelcome(ctx, subject, text, html, w); err != nil {
		slog.ErrorContext(ctx, "failed to send volunteer welcome mail", "volunteer_id", in.VolunteerID, "error", err)
	}

	return nil
}
