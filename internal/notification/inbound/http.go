package inbound

import (
	"context"

	"github.com/shandysiswandi/gocharity/internal/notification/usecase"
	"github.com/shandysiswandi/gocharity/internal/pkg/router"
)

type uc interface {
	SendContact(ctx context.Context, in usecase.ContactInput) error
	ConsumeVolunteerRegistration(ctx context.Context, in usecase.ConsumeVolunteerRegistrationInput) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/notification/contact", end.Contact)
}
