package usecase

import (
	"context"
	"strings"

	"github.com/shandysiswandi/gocharity/internal/pkg/session"
)

type VolunteerPrefill struct {
	FirstName string
	LastName  string
	Phone     string
	Email     string
}

// PrefillVolunteer returns initial form values. Values from the logged-in
// user take precedence over the ones passed in.
func (s *Usecase) PrefillVolunteer(ctx context.Context, sess *session.Session, in VolunteerPrefill) (*VolunteerPrefill, error) {
	ctx, span := s.startSpan(ctx, "PrefillVolunteer")
	defer span.End()

	out := VolunteerPrefill{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.TrimSpace(in.Email),
	}

	user, err := s.currentUser(ctx, sess)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return &out, nil
	}

	for _, f := range []struct {
		dst *string
		src string
	}{
		{&out.FirstName, user.FirstName},
		{&out.LastName, user.LastName},
		{&out.Phone, user.Phone},
		{&out.Email, user.Email},
	} {
		if f.src != "" {
			*f.dst = f.src
		}
	}

	return &out, nil
}
