package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/shandysiswandi/gocharity/internal/account/entity"
	"github.com/shandysiswandi/gocharity/internal/pkg/goerror"
	"github.com/shandysiswandi/gocharity/internal/pkg/session"
)

type DashboardOutput struct {
	User      entity.User
	Volunteer *VolunteerProfile
	Flashes   []session.Flash
}

// VolunteerProfile is a Volunteer prepared for display.
type VolunteerProfile struct {
	entity.Volunteer
	NationalCode  string // masked
	ProfilePicURL string
}

func (s *Usecase) Dashboard(ctx context.Context, sess *session.Session) (*DashboardOutput, error) {
	ctx, span := s.startSpan(ctx, "Dashboard")
	defer span.End()

	user, err := s.currentUser(ctx, sess)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	out := &DashboardOutput{User: *user, Flashes: sess.PopFlashes()}

	v, err := s.repoDB.GetVolunteerByUserID(ctx, user.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		return out, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get volunteer", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	profile := &VolunteerProfile{Volunteer: *v}

	nc, err := s.encryptor.Open(v.NC, ncAAD(user.ID))
	if err != nil {
		slog.ErrorContext(ctx, "failed to open national code", "user_id", user.ID, "error", err)
	} else {
		profile.NationalCode = maskNationalCode(string(nc))
	}

	if v.ProfilePic != "" {
		url, err := s.storage.URL(ctx, v.ProfilePic, s.profilePicURLTTL())
		if err != nil {
			slog.WarnContext(ctx, "failed to sign profile picture url", "user_id", user.ID, "error", err)
		}
		profile.ProfilePicURL = url
	}

	out.Volunteer = profile
	return out, nil
}

// ncAAD binds a sealed national code to its owner.
func ncAAD(userID int64) []byte {
	return []byte("account_volunteers.nc:" + strconv.FormatInt(userID, 10))
}
