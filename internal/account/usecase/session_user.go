package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/gocharity/internal/account/entity"
	"github.com/shandysiswandi/gocharity/internal/pkg/goerror"
	"github.com/shandysiswandi/gocharity/internal/pkg/session"
)

// currentUser loads the session's user. A session pointing at a user that no
// longer exists is downgraded to anonymous and nil is returned.
func (s *Usecase) currentUser(ctx context.Context, sess *session.Session) (*entity.User, error) {
	if !sess.IsAuthenticated() {
		return nil, nil
	}

	user, err := s.repoDB.GetUserByID(ctx, sess.UserID())
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "session user not found", "user_id", sess.UserID())
		sess.Forget()
		return nil, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by id", "user_id", sess.UserID(), "error", err)
		return nil, goerror.NewServer(err)
	}

	return user, nil
}

func (s *Usecase) ensureAnonymous(ctx context.Context, sess *session.Session) error {
	user, err := s.currentUser(ctx, sess)
	if err != nil {
		return err
	}
	if user != nil {
		return goerror.NewBusiness("user is already logged in", goerror.CodeBadRequest)
	}
	return nil
}
