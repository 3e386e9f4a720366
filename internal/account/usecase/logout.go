package usecase

import (
	"context"

	"github.com/shandysiswandi/gocharity/internal/pkg/session"
)

func (s *Usecase) Logout(ctx context.Context, sess *session.Session) error {
	_, span := s.startSpan(ctx, "Logout")
	defer span.End()

	sess.Destroy()
	return nil
}
