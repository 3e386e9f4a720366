package router

import (
	"log/slog"
	"net/http"

	"github.com/shandysiswandi/gocharity/internal/pkg/session"
)

func middlewareSession(m *session.Manager) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := m.Load(r)
			if err != nil {
				slog.ErrorContext(r.Context(), "failed to load session", "error", err)
				writeJSON(w, errorResponse{Message: "Internal server error"}, http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), s)))
		})
	}
}

// RequireLogin rejects requests whose session has no authenticated user.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s := session.FromContext(r.Context()); s == nil || !s.IsAuthenticated() {
			writeJSON(w, errorResponse{Message: "Authentication required"}, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
