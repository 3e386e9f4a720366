package session

import (
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
)

// Options configures the session cookie and lifetime.
type Options struct {
	CookieName  string
	Domain      string
	Secure      bool
	TTL         time.Duration
	IdleTimeout time.Duration
}

// Manager moves sessions between HTTP requests and an scs store.
type Manager struct {
	scs *scs.SessionManager
}

func NewManager(store scs.Store, opts Options) *Manager {
	return &Manager{scs: newSessionManager(store, opts)}
}

func newSessionManager(store scs.Store, opts Options) *scs.SessionManager {
	sm := scs.New()
	sm.Store = store
	sm.Lifetime = 14 * 24 * time.Hour
	if opts.TTL > 0 {
		sm.Lifetime = opts.TTL
	}
	sm.IdleTimeout = opts.IdleTimeout
	sm.Cookie.Name = "sessionid"
	if opts.CookieName != "" {
		sm.Cookie.Name = opts.CookieName
	}
	sm.Cookie.Domain = opts.Domain
	sm.Cookie.Secure = opts.Secure
	sm.Cookie.HttpOnly = true
	sm.Cookie.Path = "/"
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Persist = true

	return sm
}

// Load returns the session referenced by the request cookie. Unknown or
// expired tokens yield a new anonymous session rather than an error.
func (m *Manager) Load(r *http.Request) (*Session, error) {
	var token string
	if c, err := r.Cookie(m.scs.Cookie.Name); err == nil {
		token = c.Value
	}

	ctx, err := m.scs.Load(r.Context(), token)
	if err != nil {
		return nil, err
	}

	return &Session{sm: m.scs, ctx: ctx}, nil
}

// Commit writes s back to the store and sets or clears the cookie on w. It
// must run before the response status is written.
func (m *Manager) Commit(w http.ResponseWriter, s *Session) error {
	if s == nil {
		return nil
	}

	switch {
	case s.destroy:
		if err := m.scs.Destroy(s.ctx); err != nil {
			return err
		}
	case s.renew:
		if err := m.scs.RenewToken(s.ctx); err != nil {
			return err
		}
	}
	s.destroy, s.renew = false, false

	switch m.scs.Status(s.ctx) {
	case scs.Modified:
		token, expiry, err := m.scs.Commit(s.ctx)
		if err != nil {
			return err
		}
		w.Header().Add("Vary", "Cookie")
		m.scs.WriteSessionCookie(s.ctx, w, token, expiry)
	case scs.Destroyed:
		w.Header().Add("Vary", "Cookie")
		m.scs.WriteSessionCookie(s.ctx, w, "", time.Time{})
	}

	return nil
}
