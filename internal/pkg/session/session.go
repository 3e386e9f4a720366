// Package session keeps per-browser server-side state on top of scs.
//
// A Session is loaded once per request, handed to handlers explicitly and
// persisted by the Manager before the response is written. Only the opaque
// token travels to the client, in an HttpOnly cookie.
package session

import (
	"context"
	"encoding/gob"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
)

const (
	keyUserID   = "user_id"
	keyOTP      = "otp"
	keyVerified = "verified_identifier"
	keyFlashes  = "flashes"
)

func init() {
	gob.Register(PendingOTP{})
	gob.Register([]Flash{})
}

// PendingOTP is a one-time code issued to the client and not yet consumed.
// The code itself is never stored, only its keyed digest. ID is unique per
// issuance and names the code's shared attempt counter.
type PendingOTP struct {
	ID         string
	CodeDigest string
	Identifier string
	Channel    string
	ExpiresAt  time.Time
}

// Expired reports whether the code can no longer be used at now.
func (p PendingOTP) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// Flash is a one-shot message shown to the client on its next read.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Session is the state of one client for the duration of a request. It is
// not safe for concurrent use.
type Session struct {
	sm  *scs.SessionManager
	ctx context.Context

	renew   bool
	destroy bool
}

// detached backs sessions created outside an HTTP request.
var detached = newSessionManager(memstore.NewWithCleanupInterval(0), Options{})

// New returns an empty anonymous session that is never persisted.
func New() *Session {
	ctx, _ := detached.Load(context.Background(), "")
	return &Session{sm: detached, ctx: ctx}
}

// ID returns the current token, empty until the session is first saved.
func (s *Session) ID() string { return s.sm.Token(s.ctx) }

// Modified reports whether the session must be written back.
func (s *Session) Modified() bool {
	return s.renew || s.destroy || s.sm.Status(s.ctx) != scs.Unmodified
}

// UserID returns the authenticated user, or zero for an anonymous session.
func (s *Session) UserID() int64 { return s.sm.GetInt64(s.ctx, keyUserID) }

// IsAuthenticated reports whether a user is logged in on this session.
func (s *Session) IsAuthenticated() bool { return s.UserID() != 0 }

// Login binds the session to userID. The token is renewed on commit so that
// a token known before login cannot be used afterwards.
func (s *Session) Login(userID int64) {
	s.sm.Put(s.ctx, keyUserID, userID)
	s.renew = true
	s.destroy = false
}

// Forget drops the authenticated user without destroying the session.
func (s *Session) Forget() {
	s.sm.Remove(s.ctx, keyUserID)
}

// Destroy discards all state; the stored copy and the cookie are removed on commit.
func (s *Session) Destroy() {
	for _, k := range s.sm.Keys(s.ctx) {
		s.sm.Remove(s.ctx, k)
	}
	s.destroy = true
	s.renew = false
}

// PendingOTP returns the outstanding code, if any.
func (s *Session) PendingOTP() (PendingOTP, bool) {
	p, ok := s.sm.Get(s.ctx, keyOTP).(PendingOTP)
	return p, ok
}

// SetPendingOTP stores p, replacing any previous code.
func (s *Session) SetPendingOTP(p PendingOTP) {
	s.sm.Put(s.ctx, keyOTP, p)
}

// ClearPendingOTP removes the outstanding code.
func (s *Session) ClearPendingOTP() {
	s.sm.Remove(s.ctx, keyOTP)
}

// SetVerifiedIdentifier records that the client proved control of identifier
// by answering a code sent to it.
func (s *Session) SetVerifiedIdentifier(identifier string) {
	s.sm.Put(s.ctx, keyVerified, identifier)
}

// VerifiedIdentifier returns the last identifier proven on this session.
func (s *Session) VerifiedIdentifier() string {
	return s.sm.GetString(s.ctx, keyVerified)
}

// AddFlash queues a message for the client.
func (s *Session) AddFlash(level, msg string) {
	flashes, _ := s.sm.Get(s.ctx, keyFlashes).([]Flash)
	s.sm.Put(s.ctx, keyFlashes, append(flashes, Flash{Level: level, Message: msg}))
}

// PopFlashes returns and clears queued messages.
func (s *Session) PopFlashes() []Flash {
	flashes, _ := s.sm.Pop(s.ctx, keyFlashes).([]Flash)
	if len(flashes) == 0 {
		return nil
	}
	return flashes
}

type ctxKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session attached by the router, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}
