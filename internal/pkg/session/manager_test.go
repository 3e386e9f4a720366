package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWith(cookie *http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		r.AddCookie(cookie)
	}
	return r
}

func commit(t *testing.T, m *Manager, s *Session) *http.Cookie {
	t.Helper()

	w := httptest.NewRecorder()
	require.NoError(t, m.Commit(w, s))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestManagerRoundTrip(t *testing.T) {
	m := NewManager(memstore.NewWithCleanupInterval(0), Options{TTL: time.Hour})

	s, err := m.Load(requestWith(nil))
	require.NoError(t, err)
	assert.Empty(t, s.ID())

	// untouched sessions are not persisted
	w := httptest.NewRecorder()
	require.NoError(t, m.Commit(w, s))
	assert.Empty(t, w.Result().Cookies())

	s.SetPendingOTP(PendingOTP{ID: "p1", CodeDigest: "x", Identifier: "09123456789"})
	c := commit(t, m, s)
	assert.Equal(t, "sessionid", c.Name)
	assert.NotEmpty(t, c.Value)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.InDelta(t, 3600, c.MaxAge, 2)

	again, err := m.Load(requestWith(c))
	require.NoError(t, err)
	assert.Equal(t, c.Value, again.ID())
	p, ok := again.PendingOTP()
	require.True(t, ok)
	assert.Equal(t, "x", p.CodeDigest)
}

func TestManagerLoginRenewsToken(t *testing.T) {
	m := NewManager(memstore.NewWithCleanupInterval(0), Options{})

	s, err := m.Load(requestWith(nil))
	require.NoError(t, err)
	s.AddFlash("info", "hello")
	before := commit(t, m, s)

	s, err = m.Load(requestWith(before))
	require.NoError(t, err)
	s.Login(9)
	after := commit(t, m, s)
	assert.NotEqual(t, before.Value, after.Value)

	stale, err := m.Load(requestWith(before))
	require.NoError(t, err)
	assert.False(t, stale.IsAuthenticated())
	assert.Nil(t, stale.PopFlashes(), "the pre-login token no longer resolves")

	fresh, err := m.Load(requestWith(after))
	require.NoError(t, err)
	assert.Equal(t, int64(9), fresh.UserID())
	assert.Equal(t, []Flash{{Level: "info", Message: "hello"}}, fresh.PopFlashes())
}

func TestManagerDestroy(t *testing.T) {
	m := NewManager(memstore.NewWithCleanupInterval(0), Options{})

	s, err := m.Load(requestWith(nil))
	require.NoError(t, err)
	s.Login(3)
	live := commit(t, m, s)

	s, err = m.Load(requestWith(live))
	require.NoError(t, err)
	require.True(t, s.IsAuthenticated())

	s.Destroy()
	c := commit(t, m, s)
	assert.Empty(t, c.Value)
	assert.Negative(t, c.MaxAge)

	gone, err := m.Load(requestWith(live))
	require.NoError(t, err)
	assert.False(t, gone.IsAuthenticated())
}

func TestManagerUnknownCookie(t *testing.T) {
	m := NewManager(memstore.NewWithCleanupInterval(0), Options{})

	s, err := m.Load(requestWith(&http.Cookie{Name: "sessionid", Value: "forged"}))
	require.NoError(t, err)
	assert.Empty(t, s.ID())
	assert.False(t, s.IsAuthenticated())
}
