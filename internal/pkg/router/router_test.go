package router

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2/memstore"
	"github.com/shandysiswandi/gocharity/internal/pkg/goerror"
	"github.com/shandysiswandi/gocharity/internal/pkg/instrument"
	"github.com/shandysiswandi/gocharity/internal/pkg/session"
	"github.com/shandysiswandi/gocharity/internal/pkg/uid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type created struct {
	ID int64 `json:"id"`
}

func (created) Message() string { return "created" }
func (created) StatusCode() int { return http.StatusCreated }

func newTestRouter() *Router {
	return NewRouter(Config{
		UUID:       uid.NewUUID(),
		Instrument: instrument.NewNoop(),
		Sessions:   session.NewManager(memstore.NewWithCleanupInterval(0), session.Options{}),
	})
}

func serve(r *Router, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestEnvelope(t *testing.T) {
	r := newTestRouter()
	r.POST("/ok", func(*Request) (any, error) { return created{ID: 1}, nil })
	r.GET("/fail", func(*Request) (any, error) {
		return nil, goerror.NewInvalidInput(nil, "phone", "phone is required")
	})
	r.GET("/boom", func(*Request) (any, error) { return nil, errors.New("raw") })
	r.GET("/panic", func(*Request) (any, error) { panic("oops") })

	w := serve(r, httptest.NewRequest(http.MethodPost, "/ok", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message":"created","data":{"id":1}}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(HeaderCorrelationID))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"message":"Validation error","error":{"phone":"phone is required"}}`, w.Body.String())

	w = serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionCommitAndRequireLogin(t *testing.T) {
	r := newTestRouter()
	r.POST("/login", func(req *Request) (any, error) {
		req.Session().Login(77)
		return map[string]bool{"ok": true}, nil
	})
	r.GET("/me", func(req *Request) (any, error) {
		return map[string]int64{"user_id": req.Session().UserID()}, nil
	}, RequireLogin)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodPost, "/login", nil))
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(cookies[0])
	w = serve(r, req)
	require.Equal(t, http.StatusOK, w.Code)

	var env struct {
		Data map[string]int64 `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, int64(77), env.Data["user_id"])
}

func TestDecodeBody(t *testing.T) {
	var dst struct {
		Phone string `json:"phone"`
	}

	req := &Request{Request: httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"phone":"09123456789"}`))}
	require.NoError(t, req.DecodeBody(&dst))
	assert.Equal(t, "09123456789", dst.Phone)

	for _, body := range []string{`{"phone":1}`, `{"unknown":true}`, `{"phone":"a"}{}`, ``} {
		req := &Request{Request: httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))}
		assert.Error(t, req.DecodeBody(&dst), body)
	}
}

func TestMultipartHelpers(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("first_name", " Sara "))
	require.NoError(t, mw.WriteField("abilities", "medical,cooking"))
	require.NoError(t, mw.WriteField("abilities", "driving"))
	fw, err := mw.CreateFormFile("profile_pic", "me.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("\x89PNG\r\n\x1a\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	httpReq := httptest.NewRequest(http.MethodPost, "/", &buf)
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	req := &Request{Request: httpReq}

	require.NoError(t, req.ParseMultipart(1<<20))
	assert.Equal(t, "Sara", req.FormString("first_name"))
	assert.Equal(t, []string{"medical", "cooking", "driving"}, req.FormStrings("abilities"))

	fh, err := req.FormFile("profile_pic")
	require.NoError(t, err)
	require.NotNil(t, fh)
	assert.Equal(t, "me.png", fh.Filename)

	fh, err = req.FormFile("other")
	require.NoError(t, err)
	assert.Nil(t, fh)

	plain := &Request{Request: httptest.NewRequest(http.MethodPost, "/", strings.NewReader("x"))}
	assert.Error(t, plain.ParseMultipart(1<<20))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	assert.Equal(t, "10.0.0.1", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientIP(req))

	req.Header.Set("X-Real-IP", "not-an-ip")
	assert.Equal(t, "203.0.113.9", clientIP(req))
}
