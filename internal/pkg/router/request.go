package router

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/gocharity/internal/pkg/goerror"
	"github.com/shandysiswandi/gocharity/internal/pkg/session"
)

// Request wraps http.Request with helpers for inbound handlers.
type Request struct {
	*http.Request
}

// Session returns the session loaded for this request, or a detached empty one
// when the router runs without a session manager.
func (r *Request) Session() *session.Session {
	if s := session.FromContext(r.Context()); s != nil {
		return s
	}
	return session.New()
}

func (r *Request) GetParam(key string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(key)
}

func (r *Request) GetQuery(key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// DecodeBody decodes a single JSON document into dst, rejecting unknown fields.
func (r *Request) DecodeBody(dst any) error {
	if r == nil || r.Body == nil {
		return goerror.NewInvalidFormat()
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return goerror.NewInvalidFormat()
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return goerror.NewInvalidFormat()
	}
	return nil
}

// ParseMultipart parses a multipart/form-data body of at most maxBytes,
// keeping up to maxBytes in memory before spilling files to disk.
func (r *Request) ParseMultipart(maxBytes int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return goerror.NewInvalidFormat("Invalid request content-type")
	}

	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return goerror.NewInvalidFormat("request body is too large")
		}
		return goerror.NewInvalidFormat()
	}
	return nil
}

// FormString returns the trimmed value of a parsed form field.
func (r *Request) FormString(key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

// FormStrings returns every value of a parsed form field, splitting comma
// separated entries so both "a&a" and "a,b" styles are accepted.
func (r *Request) FormStrings(key string) []string {
	if r.MultipartForm == nil && r.PostForm == nil {
		return nil
	}

	var out []string
	for _, v := range r.Form[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// FormFile returns the uploaded file for key, or nil when none was sent.
func (r *Request) FormFile(key string) (*multipart.FileHeader, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	files := r.MultipartForm.File[key]
	if len(files) == 0 {
		return nil, nil
	}
	return files[0], nil
}
