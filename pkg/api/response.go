package api

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
)

// Response renders itself to the client.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Envelope is the body of every JSON response.
type Envelope struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail describes a failed request. Details maps field names to
// messages for validation errors.
type ErrorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

type jsonResponse struct {
	status  int
	body    Envelope
	headers http.Header
}

func (j jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	for k, v := range j.headers {
		w.Header()[k] = v
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

type JSONOption func(*jsonResponse)

func WithStatus(status int) JSONOption {
	return func(r *jsonResponse) { r.status = status }
}

func WithMeta(meta map[string]any) JSONOption {
	return func(r *jsonResponse) { r.body.Meta = meta }
}

// WithETag sets a strong ETag header.
func WithETag(etag string) JSONOption {
	return func(r *jsonResponse) {
		if etag != "" {
			r.headers.Set("ETag", quoteETag(etag))
		}
	}
}

func WithHeader(key, value string) JSONOption {
	return func(r *jsonResponse) { r.headers.Set(key, value) }
}

// JSON wraps data in the envelope with status 200.
func JSON(data any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK, body: Envelope{Data: data}, headers: http.Header{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// JSONError renders err with the status errorToDetail picks.
func JSONError(err error) Response {
	status, detail := errorToDetail(err)
	return &jsonResponse{status: status, body: Envelope{Error: detail}, headers: http.Header{}}
}

type contentResponse struct {
	contentType string
	body        string
	filename    string
}

func (c contentResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", c.contentType)
	if c.filename != "" {
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": c.filename}))
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, err := fmt.Fprint(w, c.body)
	return err
}

func HTML(body string) Response {
	return contentResponse{contentType: "text/html; charset=utf-8", body: body}
}

func Text(body string) Response {
	return contentResponse{contentType: "text/plain; charset=utf-8", body: body}
}

// Attachment serves body as a download named filename.
func Attachment(body, contentType, filename string) Response {
	return contentResponse{contentType: contentType, body: body, filename: filename}
}

type statusResponse int

func (s statusResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.WriteHeader(int(s))
	return nil
}

// NoContent answers 204.
func NoContent() Response { return statusResponse(http.StatusNoContent) }

type redirectResponse struct {
	url  string
	code int
}

func (rr redirectResponse) Render(w http.ResponseWriter, r *http.Request) error {
	http.Redirect(w, r, rr.url, rr.code)
	return nil
}

// Redirect answers 302 Found.
func Redirect(url string) Response { return redirectResponse{url: url, code: http.StatusFound} }
