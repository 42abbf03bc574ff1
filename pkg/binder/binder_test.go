package binder_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/onboardkit/pkg/binder"
)

type payload struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func jsonRequest(body, contentType string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	return r
}

func TestJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		contentType string
		max         int64
		target      error
	}{
		{"ok", `{"name":"Acme","items":["a"]}`, "application/json", 0, nil},
		{"charset", `{"name":"Acme"}`, "application/json; charset=utf-8", 0, nil},
		{"missing content type", `{}`, "", 0, binder.ErrMissingContentType},
		{"wrong media type", `name=Acme`, "application/x-www-form-urlencoded", 0, binder.ErrUnsupportedMediaType},
		{"empty", "  ", "application/json", 0, binder.ErrFailedToParseJSON},
		{"unknown field", `{"nope":1}`, "application/json", 0, binder.ErrFailedToParseJSON},
		{"wrong type", `{"name":1}`, "application/json", 0, binder.ErrFailedToParseJSON},
		{"trailing data", `{"name":"a"}{"name":"b"}`, "application/json", 0, binder.ErrFailedToParseJSON},
		{"too large", `{"name":"0123456789"}`, "application/json", 8, binder.ErrRequestTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var p payload
			err := binder.JSON(tt.max)(jsonRequest(tt.body, tt.contentType), &p)
			if tt.target == nil {
				require.NoError(t, err)
				assert.Equal(t, "Acme", p.Name)
				return
			}
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

type params struct {
	ID       string   `path:"id"`
	Format   string   `query:"format"`
	Limit    int      `query:"limit"`
	Download bool     `query:"download"`
	Tags     []string `query:"tag"`
	Lang     *string  `query:"lang"`
	Ignored  string
}

func TestPathAndQuery(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/?format=html&limit=5&download=yes&tag=a,b&tag=c&lang=fr", nil)
	extract := func(_ *http.Request, key string) string {
		if key == "id" {
			return "c-1"
		}
		return ""
	}

	p := params{Ignored: "kept"}
	require.NoError(t, binder.Path(extract)(r, &p))
	require.NoError(t, binder.Query()(r, &p))

	assert.Equal(t, "c-1", p.ID)
	assert.Equal(t, "html", p.Format)
	assert.Equal(t, 5, p.Limit)
	assert.True(t, p.Download)
	assert.Equal(t, []string{"a", "b", "c"}, p.Tags)
	require.NotNil(t, p.Lang)
	assert.Equal(t, "fr", *p.Lang)
	assert.Equal(t, "kept", p.Ignored)
}

func TestQueryErrors(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/?limit=many", nil)
	var p params
	assert.ErrorIs(t, binder.Query()(r, &p), binder.ErrFailedToParseQuery)

	assert.ErrorIs(t, binder.Query()(r, p), binder.ErrFailedToParseQuery)

	var notStruct string
	assert.ErrorIs(t, binder.Query()(r, &notStruct), binder.ErrFailedToParseQuery)
}

type pagePath struct {
	ID string `path:"id"`
}

type embedded struct {
	pagePath
	Lang string `query:"lang"`
}

func TestEmbeddedStruct(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/?lang=de", nil)
	extract := func(_ *http.Request, key string) string { return "id-" + key }

	var e embedded
	require.NoError(t, binder.Path(extract)(r, &e))
	require.NoError(t, binder.Query()(r, &e))
	assert.Equal(t, "id-id", e.ID)
	assert.Equal(t, "de", e.Lang)
}
