package binder

import (
	"net/http"
)

// Path binds `path:"name"` fields using extractor, typically chi.URLParam.
func Path(extractor func(r *http.Request, key string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		lookup := func(name string) []string {
			if value := extractor(r, name); value != "" {
				return []string{value}
			}
			return nil
		}
		return bindToStruct(v, "path", lookup, ErrFailedToParsePath)
	}
}

// Query binds `query:"name"` fields from the URL query.
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		q := r.URL.Query()
		return bindToStruct(v, "query", func(name string) []string { return q[name] }, ErrFailedToParseQuery)
	}
}
