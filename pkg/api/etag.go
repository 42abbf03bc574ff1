package api

import (
	"net/http"
	"strings"
)

func quoteETag(etag string) string {
	if strings.HasPrefix(etag, `"`) || strings.HasPrefix(etag, `W/"`) {
		return etag
	}
	return `"` + etag + `"`
}

// parseETag strips quotes and the weak prefix from a header value.
func parseETag(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "W/")
	return strings.Trim(v, `"`)
}

// ifMatch returns the unquoted If-Match value. "*" counts as absent.
func ifMatch(r *http.Request) string {
	v := parseETag(r.Header.Get("If-Match"))
	if v == "*" {
		return ""
	}
	return v
}

// notModified reports whether If-None-Match lists etag.
func notModified(r *http.Request, etag string) bool {
	header := r.Header.Get("If-None-Match")
	if header == "" || etag == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		if c := parseETag(candidate); c == etag || c == "*" {
			return true
		}
	}
	return false
}
