package ratelimiter

import (
	"net/http"
	"strconv"
)

// KeyFunc picks the bucket for a request. An empty key skips limiting.
type KeyFunc func(r *http.Request) string

// LimitedFunc answers a denied request. err is non-nil when the store failed.
type LimitedFunc func(w http.ResponseWriter, r *http.Request, res *Result, err error)

type middlewareConfig struct {
	onLimited LimitedFunc
}

type MiddlewareOption func(*middlewareConfig)

// WithLimitedHandler replaces the plain-text 429 and 500 responses.
func WithLimitedHandler(fn LimitedFunc) MiddlewareOption {
	return func(c *middlewareConfig) { c.onLimited = fn }
}

func defaultLimited(w http.ResponseWriter, _ *http.Request, _ *Result, err error) {
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
}

// Middleware takes one token per request and sets the X-RateLimit-* headers.
func Middleware(b *Bucket, key KeyFunc, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{onLimited: defaultLimited}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if k == "" {
				next.ServeHTTP(w, r)
				return
			}

			res, err := b.Allow(r.Context(), k)
			if err != nil {
				cfg.onLimited(w, r, nil, err)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, res.Remaining)))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed() {
				if secs := int(res.RetryAfter().Seconds()); secs > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(secs))
				}
				cfg.onLimited(w, r, res, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
