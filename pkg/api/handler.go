package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/onboardkit/pkg/logger"
)

// Bind decodes part of a request into v.
type Bind func(r *http.Request, v any) error

// HandlerFunc handles a request whose input was bound into R.
type HandlerFunc[R any] func(r *http.Request, req R) Response

// wrap converts a typed handler into an http.HandlerFunc. Binders run in
// order; a binding error or a failed render is answered by writeError.
func wrap[R any](log *slog.Logger, h HandlerFunc[R], binders ...Bind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req R
		for _, bind := range binders {
			if err := bind(r, &req); err != nil {
				writeError(log, w, r, err)
				return
			}
		}

		resp := h(r, req)
		switch e := resp.(type) {
		case nil:
			writeError(log, w, r, errors.New("handler returned nil response"))
			return
		case errResponse:
			writeError(log, w, r, e.err)
			return
		}
		if err := resp.Render(w, r); err != nil {
			// Headers are likely sent already; log only.
			log.ErrorContext(r.Context(), "response render failed",
				logger.Component("api"), logger.Error(err))
		}
	}
}

// errorResponse lets a handler return an error as its Response.
func errorResponse(err error) Response {
	return errResponse{err: err}
}

type errResponse struct{ err error }

func (e errResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return JSONError(e.err).Render(w, r)
}

func writeError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	status, _ := errorToDetail(err)
	level := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	log.Log(r.Context(), level, "request failed",
		logger.Component("api"),
		slog.Int("status", status),
		logger.Error(err),
	)
	_ = JSONError(err).Render(w, r)
}
