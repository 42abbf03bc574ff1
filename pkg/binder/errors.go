package binder

import "errors"

// Body errors.
var (
	ErrMissingContentType   = errors.New("binder: missing content type")
	ErrUnsupportedMediaType = errors.New("binder: unsupported media type")
	ErrFailedToParseJSON    = errors.New("binder: malformed JSON body")
	ErrRequestTooLarge      = errors.New("binder: request body too large")
)

// Parameter errors.
var (
	ErrFailedToParseQuery = errors.New("binder: invalid query parameter")
	ErrFailedToParsePath  = errors.New("binder: invalid path parameter")
)
