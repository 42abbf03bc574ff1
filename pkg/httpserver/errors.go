package httpserver

import "errors"

var (
	// ErrStart wraps listen and serve failures, including a second Run.
	ErrStart = errors.New("httpserver: start failed")
	// ErrShutdown wraps errors from graceful shutdown.
	ErrShutdown = errors.New("httpserver: shutdown failed")
)
