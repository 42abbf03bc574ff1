package redis

import "errors"

// Sentinels are joined with the underlying go-redis error.
var (
	ErrMissingURL = errors.New("redis: connection URL is not configured")
	ErrInvalidURL = errors.New("redis: invalid connection URL")
	ErrNotReady   = errors.New("redis: server not ready")
	ErrUnhealthy  = errors.New("redis: ping failed")
)
