package auth

import "errors"

var (
	ErrInvalidState  = errors.New("oauth: invalid or expired state")
	ErrInvalidCode   = errors.New("oauth: invalid authorization code")
	ErrNoToken       = errors.New("oauth: no token, sign in first")
	ErrNotConfigured = errors.New("oauth: client is not configured")
	ErrRefreshFailed = errors.New("oauth: token refresh failed")
)
