package tickets

import "errors"

var (
	ErrInvalidConfig      = errors.New("tickets: invalid configuration")
	ErrUnauthorized       = errors.New("tickets: not authorized, sign in again")
	ErrNotFound           = errors.New("tickets: ticket not found")
	ErrRequestFailed      = errors.New("tickets: request failed")
	ErrInvalidTicket      = errors.New("tickets: invalid ticket")
	ErrSeverityNotCovered = errors.New("tickets: severity not covered by support tier")
	ErrQuotaExceeded      = errors.New("tickets: support request quota exhausted")
)
