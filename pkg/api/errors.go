package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrymomot/onboardkit/pkg/auth"
	"github.com/dmitrymomot/onboardkit/pkg/binder"
	"github.com/dmitrymomot/onboardkit/pkg/crm"
	"github.com/dmitrymomot/onboardkit/pkg/email"
	"github.com/dmitrymomot/onboardkit/pkg/export"
	"github.com/dmitrymomot/onboardkit/pkg/file"
	"github.com/dmitrymomot/onboardkit/pkg/tickets"
	"github.com/dmitrymomot/onboardkit/pkg/tier"
	"github.com/dmitrymomot/onboardkit/pkg/validator"
)

var (
	ErrNotFound             = errors.New("resource not found")
	ErrPreconditionRequired = errors.New("If-Match header is required")
	ErrFeatureDisabled      = errors.New("feature is not configured")
	ErrInvalidRequest       = errors.New("invalid request")
	ErrMethodNotAllowed     = errors.New("method not allowed")
	ErrRateLimited          = errors.New("too many requests")
)

// errorMapping pairs a sentinel with its HTTP status and error code. The
// first match wins, so more specific errors come first.
var errorMapping = []struct {
	target error
	status int
	code   string
}{
	{tier.ErrUnknownTier, http.StatusUnprocessableEntity, "unknown_tier"},
	{binder.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType, "unsupported_media_type"},
	{binder.ErrMissingContentType, http.StatusUnsupportedMediaType, "unsupported_media_type"},
	{binder.ErrRequestTooLarge, http.StatusRequestEntityTooLarge, "request_too_large"},
	{binder.ErrFailedToParseJSON, http.StatusBadRequest, "invalid_json"},
	{binder.ErrFailedToParseQuery, http.StatusBadRequest, "invalid_query"},
	{binder.ErrFailedToParsePath, http.StatusBadRequest, "invalid_path"},
	{ErrInvalidRequest, http.StatusBadRequest, "invalid_request"},
	{ErrNotFound, http.StatusNotFound, "not_found"},
	{ErrMethodNotAllowed, http.StatusMethodNotAllowed, "method_not_allowed"},
	{ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
	{ErrPreconditionRequired, http.StatusPreconditionRequired, "precondition_required"},
	{ErrFeatureDisabled, http.StatusNotImplemented, "not_configured"},
	{crm.ErrCustomerNotFound, http.StatusNotFound, "customer_not_found"},
	{crm.ErrConflict, http.StatusPreconditionFailed, "conflict"},
	{crm.ErrInvalidCustomer, http.StatusBadRequest, "invalid_customer"},
	{file.ErrPreconditionFailed, http.StatusPreconditionFailed, "conflict"},
	{export.ErrNotConfigured, http.StatusNotImplemented, "not_configured"},
	{export.ErrClipboardWrite, http.StatusServiceUnavailable, "clipboard_failed"},
	{email.ErrInvalidParams, http.StatusBadRequest, "invalid_email"},
	{email.ErrFailedToSendEmail, http.StatusBadGateway, "send_failed"},
	{auth.ErrNotConfigured, http.StatusNotImplemented, "not_configured"},
	{auth.ErrInvalidState, http.StatusBadRequest, "invalid_state"},
	{auth.ErrInvalidCode, http.StatusBadRequest, "invalid_code"},
	{tickets.ErrUnauthorized, http.StatusUnauthorized, "sign_in_required"},
	{auth.ErrNoToken, http.StatusUnauthorized, "sign_in_required"},
	{tickets.ErrNotFound, http.StatusNotFound, "ticket_not_found"},
	{tickets.ErrInvalidTicket, http.StatusBadRequest, "invalid_ticket"},
	{tickets.ErrSeverityNotCovered, http.StatusUnprocessableEntity, "severity_not_covered"},
	{tickets.ErrQuotaExceeded, http.StatusUnprocessableEntity, "quota_exceeded"},
	{tickets.ErrRequestFailed, http.StatusBadGateway, "ticket_service_failed"},
}

// errorToDetail picks the status and client-facing detail for err. Unknown
// errors become a generic 500 so internals do not leak.
func errorToDetail(err error) (int, *ErrorDetail) {
	if ve := validator.ExtractValidationErrors(err); ve != nil {
		details := make(map[string][]string)
		for _, e := range ve {
			details[e.Field] = append(details[e.Field], e.Message)
		}
		return http.StatusBadRequest, &ErrorDetail{
			Code:    "validation_failed",
			Message: "validation failed: " + strings.Join(ve.Fields(), ", "),
			Details: details,
		}
	}

	for _, m := range errorMapping {
		if errors.Is(err, m.target) {
			return m.status, &ErrorDetail{Code: m.code, Message: err.Error()}
		}
	}

	return http.StatusInternalServerError, &ErrorDetail{
		Code:    "internal_error",
		Message: http.StatusText(http.StatusInternalServerError),
	}
}
