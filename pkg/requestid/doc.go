// Package requestid tags each HTTP request with a correlation ID. A valid
// incoming X-Request-ID is reused, anything else is replaced with a UUID. The
// ID is echoed in the response and exposed to slog through LoggerExtractor.
package requestid
