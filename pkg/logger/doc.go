// Package logger builds the *slog.Logger used across onboardkit.
//
// New applies functional options (format, level, output, static attributes,
// context extractors) and wraps the resulting handler in LogHandlerDecorator,
// which pulls request-scoped attributes out of the context on every record.
// Environment presets pick JSON/info for staging and production and text/debug
// for development.
//
// Attribute helpers in attr.go keep key names consistent between the renderer,
// the CRM and the HTTP API:
//
//	log := logger.New(logger.WithEnvironment("production", "onboard"))
//	log.InfoContext(ctx, "email rendered",
//		logger.Tier("gold"),
//		logger.Language("fr"),
//		logger.CustomerID(id),
//	)
package logger
