package i18n

import (
	"context"
	"log/slog"
)

type localeContextKey struct{}

// SetLocale stores the request language in ctx.
func SetLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeContextKey{}, locale)
}

// GetLocale returns the language stored by SetLocale, or DefaultLanguage.
func GetLocale(ctx context.Context) string {
	if locale, _ := ctx.Value(localeContextKey{}).(string); locale != "" {
		return locale
	}
	return DefaultLanguage
}

// LoggerExtractor adds the request language as the "language" attribute.
// It matches logger.ContextExtractor.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		locale, _ := ctx.Value(localeContextKey{}).(string)
		if locale == "" {
			return slog.Attr{}, false
		}
		return slog.String("language", locale), true
	}
}
