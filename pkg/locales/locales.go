// Package locales embeds the onboarding message tables for English, French
// and German and builds an i18n.Translator over them.
package locales

import (
	"context"
	"embed"

	"github.com/dmitrymomot/onboardkit/pkg/i18n"
)

//go:embed *.yaml
var files embed.FS

// Languages lists the embedded languages. English is the fallback.
var Languages = []string{"en", "fr", "de"}

// New returns a translator over the embedded tables with English as the
// default language.
func New(ctx context.Context, opts ...i18n.Option) (*i18n.Translator, error) {
	opts = append([]i18n.Option{i18n.WithDefaultLanguage(i18n.DefaultLanguage)}, opts...)
	return i18n.NewTranslator(ctx, i18n.NewFSAdapter(i18n.NewYAMLParser(), files, "."), opts...)
}

// MustNew is New for program start-up; it panics on error.
func MustNew(ctx context.Context, opts ...i18n.Option) *i18n.Translator {
	tr, err := New(ctx, opts...)
	if err != nil {
		panic(err)
	}
	return tr
}
