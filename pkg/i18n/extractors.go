package i18n

import (
	"net/http"
	"slices"
)

// LangExtractor returns the language requested by r, or "".
type LangExtractor func(r *http.Request) string

// ExtractorConfig holds the sources DefaultLangExtractor inspects.
type ExtractorConfig struct {
	CookieName     string
	QueryParamName string
	SupportedLangs []string
}

type ExtractorOption func(*ExtractorConfig)

func WithCookieName(name string) ExtractorOption {
	return func(c *ExtractorConfig) {
		if name != "" {
			c.CookieName = name
		}
	}
}

func WithQueryParamName(name string) ExtractorOption {
	return func(c *ExtractorConfig) {
		if name != "" {
			c.QueryParamName = name
		}
	}
}

func WithSupportedLanguages(langs ...string) ExtractorOption {
	return func(c *ExtractorConfig) {
		if len(langs) > 0 {
			c.SupportedLangs = langs
		}
	}
}

// DefaultLangExtractor checks, in order: the cookie, the query parameter,
// and the Accept-Language header. Explicit values are normalized to their
// base language and dropped when not supported.
func DefaultLangExtractor(opts ...ExtractorOption) LangExtractor {
	cfg := &ExtractorConfig{CookieName: "lang", QueryParamName: "lang"}
	for _, opt := range opts {
		opt(cfg)
	}

	accept := func(lang string) string {
		lang = NormalizeLanguage(lang)
		if lang == "" {
			return ""
		}
		if len(cfg.SupportedLangs) > 0 && !slices.Contains(cfg.SupportedLangs, lang) {
			return ""
		}
		return lang
	}

	return func(r *http.Request) string {
		if cfg.CookieName != "" {
			if c, err := r.Cookie(cfg.CookieName); err == nil {
				if lang := accept(c.Value); lang != "" {
					return lang
				}
			}
		}
		if cfg.QueryParamName != "" {
			if lang := accept(r.URL.Query().Get(cfg.QueryParamName)); lang != "" {
				return lang
			}
		}
		if header := r.Header.Get("Accept-Language"); header != "" {
			if len(cfg.SupportedLangs) > 0 {
				return ParseAcceptLanguage(header, cfg.SupportedLangs, "")
			}
			return preferredLanguage(header)
		}
		return ""
	}
}
