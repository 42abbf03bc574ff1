package i18n

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// SupportTypeKey is resolved per tier; see Translate.
const SupportTypeKey = "supportType"

// Replacements maps placeholder names to values.
type Replacements map[string]any

// Translator resolves keys against per-language tables.
// It is safe for concurrent use.
type Translator struct {
	mu           sync.RWMutex
	translations map[string]map[string]any
	defaultLang  string
	logMissing   bool
	logger       *slog.Logger
}

// NewTranslator loads translations through adapter.
func NewTranslator(ctx context.Context, adapter TranslationAdapter, opts ...Option) (*Translator, error) {
	if adapter == nil {
		return nil, ErrNilAdapter
	}

	t := &Translator{
		defaultLang: DefaultLanguage,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}

	translations, err := adapter.Load(ctx)
	if err != nil {
		return nil, err
	}
	for lang, table := range translations {
		if lang == "" || table == nil {
			return nil, fmt.Errorf("%w: empty language code or nil table for %q", ErrInvalidStructure, lang)
		}
	}

	t.translations = make(map[string]map[string]any, len(translations))
	for lang, table := range translations {
		t.translations[strings.ToLower(lang)] = table
	}

	t.logger.DebugContext(ctx, "translations loaded", "languages", t.supportedLanguages())
	return t, nil
}

// Translate resolves key for lang and applies repl.
//
// Resolution order is lang, then the default language, then key itself.
// For SupportTypeKey with a non-empty "tier" replacement the lookup tries
// supportType.<tier> and then supportType.other, each through the same
// language chain.
func (t *Translator) Translate(lang, key string, repl Replacements) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	lang = strings.ToLower(lang)

	if key == SupportTypeKey {
		if tier := fmt.Sprint(repl["tier"]); repl["tier"] != nil && tier != "" {
			for _, k := range []string{key + "." + tier, key + ".other"} {
				if s, ok := t.resolve(lang, k); ok {
					return substitute(s, repl)
				}
			}
		}
	}

	if s, ok := t.resolve(lang, key); ok {
		return substitute(s, repl)
	}

	if t.logMissing {
		t.logger.Warn("translation not found", "lang", lang, "key", key)
	}
	return key
}

// T is Translate with replacements passed as name, value pairs.
// A trailing name without value is ignored.
//
//	tr.T("en", "tier.header", "tier", "Gold")
func (t *Translator) T(lang, key string, kv ...any) string {
	return t.Translate(lang, key, pairs(kv))
}

// Tc translates using the language stored in ctx by Middleware.
func (t *Translator) Tc(ctx context.Context, key string, kv ...any) string {
	return t.T(GetLocale(ctx), key, kv...)
}

// HasTranslation reports whether lang itself defines key, without fallback.
func (t *Translator) HasTranslation(lang, key string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	table, ok := t.translations[strings.ToLower(lang)]
	if !ok {
		return false
	}
	_, ok = lookupString(table, key)
	return ok
}

// Supports reports whether lang has a table.
func (t *Translator) Supports(lang string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.translations[strings.ToLower(lang)]
	return ok
}

// DefaultLanguage returns the fallback language.
func (t *Translator) DefaultLanguage() string {
	return t.defaultLang
}

// SupportedLanguages returns the loaded language codes, sorted.
func (t *Translator) SupportedLanguages() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.supportedLanguages()
}

// ExportJSON returns the raw table of lang as JSON.
func (t *Translator) ExportJSON(lang string) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	table, ok := t.translations[strings.ToLower(lang)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrLanguageNotSupported, lang)
	}
	b, err := json.Marshal(normalize(table))
	if err != nil {
		return "", errors.Join(ErrFailedToMarshalJSON, err)
	}
	return string(b), nil
}

func (t *Translator) supportedLanguages() []string {
	langs := make([]string, 0, len(t.translations))
	for lang := range t.translations {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

func (t *Translator) resolve(lang, key string) (string, bool) {
	if table, ok := t.translations[lang]; ok {
		if s, ok := lookupString(table, key); ok {
			return s, true
		}
	}
	if lang == t.defaultLang {
		return "", false
	}
	if table, ok := t.translations[t.defaultLang]; ok {
		return lookupString(table, key)
	}
	return "", false
}

// lookupString walks dot-separated key parts through nested maps.
// Only string leaves count as found.
func lookupString(m map[string]any, key string) (string, bool) {
	parts := strings.Split(key, ".")
	var current any = m
	for _, part := range parts {
		switch node := current.(type) {
		case map[string]any:
			v, ok := node[part]
			if !ok {
				return "", false
			}
			current = v
		case map[any]any:
			v, ok := node[part]
			if !ok {
				return "", false
			}
			current = v
		default:
			return "", false
		}
	}
	s, ok := current.(string)
	return s, ok
}

var placeholderRegex = regexp.MustCompile(`\{([A-Za-z0-9_.-]+)\}`)

func substitute(tmpl string, repl Replacements) string {
	if len(repl) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	return placeholderRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		v, ok := repl[match[1:len(match)-1]]
		if !ok {
			return match
		}
		// A nil value is an absent optional field and renders empty.
		if v == nil {
			return ""
		}
		return fmt.Sprint(v)
	})
}

func pairs(kv []any) Replacements {
	if len(kv) < 2 {
		return nil
	}
	repl := make(Replacements, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		repl[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return repl
}

// normalize converts map[any]any nodes so tables marshal to JSON.
func normalize(v any) any {
	switch node := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(node))
		for k, child := range node {
			out[k] = normalize(child)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(node))
		for k, child := range node {
			out[fmt.Sprint(k)] = normalize(child)
		}
		return out
	default:
		return v
	}
}
