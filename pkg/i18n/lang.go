package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when no language is detected.
const DefaultLanguage = "en"

// Accept-Language headers beyond this length are truncated before parsing.
const maxAcceptLanguageLength = 4096

// NormalizeLanguage reduces a BCP 47 tag to its lowercase base language
// ("fr-CA" becomes "fr"). Invalid tags yield "".
func NormalizeLanguage(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" || len(tag) > 35 {
		return ""
	}
	t, err := language.Parse(tag)
	if err != nil {
		return ""
	}
	base, conf := t.Base()
	if conf == language.No {
		return ""
	}
	return base.String()
}

// ParseAcceptLanguage picks the best supported language for an
// Accept-Language header, honouring quality values. It returns defaultLang
// when nothing matches.
func ParseAcceptLanguage(header string, supported []string, defaultLang string) string {
	if header == "" || len(supported) == 0 {
		return defaultLang
	}
	if len(header) > maxAcceptLanguageLength {
		header = header[:maxAcceptLanguageLength]
	}

	desired, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(desired) == 0 {
		return defaultLang
	}

	tags := make([]language.Tag, 0, len(supported))
	codes := make([]string, 0, len(supported))
	for _, s := range supported {
		t, err := language.Parse(s)
		if err != nil {
			continue
		}
		tags = append(tags, t)
		codes = append(codes, strings.ToLower(s))
	}
	if len(tags) == 0 {
		return defaultLang
	}

	_, idx, conf := language.NewMatcher(tags).Match(desired...)
	if conf == language.No {
		return defaultLang
	}
	return codes[idx]
}

// preferredLanguage returns the base language of the highest weighted tag.
func preferredLanguage(header string) string {
	if len(header) > maxAcceptLanguageLength {
		header = header[:maxAcceptLanguageLength]
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}
	base, _ := tags[0].Base()
	return base.String()
}
