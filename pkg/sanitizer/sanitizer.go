package sanitizer

import (
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

var (
	spaceRun     = regexp.MustCompile(`\s+`)
	unsafeInName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
)

// Apply runs transforms left to right.
func Apply(value string, transforms ...func(string) string) string {
	for _, fn := range transforms {
		value = fn(value)
	}
	return value
}

func Trim(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SingleLine collapses every whitespace run, newlines included, to one space.
// Header-bound values (subject, recipients) go through it.
func SingleLine(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// StripControl removes control characters except newline and tab.
func StripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// NormalizeNewlines converts CRLF and CR to LF.
func NormalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// SanitizeFilename keeps the base name and replaces unsafe characters with
// underscores. An empty result becomes "file".
func SanitizeFilename(s string) string {
	s = filepath.Base(strings.ReplaceAll(s, "\\", "/"))
	s = unsafeInName.ReplaceAllString(s, "_")
	s = strings.Trim(s, "._")
	if s == "" {
		return "file"
	}
	return s
}

// SplitList splits a comma or semicolon separated list, trimming items and
// dropping empty ones.
func SplitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// HTTPURL returns the trimmed value when it is an absolute http or https
// URL and "" otherwise.
func HTTPURL(s string) string {
	s = strings.TrimSpace(s)
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	return s
}
