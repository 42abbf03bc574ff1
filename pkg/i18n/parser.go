package i18n

import (
	"context"
	"path/filepath"
	"strings"
)

// Parser decodes one translation file. The result is keyed by language code
// at the top level.
type Parser interface {
	Parse(ctx context.Context, content []byte) (map[string]map[string]any, error)
	// SupportsFileExtension accepts the extension with or without the dot.
	SupportsFileExtension(ext string) bool
}

// NewParserForFile picks a parser from the file extension, or nil.
func NewParserForFile(filename string) Parser {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "json":
		return NewJSONParser()
	case "yaml", "yml":
		return NewYAMLParser()
	default:
		return nil
	}
}

func splitLanguages(data map[string]any) (map[string]map[string]any, error) {
	result := make(map[string]map[string]any, len(data))
	for lang, val := range data {
		table, ok := val.(map[string]any)
		if !ok {
			return nil, &structureError{lang: lang, got: val}
		}
		result[lang] = table
	}
	return result, nil
}
