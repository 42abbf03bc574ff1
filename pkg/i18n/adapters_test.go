package i18n_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/onboardkit/pkg/i18n"
)

func TestFSAdapter(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"locales/en.yaml":    {Data: []byte("en:\n  greeting: \"Dear {name},\"\n  nested:\n    key: value\n")},
		"locales/fr.yml":     {Data: []byte("fr:\n  greeting: \"Bonjour {name},\"\n")},
		"locales/de.json":    {Data: []byte(`{"de": {"greeting": "Hallo {name},"}}`)},
		"locales/README":     {Data: []byte("ignored")},
		"locales/sub/x.yaml": {Data: []byte("xx: {}")},
	}

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()
		data, err := i18n.NewFSAdapter(i18n.NewYAMLParser(), fsys, "locales").Load(context.Background())
		require.NoError(t, err)
		assert.Len(t, data, 2)
		assert.Equal(t, "Bonjour {name},", data["fr"]["greeting"])

		tr, err := i18n.NewTranslator(context.Background(), i18n.NewFSAdapter(i18n.NewYAMLParser(), fsys, "locales"))
		require.NoError(t, err)
		assert.Equal(t, "value", tr.Translate("fr", "nested.key", nil))
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		data, err := i18n.NewFSAdapter(i18n.NewJSONParser(), fsys, "locales").Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Hallo {name},", data["de"]["greeting"])
	})

	t.Run("no files", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.NewFSAdapter(i18n.NewYAMLParser(), fstest.MapFS{"a/readme.txt": {}}, "a").Load(context.Background())
		assert.ErrorIs(t, err, i18n.ErrNoTranslationsFound)
	})

	t.Run("missing dir", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.NewFSAdapter(i18n.NewYAMLParser(), fsys, "nope").Load(context.Background())
		assert.ErrorIs(t, err, i18n.ErrFailedToReadDirectory)
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := i18n.NewFSAdapter(i18n.NewYAMLParser(), fsys, "locales").Load(ctx)
		assert.ErrorIs(t, err, i18n.ErrLoadingCancelled)
	})
}

func TestFileAndDirectoryAdapters(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.yaml"), []byte("en:\n  a: one\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "more.yaml"), []byte("en:\n  b: two\n"), 0o600))

	data, err := i18n.NewFileAdapter(i18n.NewYAMLParser(), filepath.Join(dir, "en.yaml")).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "one"}, data["en"])

	data, err = i18n.NewDirectoryAdapter(i18n.NewYAMLParser(), dir).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "one", "b": "two"}, data["en"])

	_, err = i18n.NewFileAdapter(i18n.NewYAMLParser(), filepath.Join(dir, "missing.yaml")).Load(context.Background())
	assert.ErrorIs(t, err, i18n.ErrFailedToReadFile)
}

func TestParsers(t *testing.T) {
	t.Parallel()

	_, err := i18n.NewYAMLParser().Parse(context.Background(), []byte("en: just a string"))
	assert.ErrorIs(t, err, i18n.ErrInvalidStructure)

	_, err = i18n.NewYAMLParser().Parse(context.Background(), []byte("en: [unclosed"))
	assert.ErrorIs(t, err, i18n.ErrFailedToParseYAML)

	_, err = i18n.NewJSONParser().Parse(context.Background(), []byte("{"))
	assert.ErrorIs(t, err, i18n.ErrFailedToParseJSON)

	assert.IsType(t, &i18n.YAMLParser{}, i18n.NewParserForFile("en.yml"))
	assert.IsType(t, &i18n.JSONParser{}, i18n.NewParserForFile("EN.JSON"))
	assert.Nil(t, i18n.NewParserForFile("en.toml"))
}
