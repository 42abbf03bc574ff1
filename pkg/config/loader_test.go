package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/onboardkit/pkg/config"
)

type renderConfig struct {
	DefaultLanguage string        `env:"DEFAULT_LANGUAGE" envDefault:"en"`
	Languages       []string      `env:"LANGUAGES" envSeparator:"," envDefault:"en,fr,de"`
	Timeout         time.Duration `env:"TIMEOUT" envDefault:"5s"`
}

type requiredConfig struct {
	Token string `env:"TICKETS_TOKEN,required"`
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := config.Load[renderConfig](config.WithEnvironment(map[string]string{}))
		require.NoError(t, err)
		assert.Equal(t, "en", cfg.DefaultLanguage)
		assert.Equal(t, []string{"en", "fr", "de"}, cfg.Languages)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
	})

	t.Run("prefix", func(t *testing.T) {
		cfg, err := config.Load[renderConfig](
			config.WithPrefix("ONBOARD_"),
			config.WithEnvironment(map[string]string{
				"ONBOARD_DEFAULT_LANGUAGE": "fr",
				"DEFAULT_LANGUAGE":         "de",
			}),
		)
		require.NoError(t, err)
		assert.Equal(t, "fr", cfg.DefaultLanguage)
	})

	t.Run("required missing", func(t *testing.T) {
		_, err := config.Load[requiredConfig](config.WithEnvironment(map[string]string{}))
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("process environment", func(t *testing.T) {
		t.Setenv("TICKETS_TOKEN", "secret")
		cfg, err := config.Load[requiredConfig]()
		require.NoError(t, err)
		assert.Equal(t, "secret", cfg.Token)
	})
}

func TestMustLoad(t *testing.T) {
	assert.Panics(t, func() {
		config.MustLoad[requiredConfig](config.WithEnvironment(map[string]string{}))
	})
	assert.NotPanics(t, func() {
		config.MustLoad[requiredConfig](config.WithEnvironment(map[string]string{"TICKETS_TOKEN": "x"}))
	})
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env.test")
	require.NoError(t, os.WriteFile(path, []byte("ONBOARDKIT_TEST_LANG=de\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("ONBOARDKIT_TEST_LANG") })

	require.NoError(t, config.LoadEnv(path))
	assert.Equal(t, "de", os.Getenv("ONBOARDKIT_TEST_LANG"))

	err := config.LoadEnv(filepath.Join(dir, "missing.env"))
	assert.ErrorIs(t, err, config.ErrLoadingEnvFile)

	assert.NoError(t, config.LoadEnv())
}
