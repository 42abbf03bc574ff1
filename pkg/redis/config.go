package redis

import "time"

// Config is read from REDIS_* variables. An empty ConnectionURL means Redis
// is not used and callers fall back to in-process stores.
type Config struct {
	// ConnectionURL has the form redis://:password@localhost:6379/0.
	ConnectionURL string `env:"REDIS_URL"`
	// KeyPrefix is prepended to every key this module writes.
	KeyPrefix      string        `env:"REDIS_KEY_PREFIX" envDefault:"onboard:"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"10s"`
}

// Enabled reports whether a connection URL is configured.
func (c Config) Enabled() bool {
	return c.ConnectionURL != ""
}
