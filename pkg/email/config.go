package email

import (
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/onboardkit/pkg/file"
)

// Driver names accepted by Config.Driver.
const (
	DriverPostmark = "postmark"
	DriverSMTP     = "smtp"
	DriverDev      = "dev"
)

// Config holds email service configuration.
// Postmark tokens and SMTP settings are only required by their drivers, so
// development environments run without credentials.
type Config struct {
	Driver               string `env:"EMAIL_DRIVER" envDefault:"dev"`
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL" envDefault:"onboarding@localhost"`
	SupportEmail         string `env:"SUPPORT_EMAIL" envDefault:"support@localhost"`
	SMTP                 SMTPConfig
}

// SMTPConfig configures SMTPSender.
type SMTPConfig struct {
	Host               string `env:"SMTP_HOST" envDefault:"localhost"`
	Port               int    `env:"SMTP_PORT" envDefault:"587"`
	Username           string `env:"SMTP_USERNAME"`
	Password           string `env:"SMTP_PASSWORD"`
	TLSMode            string `env:"SMTP_TLS_MODE" envDefault:"auto"` // "auto" | "starttls" | "ssl" | "none"
	InsecureSkipVerify bool   `env:"SMTP_INSECURE_SKIP_VERIFY" envDefault:"false"`
}

type options struct {
	logger     *slog.Logger
	devStorage file.Storage
}

// Option configures New.
type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithDevStorage sets where DevSender writes messages.
func WithDevStorage(s file.Storage) Option {
	return func(o *options) { o.devStorage = s }
}

// New returns the Sender selected by cfg.Driver.
func New(cfg Config, opts ...Option) (Sender, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	switch cfg.Driver {
	case DriverPostmark:
		c, err := NewPostmarkClient(cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	case DriverSMTP:
		s, err := NewSMTPSender(cfg, SMTPWithLogger(o.logger))
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverDev, "":
		if o.devStorage == nil {
			return nil, fmt.Errorf("%w: dev driver requires storage", ErrInvalidConfig)
		}
		return NewDevSender(o.devStorage), nil
	default:
		return nil, fmt.Errorf("%w: unknown driver %q", ErrInvalidConfig, cfg.Driver)
	}
}

func validateIdentity(cfg Config) error {
	if cfg.SenderEmail == "" {
		return fmt.Errorf("%w: SenderEmail is required", ErrInvalidConfig)
	}
	if !validAddress(cfg.SenderEmail) {
		return fmt.Errorf("%w: SenderEmail must be a valid email address", ErrInvalidConfig)
	}
	if cfg.SupportEmail != "" && !validAddress(cfg.SupportEmail) {
		return fmt.Errorf("%w: SupportEmail must be a valid email address", ErrInvalidConfig)
	}
	return nil
}
