package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"

	"github.com/go-mail/mail"

	"github.com/dmitrymomot/onboardkit/pkg/logger"
)

// smtpDialer is satisfied by *mail.Dialer.
type smtpDialer interface {
	DialAndSend(m ...*mail.Message) error
}

// SMTPSender sends multipart/alternative messages over SMTP.
type SMTPSender struct {
	dialer smtpDialer
	from   string
	reply  string
	logger *slog.Logger
}

// SMTPOption configures SMTPSender.
type SMTPOption func(*SMTPSender)

func SMTPWithLogger(l *slog.Logger) SMTPOption {
	return func(s *SMTPSender) {
		if l != nil {
			s.logger = l
		}
	}
}

// SMTPWithDialer replaces the network dialer. Used in tests.
func SMTPWithDialer(d smtpDialer) SMTPOption {
	return func(s *SMTPSender) { s.dialer = d }
}

// NewSMTPSender builds a sender from cfg.SMTP. TLSMode "ssl" uses implicit
// TLS; "auto" and "starttls" let the dialer negotiate STARTTLS.
func NewSMTPSender(cfg Config, opts ...SMTPOption) (*SMTPSender, error) {
	if cfg.SMTP.Host == "" || cfg.SMTP.Port <= 0 {
		return nil, fmt.Errorf("%w: SMTP host and port are required", ErrInvalidConfig)
	}
	if err := validateIdentity(cfg); err != nil {
		return nil, err
	}

	d := mail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
	d.TLSConfig = &tls.Config{
		ServerName:         cfg.SMTP.Host,
		InsecureSkipVerify: cfg.SMTP.InsecureSkipVerify,
	}
	switch cfg.SMTP.TLSMode {
	case "ssl":
		d.SSL = true
	case "none":
		d.StartTLSPolicy = mail.NoStartTLS
	case "", "auto", "starttls":
	default:
		return nil, fmt.Errorf("%w: unknown SMTP TLS mode %q", ErrInvalidConfig, cfg.SMTP.TLSMode)
	}

	s := &SMTPSender{
		dialer: d,
		from:   cfg.SenderEmail,
		reply:  cfg.SupportEmail,
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Send implements Sender. The plain-text part comes first so clients that
// pick the last alternative they support show the HTML.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := s.build(msg)
	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.ErrorContext(ctx, "smtp send failed",
			logger.Component("email.smtp"),
			slog.Any("to", msg.To),
			logger.Error(err),
		)
		return fmt.Errorf("%w: smtp send: %v", ErrFailedToSendEmail, err)
	}

	s.logger.InfoContext(ctx, "smtp send ok", logger.Component("email.smtp"), slog.Any("to", msg.To))
	return nil
}

func (s *SMTPSender) build(msg Message) *mail.Message {
	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	if s.reply != "" {
		m.SetHeader("Reply-To", s.reply)
	}
	m.SetHeader("To", msg.To...)
	if len(msg.Cc) > 0 {
		m.SetHeader("Cc", msg.Cc...)
	}
	m.SetHeader("Subject", msg.Subject)
	if msg.Tag != "" {
		m.SetHeader("X-Tag", msg.Tag)
	}

	switch {
	case msg.Text != "" && msg.HTML != "":
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	case msg.Text != "":
		m.SetBody("text/plain", msg.Text)
	default:
		m.SetBody("text/html", msg.HTML)
	}
	return m
}
