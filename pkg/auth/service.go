package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/dmitrymomot/onboardkit/pkg/logger"
)

// TokenProvider yields a valid bearer token, refreshing when needed.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

// Service runs the authorization-code flow with PKCE.
type Service struct {
	cfg        Config
	oauth      *oauth2.Config
	states     StateStore
	tokens     TokenStore
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

type Option func(*Service)

func WithStateStore(s StateStore) Option {
	return func(svc *Service) { svc.states = s }
}

func WithTokenStore(s TokenStore) Option {
	return func(svc *Service) { svc.tokens = s }
}

// WithHTTPClient sets the client used for token requests.
func WithHTTPClient(c *http.Client) Option {
	return func(svc *Service) { svc.httpClient = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(svc *Service) {
		if l != nil {
			svc.logger = l
		}
	}
}

// NewService defaults to in-memory state and token stores.
func NewService(cfg Config, opts ...Option) *Service {
	if cfg.StateTTL <= 0 {
		cfg.StateTTL = 10 * time.Minute
	}
	s := &Service{
		cfg:    cfg,
		oauth:  cfg.oauth2Config(),
		logger: logger.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.states == nil {
		s.states = NewMemoryStateStore()
	}
	if s.tokens == nil {
		s.tokens = NewMemoryTokenStore()
	}
	return s
}

// AuthURL starts a sign-in for subject and returns the URL to open in a browser.
func (s *Service) AuthURL(ctx context.Context, subject string) (string, error) {
	if !s.cfg.Enabled() {
		return "", ErrNotConfigured
	}

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	pending := PendingAuth{Subject: subject, Verifier: verifier, Created: s.now().UTC()}
	if err := s.states.Save(ctx, state, pending, s.cfg.StateTTL); err != nil {
		return "", fmt.Errorf("failed to store state: %w", err)
	}

	return s.oauth.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier)), nil
}

// Callback completes the flow and returns the subject that started it.
func (s *Service) Callback(ctx context.Context, state, code string) (string, error) {
	if !s.cfg.Enabled() {
		return "", ErrNotConfigured
	}

	// One-time use: the state is gone after this call whatever happens next.
	pending, err := s.states.Consume(ctx, state)
	if err != nil {
		return "", err
	}
	if code == "" {
		return "", ErrInvalidCode
	}

	tok, err := s.oauth.Exchange(s.clientContext(ctx), code, oauth2.VerifierOption(pending.Verifier))
	if err != nil {
		s.logger.WarnContext(ctx, "authorization code exchange failed",
			logger.Component("auth"), logger.Error(err))
		return "", errors.Join(ErrInvalidCode, err)
	}
	if err := s.tokens.Save(ctx, pending.Subject, tok); err != nil {
		return "", fmt.Errorf("failed to save token: %w", err)
	}

	s.logger.InfoContext(ctx, "signed in", logger.Component("auth"), slog.String("subject", pending.Subject))
	return pending.Subject, nil
}

// SignOut forgets the subject's token.
func (s *Service) SignOut(ctx context.Context, subject string) error {
	return s.tokens.Delete(ctx, subject)
}

// SignedIn reports whether a token is stored for subject.
func (s *Service) SignedIn(ctx context.Context, subject string) bool {
	_, err := s.tokens.Load(ctx, subject)
	return err == nil
}

// Provider returns a TokenProvider bound to subject.
func (s *Service) Provider(subject string) TokenProvider {
	return &subjectProvider{svc: s, subject: subject}
}

func (s *Service) clientContext(ctx context.Context) context.Context {
	if s.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
}

type subjectProvider struct {
	svc     *Service
	subject string
	mu      sync.Mutex
}

func (p *subjectProvider) AccessToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tok, err := p.svc.tokens.Load(ctx, p.subject)
	if err != nil {
		return "", err
	}
	if tok.Valid() {
		return tok.AccessToken, nil
	}
	if tok.RefreshToken == "" {
		return "", fmt.Errorf("%w: token expired", ErrNoToken)
	}

	fresh, err := p.svc.oauth.TokenSource(p.svc.clientContext(ctx), tok).Token()
	if err != nil {
		return "", errors.Join(ErrRefreshFailed, err)
	}
	if err := p.svc.tokens.Save(ctx, p.subject, fresh); err != nil {
		return "", fmt.Errorf("failed to save refreshed token: %w", err)
	}

	p.svc.logger.DebugContext(ctx, "token refreshed", logger.Component("auth"), slog.String("subject", p.subject))
	return fresh.AccessToken, nil
}
