package tickets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrymomot/onboardkit/pkg/auth"
	"github.com/dmitrymomot/onboardkit/pkg/logger"
)

// Config is read from TICKETS_* variables.
type Config struct {
	BaseURL string        `env:"TICKETS_BASE_URL"`
	Timeout time.Duration `env:"TICKETS_TIMEOUT" envDefault:"15s"`
}

// Filter narrows List. Empty fields are ignored.
type Filter struct {
	CustomerID string
	TenantID   string
	Status     Status
	Since      time.Time
}

// Client talks to the ticket service over HTTPS with bearer tokens.
type Client struct {
	baseURL *url.URL
	tokens  auth.TokenProvider
	http    *http.Client
	logger  *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}

func NewClient(cfg Config, tokens auth.TokenProvider, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	u, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/") + "/")
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: base URL must be an absolute http(s) URL", ErrInvalidConfig)
	}
	if tokens == nil {
		return nil, fmt.Errorf("%w: token provider is required", ErrInvalidConfig)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := &Client{
		baseURL: u,
		tokens:  tokens,
		http:    &http.Client{Timeout: timeout},
		logger:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// List returns tickets matching f, newest first as the service orders them.
func (c *Client) List(ctx context.Context, f Filter) ([]Ticket, error) {
	q := url.Values{}
	if f.CustomerID != "" {
		q.Set("customerId", f.CustomerID)
	}
	if f.TenantID != "" {
		q.Set("tenantId", f.TenantID)
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if !f.Since.IsZero() {
		q.Set("since", f.Since.UTC().Format(time.RFC3339))
	}

	var out struct {
		Tickets []Ticket `json:"tickets"`
	}
	if err := c.do(ctx, http.MethodGet, "tickets", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Tickets, nil
}

func (c *Client) Get(ctx context.Context, id string) (*Ticket, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	var t Ticket
	if err := c.do(ctx, http.MethodGet, "tickets/"+url.PathEscape(id), nil, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create opens a ticket. Callers check the tier Allowance first.
func (c *Client) Create(ctx context.Context, n NewTicket) (*Ticket, error) {
	if err := n.validate(); err != nil {
		return nil, err
	}
	var t Ticket
	if err := c.do(ctx, http.MethodPost, "tickets", nil, n, &t); err != nil {
		return nil, err
	}
	c.logger.InfoContext(ctx, "ticket created",
		logger.Component("tickets"),
		logger.CustomerID(n.CustomerID),
		slog.String("ticket_id", t.ID),
		slog.String("severity", n.Severity),
	)
	return &t, nil
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body, out any) error {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		if errors.Is(err, auth.ErrNoToken) || errors.Is(err, auth.ErrRefreshFailed) {
			return errors.Join(ErrUnauthorized, err)
		}
		return err
	}

	u := c.baseURL.JoinPath(path)
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}

	var r io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		r = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), r)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		// 64KB is plenty for an error body.
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		text := strings.ReplaceAll(strings.TrimSpace(string(msg)), "\n", " ")
		if len(text) > 200 {
			text = text[:200] + "..."
		}
		return fmt.Errorf("%w: %s %s returned %d: %s", ErrRequestFailed, method, path, resp.StatusCode, text)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrRequestFailed, err)
	}
	return nil
}
