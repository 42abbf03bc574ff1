package auth_test

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/dmitrymomot/onboardkit/pkg/auth"
	"github.com/dmitrymomot/onboardkit/pkg/file"
)

// tokenServer is a fake token endpoint that checks the PKCE verifier against
// the challenge captured from the authorization URL.
type tokenServer struct {
	mu        sync.Mutex
	challenge string
	refreshes int
}

func (ts *tokenServer) setChallenge(c string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.challenge = c
}

func (ts *tokenServer) refreshCount() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.refreshes
}

func (ts *tokenServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var resp map[string]any
	switch r.PostForm.Get("grant_type") {
	case "authorization_code":
		sum := sha256.Sum256([]byte(r.PostForm.Get("code_verifier")))
		if r.PostForm.Get("code") != "good-code" ||
			base64.RawURLEncoding.EncodeToString(sum[:]) != ts.challenge {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		resp = map[string]any{
			"access_token":  "access-1",
			"token_type":    "Bearer",
			"refresh_token": "refresh-1",
			"expires_in":    3600,
		}
	case "refresh_token":
		if r.PostForm.Get("refresh_token") != "refresh-1" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		ts.refreshes++
		resp = map[string]any{
			"access_token": "access-2",
			"token_type":   "Bearer",
			"expires_in":   3600,
		}
	default:
		http.Error(w, "unsupported grant", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func newService(t *testing.T, opts ...auth.Option) (*auth.Service, *tokenServer) {
	t.Helper()
	ts := &tokenServer{}
	srv := httptest.NewServer(ts)
	t.Cleanup(srv.Close)

	cfg := auth.Config{
		ClientID:    "client-123",
		TenantID:    "contoso",
		RedirectURL: "http://localhost/callback",
		Scopes:      []string{"openid", "offline_access"},
		TokenURL:    srv.URL + "/token",
		StateTTL:    time.Minute,
	}
	opts = append([]auth.Option{auth.WithHTTPClient(srv.Client())}, opts...)
	return auth.NewService(cfg, opts...), ts
}

func parseAuthURL(t *testing.T, raw string) url.Values {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Query()
}

func TestService_AuthURL(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t)

	raw, err := svc.AuthURL(context.Background(), "operator")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "login.microsoftonline.com", u.Host)
	assert.Equal(t, "/contoso/oauth2/v2.0/authorize", u.Path)

	q := u.Query()
	assert.Equal(t, "client-123", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.NotEmpty(t, q.Get("code_challenge"))
	assert.NotEmpty(t, q.Get("state"))
	assert.Equal(t, "openid offline_access", q.Get("scope"))

	other, err := svc.AuthURL(context.Background(), "operator")
	require.NoError(t, err)
	assert.NotEqual(t, q.Get("state"), parseAuthURL(t, other).Get("state"))
}

func TestService_NotConfigured(t *testing.T) {
	t.Parallel()
	svc := auth.NewService(auth.Config{})

	_, err := svc.AuthURL(context.Background(), "operator")
	assert.ErrorIs(t, err, auth.ErrNotConfigured)

	_, err = svc.Callback(context.Background(), "state", "code")
	assert.ErrorIs(t, err, auth.ErrNotConfigured)
}

func TestService_Flow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, ts := newService(t)

	raw, err := svc.AuthURL(ctx, "operator")
	require.NoError(t, err)
	q := parseAuthURL(t, raw)
	ts.setChallenge(q.Get("code_challenge"))

	assert.False(t, svc.SignedIn(ctx, "operator"))

	subject, err := svc.Callback(ctx, q.Get("state"), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "operator", subject)
	assert.True(t, svc.SignedIn(ctx, "operator"))

	tok, err := svc.Provider("operator").AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-1", tok)

	// States are single use.
	_, err = svc.Callback(ctx, q.Get("state"), "good-code")
	assert.ErrorIs(t, err, auth.ErrInvalidState)

	require.NoError(t, svc.SignOut(ctx, "operator"))
	_, err = svc.Provider("operator").AccessToken(ctx)
	assert.ErrorIs(t, err, auth.ErrNoToken)
}

func TestService_CallbackErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, ts := newService(t)

	_, err := svc.Callback(ctx, "unknown-state", "good-code")
	assert.ErrorIs(t, err, auth.ErrInvalidState)

	raw, err := svc.AuthURL(ctx, "operator")
	require.NoError(t, err)
	q := parseAuthURL(t, raw)
	ts.setChallenge(q.Get("code_challenge"))

	_, err = svc.Callback(ctx, q.Get("state"), "bad-code")
	assert.ErrorIs(t, err, auth.ErrInvalidCode)
	assert.False(t, svc.SignedIn(ctx, "operator"))

	raw, err = svc.AuthURL(ctx, "operator")
	require.NoError(t, err)
	_, err = svc.Callback(ctx, parseAuthURL(t, raw).Get("state"), "")
	assert.ErrorIs(t, err, auth.ErrInvalidCode)
}

func TestService_WrongVerifier(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, ts := newService(t)

	first, err := svc.AuthURL(ctx, "operator")
	require.NoError(t, err)
	second, err := svc.AuthURL(ctx, "operator")
	require.NoError(t, err)

	// The server saw the second challenge; redeeming the first state sends the
	// first verifier and must fail.
	ts.setChallenge(parseAuthURL(t, second).Get("code_challenge"))
	_, err = svc.Callback(ctx, parseAuthURL(t, first).Get("state"), "good-code")
	assert.ErrorIs(t, err, auth.ErrInvalidCode)
}

func TestProvider_Refresh(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tokens := auth.NewMemoryTokenStore()
	svc, ts := newService(t, auth.WithTokenStore(tokens))

	require.NoError(t, tokens.Save(ctx, "operator", &oauth2.Token{
		AccessToken:  "stale",
		TokenType:    "Bearer",
		RefreshToken: "refresh-1",
		Expiry:       time.Now().Add(-time.Hour),
	}))

	p := svc.Provider("operator")
	tok, err := p.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-2", tok)

	// The refreshed token is persisted and reused.
	tok, err = p.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-2", tok)
	assert.Equal(t, 1, ts.refreshCount())

	saved, err := tokens.Load(ctx, "operator")
	require.NoError(t, err)
	assert.Equal(t, "refresh-1", saved.RefreshToken)
}

func TestProvider_ExpiredWithoutRefresh(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tokens := auth.NewMemoryTokenStore()
	svc, _ := newService(t, auth.WithTokenStore(tokens))

	require.NoError(t, tokens.Save(ctx, "operator", &oauth2.Token{
		AccessToken: "stale",
		Expiry:      time.Now().Add(-time.Hour),
	}))
	_, err := svc.Provider("operator").AccessToken(ctx)
	assert.ErrorIs(t, err, auth.ErrNoToken)

	require.NoError(t, tokens.Save(ctx, "operator", &oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "revoked",
		Expiry:       time.Now().Add(-time.Hour),
	}))
	_, err = svc.Provider("operator").AccessToken(ctx)
	assert.ErrorIs(t, err, auth.ErrRefreshFailed)
}

func TestMemoryStateStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := auth.NewMemoryStateStore()

	require.NoError(t, s.Save(ctx, "abc", auth.PendingAuth{Subject: "op", Verifier: "v"}, time.Minute))
	require.NoError(t, s.Save(ctx, "short", auth.PendingAuth{Subject: "op"}, time.Millisecond))

	p, err := s.Consume(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "v", p.Verifier)

	_, err = s.Consume(ctx, "abc")
	assert.ErrorIs(t, err, auth.ErrInvalidState)

	time.Sleep(5 * time.Millisecond)
	_, err = s.Consume(ctx, "short")
	assert.ErrorIs(t, err, auth.ErrInvalidState)
}

func TestMemoryStateStore_ConcurrentConsume(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := auth.NewMemoryStateStore()
	require.NoError(t, s.Save(ctx, "once", auth.PendingAuth{Subject: "op"}, time.Minute))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Consume(ctx, "once"); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, success)
}

func TestStorageTokenStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, err := file.NewLocalStorage(t.TempDir(), "/files")
	require.NoError(t, err)
	tokens := auth.NewStorageTokenStore(store)

	_, err = tokens.Load(ctx, "Operator")
	assert.ErrorIs(t, err, auth.ErrNoToken)

	require.NoError(t, tokens.Save(ctx, "Operator", &oauth2.Token{AccessToken: "a", RefreshToken: "r"}))

	objs, err := store.List(ctx, auth.TokensPrefix)
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, "tokens/operator.json", objs[0].Key)

	tok, err := tokens.Load(ctx, "operator")
	require.NoError(t, err)
	assert.Equal(t, "r", tok.RefreshToken)

	require.NoError(t, tokens.Delete(ctx, "operator"))
	require.NoError(t, tokens.Delete(ctx, "operator"))
	_, err = tokens.Load(ctx, "operator")
	assert.ErrorIs(t, err, auth.ErrNoToken)
}

func TestRedisStateStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_URL")
	if addr == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opts, err := goredis.ParseURL(addr)
	require.NoError(t, err)
	client := goredis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	s := auth.NewRedisStateStore(client, "test:")
	require.NoError(t, s.Save(ctx, "abc", auth.PendingAuth{Subject: "op", Verifier: "v"}, time.Minute))

	p, err := s.Consume(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "op", p.Subject)

	_, err = s.Consume(ctx, "abc")
	assert.ErrorIs(t, err, auth.ErrInvalidState)
}
