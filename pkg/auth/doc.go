// Package auth signs an operator in to the Microsoft identity platform with
// the OAuth 2.0 authorization-code flow and PKCE, and hands out access tokens
// for the ticket service.
//
// The package never sees a password. The operator authenticates in a browser
// against Microsoft Entra ID; the service only keeps the resulting token per
// subject (the operator name configured for the deployment).
//
// # Architecture
//
// Service ties together three pieces:
//   - an oauth2.Config built from Config, pointing at the Azure AD endpoint
//     for Config.TenantID ("common" by default) unless AuthURL and TokenURL
//     override it
//   - a StateStore holding pending sign-ins between AuthURL and Callback
//   - a TokenStore holding the token of each signed-in subject
//
// Both stores default to in-memory implementations. Production deployments
// keep tokens in file storage and, when running more than one replica,
// pending state in Redis.
//
// # Flow
//
// The flow has two halves. AuthURL creates a random state and a PKCE
// verifier, keeps both in the StateStore for Config.StateTTL and returns the
// authorization URL carrying the S256 challenge. Callback consumes the state
// (one use only, even when the exchange later fails), exchanges the code
// together with the verifier and saves the token for the subject that
// started the flow.
//
//	svc := auth.NewService(cfg,
//		auth.WithStateStore(auth.NewMemoryStateStore()),
//		auth.WithTokenStore(auth.NewStorageTokenStore(store)),
//		auth.WithLogger(log),
//	)
//
//	url, err := svc.AuthURL(ctx, "operator")
//	if err != nil {
//		return err
//	}
//	// redirect the browser to url; the provider calls back with state and code
//
//	subject, err := svc.Callback(ctx, r.URL.Query().Get("state"), r.URL.Query().Get("code"))
//	if errors.Is(err, auth.ErrInvalidState) {
//		// expired, replayed or forged state
//	}
//
// SignedIn reports whether a token is stored for a subject and SignOut
// forgets it.
//
// # Tokens
//
// Provider returns a TokenProvider bound to a subject. AccessToken loads the
// stored token and returns it while valid. An expired token is refreshed
// through its refresh token and written back to the TokenStore; calls on the
// same provider are serialized so concurrent requests refresh once.
//
//	client, err := tickets.NewClient(ticketsCfg, svc.Provider("operator"))
//
// Token stores:
//   - MemoryTokenStore: process memory, lost on restart
//   - StorageTokenStore: JSON documents under TokensPrefix in a
//     file.Storage, so local disk or S3
//
// State stores:
//   - MemoryStateStore: go-cache with per-entry TTL, single process
//   - RedisStateStore: SET with TTL and GETDEL on consume, shared between
//     replicas; keys are prefixed with the configured prefix and
//     "oauth_state:"
//
// # Configuration
//
// Config loads with pkg/config from AUTH_* variables:
//
//	AUTH_CLIENT_ID        application (client) ID; empty disables the feature
//	AUTH_CLIENT_SECRET    empty for public clients, which send client_id in the body
//	AUTH_TENANT_ID        directory tenant, default "common"
//	AUTH_REDIRECT_URL     default http://localhost:8080/v1/auth/callback
//	AUTH_SCOPES           comma-separated, default openid,offline_access,User.Read
//	AUTH_AUTH_URL, AUTH_TOKEN_URL  endpoint overrides, mostly for tests
//	AUTH_STATE_TTL        lifetime of a pending sign-in, default 10m
//
// WithHTTPClient replaces the client used for token requests.
//
// # Error Handling
//
// Errors are sentinels matched with errors.Is:
//   - ErrNotConfigured: no client ID; the HTTP layer answers 501
//   - ErrInvalidState: unknown, expired or already used state
//   - ErrInvalidCode: missing code or a failed exchange (joined with the
//     provider error)
//   - ErrNoToken: the subject never signed in, or the token expired without
//     a refresh token
//   - ErrRefreshFailed: the refresh request failed (joined with the cause)
package auth
