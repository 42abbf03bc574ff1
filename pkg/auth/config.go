package auth

import (
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

// Config is read from AUTH_* variables.
type Config struct {
	ClientID     string   `env:"AUTH_CLIENT_ID"`
	ClientSecret string   `env:"AUTH_CLIENT_SECRET"`
	TenantID     string   `env:"AUTH_TENANT_ID" envDefault:"common"`
	RedirectURL  string   `env:"AUTH_REDIRECT_URL" envDefault:"http://localhost:8080/v1/auth/callback"`
	Scopes       []string `env:"AUTH_SCOPES" envSeparator:"," envDefault:"openid,offline_access,User.Read"`
	// AuthURL and TokenURL override the Microsoft endpoints.
	AuthURL  string        `env:"AUTH_AUTH_URL"`
	TokenURL string        `env:"AUTH_TOKEN_URL"`
	StateTTL time.Duration `env:"AUTH_STATE_TTL" envDefault:"10m"`
}

// Enabled reports whether a client ID is configured.
func (c Config) Enabled() bool {
	return c.ClientID != ""
}

func (c Config) oauth2Config() *oauth2.Config {
	endpoint := microsoft.AzureADEndpoint(c.TenantID)
	if c.AuthURL != "" {
		endpoint.AuthURL = c.AuthURL
	}
	if c.TokenURL != "" {
		endpoint.TokenURL = c.TokenURL
	}
	// Public clients have no secret; send client_id in the body.
	if c.ClientSecret == "" {
		endpoint.AuthStyle = oauth2.AuthStyleInParams
	}
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURL,
		Scopes:       c.Scopes,
		Endpoint:     endpoint,
	}
}
