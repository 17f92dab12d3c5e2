// Package oauth implements the OAuth provider adapters (Google, Facebook,
// Reddit) behind one capability interface, plus a registry keyed by
// provider name.
package oauth

import (
	"context"
	"net/http"
	"time"
)

// httpClientTimeout bounds every outbound call to a provider.
const httpClientTimeout = 30 * time.Second

// Profile is the normalized identity a provider returns. Email is
// optional: Reddit never exposes one, and callers must branch on it.
type Profile struct {
	ID       string
	Email    string
	Name     string
	Picture  string
	Username string
}

// Token is the result of a code exchange.
type Token struct {
	AccessToken  string
	TokenType    string
	ExpiresIn    int64
	RefreshToken string
}

// Provider is the uniform capability set every OAuth adapter implements.
type Provider interface {
	// Name returns the provider's registry key.
	Name() string

	// AuthorizationURL builds the provider's consent URL embedding the
	// client ID, fixed scope, callback URL, and CSRF state.
	AuthorizationURL(state string) string

	// ExchangeCode trades an authorization code for an access token.
	ExchangeCode(ctx context.Context, code string) (*Token, error)

	// FetchProfile retrieves the provider-side identity for the token.
	FetchProfile(ctx context.Context, accessToken string) (*Profile, error)

	// Configured reports whether client ID and secret are both present.
	Configured() bool
}

// Registry maps provider names to adapter instances.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	m := make(map[string]Provider, len(providers))
	for _, p := range providers {
		m[p.Name()] = p
	}
	return &Registry{providers: m}
}

// Get returns the named provider, or nil when unknown.
func (r *Registry) Get(name string) Provider {
	return r.providers[name]
}

// ConfiguredNames lists the providers that have credentials, in a stable
// order for the providers endpoint.
func (r *Registry) ConfiguredNames() []string {
	names := make([]string, 0, len(r.providers))
	for _, name := range []string{"google", "facebook", "reddit"} {
		if p, ok := r.providers[name]; ok && p.Configured() {
			names = append(names, name)
		}
	}
	return names
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: httpClientTimeout}
}
