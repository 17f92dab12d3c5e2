package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"

	"github.com/eridehero/eridehero/internal/shared/config"
)

const (
	facebookAuthURL    = "https://www.facebook.com/v18.0/dialog/oauth"
	facebookTokenURL   = "https://graph.facebook.com/v18.0/oauth/access_token"
	facebookProfileURL = "https://graph.facebook.com/v18.0/me"
)

type FacebookProvider struct {
	config *oauth2.Config
}

type facebookUserInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

func NewFacebookProvider(cfg config.OAuthProviderConfig) *FacebookProvider {
	return &FacebookProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"email", "public_profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   facebookAuthURL,
				TokenURL:  facebookTokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
	}
}

func (p *FacebookProvider) Name() string {
	return "facebook"
}

func (p *FacebookProvider) Configured() bool {
	return p.config.ClientID != "" && p.config.ClientSecret != ""
}

func (p *FacebookProvider) AuthorizationURL(state string) string {
	return p.config.AuthCodeURL(state)
}

func (p *FacebookProvider) ExchangeCode(ctx context.Context, code string) (*Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, newHTTPClient())

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	return &Token{
		AccessToken:  token.AccessToken,
		TokenType:    token.TokenType,
		ExpiresIn:    int64(token.ExpiresIn),
		RefreshToken: token.RefreshToken,
	}, nil
}

func (p *FacebookProvider) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	params := url.Values{}
	params.Set("fields", "id,name,email,picture.width(200)")
	params.Set("access_token", accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, facebookProfileURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := newHTTPClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to get user info: status %d, body: %s", resp.StatusCode, string(body))
	}

	var info facebookUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	if info.ID == "" {
		return nil, fmt.Errorf("user info response missing id")
	}

	return &Profile{
		ID:      info.ID,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture.Data.URL,
	}, nil
}
