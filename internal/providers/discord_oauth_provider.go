package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andrevaleby/santamaria-backend/internal/constants"
	"github.com/andrevaleby/santamaria-backend/internal/discord"
)

const (
	defaultDiscordAPIBaseURL   = "https://discord.com/api"
	defaultDiscordAuthorizeURL = "https://discord.com/oauth2/authorize"
)

// DiscordOAuthProvider implements the authorization-code leg of Discord
// OAuth2 plus the profile and guild lookups made with the resulting
// access token.
type DiscordOAuthProvider struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	// Overridable for tests
	BaseURL      string
	AuthorizeURL string

	Client *http.Client
}

// NewDiscordOAuthProvider creates a new Discord OAuth provider
func NewDiscordOAuthProvider(clientID, clientSecret, redirectURI string) *DiscordOAuthProvider {
	return &DiscordOAuthProvider{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURI:  redirectURI,
		BaseURL:      defaultDiscordAPIBaseURL,
		AuthorizeURL: defaultDiscordAuthorizeURL,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// LoginURL builds the authorization redirect carrying the CSRF state
func (p *DiscordOAuthProvider) LoginURL(state string) string {
	params := url.Values{
		"client_id":     {p.ClientID},
		"response_type": {"code"},
		"redirect_uri":  {p.RedirectURI},
		"scope":         {"identify guilds"},
		"state":         {state},
	}
	return p.AuthorizeURL + "?" + params.Encode()
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error"`
}

// Guild is one entry of the user's guild list
type Guild struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ExchangeCode trades an authorization code for an access token
func (p *DiscordOAuthProvider) ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{
		"client_id":     {p.ClientID},
		"client_secret": {p.ClientSecret},
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {p.RedirectURI},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to create token request",
			Err:     err,
		}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to read token response",
			Err:     err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ProviderError{
			Code:    constants.ErrCodeOAuthExchange,
			Message: fmt.Sprintf("Token exchange failed with status %d", resp.StatusCode),
			Details: string(bodyBytes),
		}
	}

	var token tokenResponse
	if err := json.Unmarshal(bodyBytes, &token); err != nil {
		return "", &ProviderError{
			Code:    constants.ErrCodeBadResponse,
			Message: "Failed to decode token response",
			Details: string(bodyBytes),
			Err:     err,
		}
	}

	if token.Error != "" || token.AccessToken == "" {
		return "", &ProviderError{
			Code:    constants.ErrCodeOAuthExchange,
			Message: constants.GetErrorMessage(constants.ErrCodeOAuthExchange),
			Details: string(bodyBytes),
		}
	}

	return token.AccessToken, nil
}

// FetchUser loads the authenticated user's profile
func (p *DiscordOAuthProvider) FetchUser(ctx context.Context, accessToken string) (*discord.User, error) {
	var user discord.User
	if err := p.doBearerGET(ctx, "/users/@me", accessToken, &user); err != nil {
		return nil, err
	}

	if user.ID == "" {
		return nil, &ProviderError{
			Code:    constants.ErrCodeBadResponse,
			Message: "Discord profile response had no user id",
		}
	}
	return &user, nil
}

// FetchGuilds loads the authenticated user's guild memberships
func (p *DiscordOAuthProvider) FetchGuilds(ctx context.Context, accessToken string) ([]Guild, error) {
	var guilds []Guild
	if err := p.doBearerGET(ctx, "/users/@me/guilds", accessToken, &guilds); err != nil {
		return nil, err
	}
	return guilds, nil
}

// doBearerGET performs a GET with a user access token
func (p *DiscordOAuthProvider) doBearerGET(ctx context.Context, endpoint, accessToken string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+endpoint, nil)
	if err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to create request",
			Err:     err,
		}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.Client.Do(req)
	if err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to read response body",
			Err:     err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ProviderError{
			Code:    constants.ErrCodeBadResponse,
			Message: fmt.Sprintf("Discord returned status %d for %s", resp.StatusCode, endpoint),
			Details: string(bodyBytes),
		}
	}

	if err := json.Unmarshal(bodyBytes, result); err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeBadResponse,
			Message: "Failed to decode response",
			Details: string(bodyBytes),
			Err:     err,
		}
	}
	return nil
}
