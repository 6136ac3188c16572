package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/andrevaleby/santamaria-backend/internal/auth"
	"github.com/andrevaleby/santamaria-backend/internal/config"
	"github.com/andrevaleby/santamaria-backend/internal/discord"
	"github.com/andrevaleby/santamaria-backend/internal/middleware"
	"github.com/andrevaleby/santamaria-backend/internal/models/dtos"
	"github.com/andrevaleby/santamaria-backend/internal/providers"
	"github.com/andrevaleby/santamaria-backend/internal/services"
)

// Mock OAuthAPI
type mockOAuthAPI struct {
	loginURLFunc     func(state string) string
	exchangeCodeFunc func(ctx context.Context, code string) (string, error)
	fetchUserFunc    func(ctx context.Context, accessToken string) (*discord.User, error)
}

func (m *mockOAuthAPI) LoginURL(state string) string {
	if m.loginURLFunc == nil {
		return "https://discord.com/oauth2/authorize?state=" + url.QueryEscape(state)
	}
	return m.loginURLFunc(state)
}

func (m *mockOAuthAPI) ExchangeCode(ctx context.Context, code string) (string, error) {
	return m.exchangeCodeFunc(ctx, code)
}

func (m *mockOAuthAPI) FetchUser(ctx context.Context, accessToken string) (*discord.User, error) {
	return m.fetchUserFunc(ctx, accessToken)
}

type mockGuildLister struct {
	guilds []providers.Guild
}

func (m *mockGuildLister) FetchGuilds(ctx context.Context, accessToken string) ([]providers.Guild, error) {
	return m.guilds, nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "test-secret",
		SessionTTLMin: 60,
		GuildID:       "999999999999999999",
		FrontendURL:   "https://portal.example",
	}
}

func newLoginDeps(t *testing.T, oauth *mockOAuthAPI) *Dependencies {
	db := setupTestDB(t)
	deps := newTestDeps(t, db, &mockChannelAPI{})

	issuer := auth.NewSessionIssuer("test-secret", time.Hour)
	deps.Services.Issuer = issuer
	deps.Services.Login = services.NewLoginService(
		oauth,
		services.NewMembershipService(&mockGuildLister{guilds: []providers.Guild{{ID: "999999999999999999"}}}),
		deps.Repo.User,
		issuer,
		deps.Services.Audit,
		"999999999999999999",
		nil,
	)
	return deps
}

func findCookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestStartDiscordLoginHandler(t *testing.T) {
	deps := newLoginDeps(t, &mockOAuthAPI{})
	handler := StartDiscordLoginHandler(deps)

	req := httptest.NewRequest("GET", "/api/auth/discord", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusFound {
		t.Fatalf("Expected 302, got %d", rr.Code)
	}

	state := findCookie(rr, "oauth_state")
	if state == nil || state.Value == "" {
		t.Fatal("Expected the state cookie to be set")
	}
	if !state.HttpOnly || !state.Secure {
		t.Error("Expected the state cookie to be HttpOnly and Secure")
	}

	location := rr.Header().Get("Location")
	if !strings.Contains(location, url.QueryEscape(state.Value)) {
		t.Errorf("Expected the redirect to carry the state cookie value, got %s", location)
	}
}

func TestDiscordCallbackHandler_Success(t *testing.T) {
	avatar := "abc123"
	oauth := &mockOAuthAPI{
		exchangeCodeFunc: func(ctx context.Context, code string) (string, error) {
			return "access-token", nil
		},
		fetchUserFunc: func(ctx context.Context, accessToken string) (*discord.User, error) {
			return &discord.User{ID: "123456789012345678", Username: "andre", Avatar: &avatar}, nil
		},
	}
	deps := newLoginDeps(t, oauth)
	handler := DiscordCallbackHandler(deps, testConfig())

	req := httptest.NewRequest("GET", "/api/auth/discord/callback?code=auth-code&state=state-value", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "state-value"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusFound {
		t.Fatalf("Expected 302, got %d: %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Location"); got != "https://portal.example/suaconta.html" {
		t.Errorf("Unexpected redirect target %s", got)
	}

	session := findCookie(rr, middleware.SessionCookieName)
	if session == nil || session.Value == "" {
		t.Fatal("Expected the session cookie to be set")
	}
	if !session.HttpOnly || !session.Secure || session.SameSite != http.SameSiteNoneMode {
		t.Error("Expected an HttpOnly, Secure, SameSite=None session cookie")
	}

	issuer := auth.NewSessionIssuer("test-secret", time.Hour)
	identity, err := issuer.Verify(session.Value)
	if err != nil {
		t.Fatalf("Session cookie did not verify: %v", err)
	}
	if identity.DiscordID != "123456789012345678" || !identity.IsMember {
		t.Errorf("Unexpected identity in cookie: %+v", identity)
	}

	state := findCookie(rr, "oauth_state")
	if state == nil || state.MaxAge != -1 {
		t.Error("Expected the state cookie to be cleared")
	}
}

func TestDiscordCallbackHandler_StateMismatch(t *testing.T) {
	deps := newLoginDeps(t, &mockOAuthAPI{
		exchangeCodeFunc: func(ctx context.Context, code string) (string, error) {
			t.Error("No exchange may happen on a state mismatch")
			return "", nil
		},
	})
	handler := DiscordCallbackHandler(deps, testConfig())

	req := httptest.NewRequest("GET", "/api/auth/discord/callback?code=auth-code&state=forged", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "state-value"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a state mismatch, got %d", rr.Code)
	}
}

func TestDiscordCallbackHandler_MissingStateCookie(t *testing.T) {
	deps := newLoginDeps(t, &mockOAuthAPI{
		exchangeCodeFunc: func(ctx context.Context, code string) (string, error) {
			t.Error("No exchange may happen without a state cookie")
			return "", nil
		},
	})
	handler := DiscordCallbackHandler(deps, testConfig())

	req := httptest.NewRequest("GET", "/api/auth/discord/callback?code=auth-code&state=state-value", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without the state cookie, got %d", rr.Code)
	}
}

func TestDiscordCallbackHandler_ExchangeFailure(t *testing.T) {
	deps := newLoginDeps(t, &mockOAuthAPI{
		exchangeCodeFunc: func(ctx context.Context, code string) (string, error) {
			return "", &providers.ProviderError{Code: "OAUTH_EXCHANGE_FAILED", Message: "rejected"}
		},
	})
	handler := DiscordCallbackHandler(deps, testConfig())

	req := httptest.NewRequest("GET", "/api/auth/discord/callback?code=stale&state=state-value", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "state-value"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Errorf("Expected 502 for an upstream failure, got %d", rr.Code)
	}
}

func TestMeHandler(t *testing.T) {
	handler := MeHandler()

	req := httptest.NewRequest("GET", "/api/me", nil)
	identity := auth.Identity{DiscordID: "123456789012345678", Username: "andre", IsMember: true}
	req = req.WithContext(auth.SetIdentity(req.Context(), identity))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var response dtos.APIResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Status != "success" {
		t.Errorf("Expected status success, got %s", response.Status)
	}
}

func TestMeHandler_NoIdentity(t *testing.T) {
	handler := MeHandler()

	req := httptest.NewRequest("GET", "/api/me", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without an identity, got %d", rr.Code)
	}
}

func TestLogoutHandler(t *testing.T) {
	handler := LogoutHandler(testConfig())

	req := httptest.NewRequest("POST", "/api/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "token"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	session := findCookie(rr, middleware.SessionCookieName)
	if session == nil || session.MaxAge != -1 {
		t.Error("Expected the session cookie to be cleared")
	}
}

func TestLogoutHandler_GetRedirects(t *testing.T) {
	handler := LogoutHandler(testConfig())

	req := httptest.NewRequest("GET", "/api/logout", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusFound {
		t.Fatalf("Expected 302, got %d", rr.Code)
	}
	if got := rr.Header().Get("Location"); got != "https://portal.example" {
		t.Errorf("Unexpected redirect target %s", got)
	}
}
