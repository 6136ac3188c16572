package api

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/andrevaleby/santamaria-backend/internal/auth"
	"github.com/andrevaleby/santamaria-backend/internal/common"
	"github.com/andrevaleby/santamaria-backend/internal/config"
	"github.com/andrevaleby/santamaria-backend/internal/logging"
	"github.com/andrevaleby/santamaria-backend/internal/middleware"
	"github.com/andrevaleby/santamaria-backend/internal/models/dtos"
)

const stateCookieName = "oauth_state"

func newStateValue() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func setSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// StartDiscordLoginHandler handles GET /api/auth/discord
//
// @Summary      Start Discord login
// @Description  Sets the CSRF state cookie and redirects to the Discord consent screen.
// @Tags         Auth
// @Success      302
// @Router       /api/auth/discord [get]
func StartDiscordLoginHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := newStateValue()
		if err != nil {
			common.RespondError(w, time.Now(), err, "Falha ao iniciar o login", http.StatusInternalServerError)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     stateCookieName,
			Value:    state,
			Path:     "/",
			MaxAge:   300,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteNoneMode,
		})

		http.Redirect(w, r, deps.Services.Login.LoginURL(state), http.StatusFound)
	}
}

// DiscordCallbackHandler handles GET /api/auth/discord/callback
//
// @Summary      Discord OAuth2 callback
// @Description  Validates the CSRF state, exchanges the code, issues the session cookie and redirects to the account page.
// @Tags         Auth
// @Success      302
// @Failure      400  {object}  dtos.APIResponse
// @Failure      502  {object}  dtos.APIResponse
// @Router       /api/auth/discord/callback [get]
func DiscordCallbackHandler(deps *Dependencies, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		stateCookie, err := r.Cookie(stateCookieName)
		clearCookie(w, stateCookieName)
		state := r.URL.Query().Get("state")
		if err != nil || state == "" || state != stateCookie.Value {
			common.RespondError(w, initTime, err, "Invalid state", http.StatusBadRequest)
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			common.RespondError(w, initTime, nil, "Missing authorization code", http.StatusBadRequest)
			return
		}

		token, identity, err := deps.Services.Login.CompleteLogin(r.Context(), code)
		if err != nil {
			logging.Error("Login callback failed", "error", err)
			common.RespondError(w, initTime, err, "Falha ao autenticar com o Discord", http.StatusBadGateway)
			return
		}

		setSessionCookie(w, token, deps.Services.Issuer.TTL())
		logging.Info("User logged in", "discord_id", identity.DiscordID, "is_member", identity.IsMember)

		http.Redirect(w, r, cfg.FrontendURL+"/suaconta.html", http.StatusFound)
	}
}

// MeHandler handles GET /api/me
//
// @Summary      Current session
// @Description  Returns the identity encoded in the session cookie.
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  dtos.APIResponse
// @Failure      401  {object}  dtos.APIResponse
// @Router       /api/me [get]
func MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		identity, ok := auth.GetIdentity(r.Context())
		if !ok {
			common.RespondError(w, initTime, nil, "Não autenticado", http.StatusUnauthorized)
			return
		}

		common.RespondSuccess(w, initTime, "Sessão ativa", dtos.SessionResponse{
			DiscordID:     identity.DiscordID,
			Username:      identity.Username,
			Avatar:        identity.Avatar,
			Discriminator: identity.Discriminator,
			IsMember:      identity.IsMember,
		})
	}
}

// LogoutHandler handles GET and POST /api/logout
//
// @Summary      Logout
// @Description  Clears the session cookie. GET redirects back to the frontend, POST returns JSON.
// @Tags         Auth
// @Success      200  {object}  dtos.APIResponse
// @Router       /api/logout [post]
func LogoutHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clearCookie(w, middleware.SessionCookieName)

		if r.Method == http.MethodGet {
			http.Redirect(w, r, cfg.FrontendURL, http.StatusFound)
			return
		}
		common.RespondSuccess(w, time.Now(), "Sessão encerrada", nil)
	}
}
