package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/andrevaleby/santamaria-backend/internal/api"
	"github.com/andrevaleby/santamaria-backend/internal/config"
	"github.com/andrevaleby/santamaria-backend/internal/middleware"
)

// RegisterAPIRoutes registers all API routes and handlers
// This keeps API route registration separate from the main router setup
func RegisterAPIRoutes(r chi.Router, cfg *config.Config, deps *api.Dependencies) {

	r.Route("/api", func(root chi.Router) {

		// The interactions webhook authenticates with its own Ed25519
		// signature, never with a session cookie.
		root.Post("/interactions", api.InteractionsHandler(deps, cfg.DiscordPublicKey))

		// Public auth routes, rate limited per client IP
		root.Group(func(public chi.Router) {
			public.Use(middleware.RateLimitMiddleware)
			public.Get("/auth/discord", api.StartDiscordLoginHandler(deps))
			public.Get("/auth/discord/callback", api.DiscordCallbackHandler(deps, cfg))
		})

		root.Get("/logout", api.LogoutHandler(cfg))
		root.Post("/logout", api.LogoutHandler(cfg))

		// Session-cookie protected group
		root.Group(func(authed chi.Router) {
			authed.Use(middleware.AuthMiddleware(deps.Services.Issuer))

			authed.Get("/me", api.MeHandler())
			authed.Get("/whitelist/status", api.WhitelistStatusHandler(deps))

			// Member-only group (requires guild membership)
			authed.Group(func(member chi.Router) {
				member.Use(middleware.IsMemberMiddleware())
				member.Post("/whitelist", api.SubmitWhitelistHandler(deps))
			})
		})
	})
}
