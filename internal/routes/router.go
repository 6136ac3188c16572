package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/andrevaleby/santamaria-backend/internal/api"
	"github.com/andrevaleby/santamaria-backend/internal/config"
	"github.com/andrevaleby/santamaria-backend/internal/db"
	"github.com/andrevaleby/santamaria-backend/internal/logging"
	"github.com/andrevaleby/santamaria-backend/internal/metrics"
	"github.com/andrevaleby/santamaria-backend/internal/middleware"
	"github.com/andrevaleby/santamaria-backend/internal/workers"
)

func RegisterRoutes(cfg *config.Config, upSince time.Time) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// Initialize metrics registry
	metricsReg := metrics.NewMetricsRegistry()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(metricsReg))

	// Credentials travel in cookies, so the frontend origin must be
	// listed explicitly; a wildcard would make browsers drop them.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL, "http://localhost:5500"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	logging.Info("Router initialized with metrics and logging middleware")

	// health check
	r.Get("/healthCheck", api.HealthCheckHandler(db.DB, upSince))

	// Initialize dependencies using DI pattern
	deps, err := api.InitDependencies(cfg, db.PgDB, metricsReg)
	if err != nil {
		panic("Failed to initialize dependencies: " + err.Error())
	}

	// Audit delivery runs detached from request handling; a slow or
	// failing webhook never blocks a login or a resolution.
	auditWorker := workers.NewAuditWorker(
		deps.Services.Audit.Events(),
		deps.Provider.Channels,
		cfg.AuditWebhookURL,
		metricsReg,
	)
	go auditWorker.Run(context.Background())

	RegisterAPIRoutes(r, cfg, deps)

	return r
}
