package api

import (
	"time"

	"gorm.io/gorm"

	"github.com/andrevaleby/santamaria-backend/internal/auth"
	"github.com/andrevaleby/santamaria-backend/internal/common"
	"github.com/andrevaleby/santamaria-backend/internal/config"
	"github.com/andrevaleby/santamaria-backend/internal/db/repositories"
	"github.com/andrevaleby/santamaria-backend/internal/logging"
	"github.com/andrevaleby/santamaria-backend/internal/metrics"
	"github.com/andrevaleby/santamaria-backend/internal/providers"
	"github.com/andrevaleby/santamaria-backend/internal/services"
)

type Repositories struct {
	User *repositories.UserRepository
}

type Services struct {
	Issuer     *auth.SessionIssuer
	Membership *services.MembershipService
	Login      *services.LoginService
	Submission *services.SubmissionService
	Review     *services.ReviewService
	Audit      *services.AuditService
}

type Providers struct {
	OAuth    *providers.DiscordOAuthProvider
	Channels *providers.DiscordChannelProvider
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
	Provider *Providers
	Guard    common.DecisionGuard
}

// InitDependencies wires repositories, providers and services. The
// decision guard is Redis-backed when REDIS_HOST is configured so it
// survives restarts; otherwise it is the in-memory guard.
func InitDependencies(cfg *config.Config, gormDB *gorm.DB, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {

	repos := &Repositories{
		User: repositories.NewUserRepository(gormDB),
	}

	oauthProvider := providers.NewDiscordOAuthProvider(
		cfg.DiscordClientID,
		cfg.DiscordClientSecret,
		cfg.DiscordRedirectURI,
	)
	channelProvider := providers.NewDiscordChannelProvider(cfg.DiscordBotToken)

	var guard common.DecisionGuard
	if cfg.RedisHost != "" {
		guard = common.NewRedisDecisionGuard(common.NewRedisClient(cfg))
		logging.Info("Decision guard backed by Redis")
	} else {
		guard = common.NewMemoryDecisionGuard()
		logging.Info("Decision guard in memory, decisions reset on restart")
	}

	issuer := auth.NewSessionIssuer(cfg.JWTSecret, time.Duration(cfg.SessionTTLMin)*time.Minute)
	auditSvc := services.NewAuditService(metricsReg)
	membershipSvc := services.NewMembershipService(oauthProvider)

	svcs := &Services{
		Issuer:     issuer,
		Membership: membershipSvc,
		Audit:      auditSvc,
		Login: services.NewLoginService(
			oauthProvider,
			membershipSvc,
			repos.User,
			issuer,
			auditSvc,
			cfg.GuildID,
			metricsReg,
		),
		Submission: services.NewSubmissionService(
			gormDB,
			channelProvider,
			cfg.LogChannelID,
			metricsReg,
		),
		Review: services.NewReviewService(
			guard,
			channelProvider,
			repos.User,
			auditSvc,
			cfg.ApprovChannelID,
			cfg.ReprovChannelID,
			metricsReg,
		),
	}

	return &Dependencies{
		Repo:     repos,
		Services: svcs,
		Provider: &Providers{OAuth: oauthProvider, Channels: channelProvider},
		Guard:    guard,
	}, nil
}
