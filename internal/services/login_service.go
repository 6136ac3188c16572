package services

import (
	"context"
	"fmt"
	"time"

	"github.com/andrevaleby/santamaria-backend/internal/auth"
	"github.com/andrevaleby/santamaria-backend/internal/db/repositories"
	"github.com/andrevaleby/santamaria-backend/internal/discord"
	"github.com/andrevaleby/santamaria-backend/internal/logging"
	"github.com/andrevaleby/santamaria-backend/internal/metrics"
	gormModels "github.com/andrevaleby/santamaria-backend/internal/models/gorm"
)

// OAuthAPI is the slice of the Discord OAuth provider the login flow
// needs; tests substitute function-field mocks
type OAuthAPI interface {
	LoginURL(state string) string
	ExchangeCode(ctx context.Context, code string) (string, error)
	FetchUser(ctx context.Context, accessToken string) (*discord.User, error)
}

// LoginService completes the OAuth callback: code exchange, profile
// fetch, membership snapshot, user upsert, credential issuance and the
// login audit event.
type LoginService struct {
	oauth      OAuthAPI
	membership *MembershipService
	users      *repositories.UserRepository
	issuer     *auth.SessionIssuer
	audit      *AuditService
	guildID    string
	metricsReg *metrics.MetricsRegistry
}

func NewLoginService(
	oauth OAuthAPI,
	membership *MembershipService,
	users *repositories.UserRepository,
	issuer *auth.SessionIssuer,
	audit *AuditService,
	guildID string,
	metricsReg *metrics.MetricsRegistry,
) *LoginService {
	return &LoginService{
		oauth:      oauth,
		membership: membership,
		users:      users,
		issuer:     issuer,
		audit:      audit,
		guildID:    guildID,
		metricsReg: metricsReg,
	}
}

// LoginURL builds the provider redirect for a CSRF state value
func (s *LoginService) LoginURL(state string) string {
	return s.oauth.LoginURL(state)
}

// CompleteLogin runs the callback sequence and returns the signed
// session credential plus the identity it encodes
func (s *LoginService) CompleteLogin(ctx context.Context, code string) (string, auth.Identity, error) {
	accessToken, err := s.oauth.ExchangeCode(ctx, code)
	if err != nil {
		return "", auth.Identity{}, fmt.Errorf("code exchange failed: %w", err)
	}

	profile, err := s.oauth.FetchUser(ctx, accessToken)
	if err != nil {
		return "", auth.Identity{}, fmt.Errorf("profile fetch failed: %w", err)
	}

	isMember := s.membership.IsMember(ctx, accessToken, s.guildID)

	identity := auth.Identity{
		DiscordID:     profile.ID,
		Username:      profile.Username,
		Avatar:        profile.Avatar,
		Discriminator: profile.Discriminator,
		IsMember:      isMember,
	}

	// The persisted row is the durable projection of the identity;
	// a failed upsert must not block login
	if _, err := s.users.UpsertProfile(ctx, &gormModels.User{
		DiscordID:     identity.DiscordID,
		Username:      identity.Username,
		Avatar:        identity.Avatar,
		Discriminator: identity.Discriminator,
		IsMember:      identity.IsMember,
	}); err != nil {
		logging.Error("Failed to upsert user on login",
			"discord_id", identity.DiscordID,
			"error", err.Error(),
		)
	}

	token, err := s.issuer.Issue(identity)
	if err != nil {
		return "", auth.Identity{}, fmt.Errorf("credential issuance failed: %w", err)
	}

	if s.metricsReg != nil {
		s.metricsReg.LoginsTotal.Inc()
	}
	s.audit.NotifyLogin(identity, time.Now())

	return token, identity, nil
}
