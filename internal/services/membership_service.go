package services

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/andrevaleby/santamaria-backend/internal/logging"
	"github.com/andrevaleby/santamaria-backend/internal/providers"
)

// GuildLister is the slice of the OAuth provider the membership check
// needs
type GuildLister interface {
	FetchGuilds(ctx context.Context, accessToken string) ([]providers.Guild, error)
}

// MembershipService answers whether an authenticated user belongs to
// the community guild. The check is fail-closed: any upstream failure
// reads as "not a member", because membership gates the whitelist
// workflow and a false negative is the safe direction.
type MembershipService struct {
	provider GuildLister
	sf       singleflight.Group
}

func NewMembershipService(provider GuildLister) *MembershipService {
	return &MembershipService{provider: provider}
}

// IsMember fetches the user's guild list once per in-flight token and
// scans it for guildID. Concurrent checks for the same token share one
// upstream call.
func (s *MembershipService) IsMember(ctx context.Context, accessToken, guildID string) bool {
	v, err, _ := s.sf.Do(accessToken, func() (interface{}, error) {
		return s.provider.FetchGuilds(ctx, accessToken)
	})
	if err != nil {
		logging.Warn("Guild list fetch failed, treating as non-member", "error", err.Error())
		return false
	}

	guilds, ok := v.([]providers.Guild)
	if !ok {
		return false
	}
	for _, g := range guilds {
		if g.ID == guildID {
			return true
		}
	}
	return false
}
