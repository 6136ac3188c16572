package entities

import (
	"time"

	"github.com/andrevaleby/santamaria-backend/internal/constants"
)

type User struct {
	ID            string                 `db:"id"`
	DiscordID     string                 `db:"discord_id"`
	Username      string                 `db:"username"`
	Avatar        *string                `db:"avatar"`
	Discriminator string                 `db:"discriminator"`
	IsMember      bool                   `db:"is_member"`
	ReviewStatus  constants.ReviewStatus `db:"review_status"`
	CreatedAt     time.Time              `db:"created_at"`
	UpdatedAt     time.Time              `db:"updated_at"`
}
