package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/andrevaleby/santamaria-backend/internal/constants"
)

type User struct {
	ID            string                 `gorm:"column:id;primaryKey;type:uuid"`
	DiscordID     string                 `gorm:"column:discord_id;uniqueIndex"`
	Username      string                 `gorm:"column:username"`
	Avatar        *string                `gorm:"column:avatar"`
	Discriminator string                 `gorm:"column:discriminator"`
	IsMember      bool                   `gorm:"column:is_member;default:false"`
	ReviewStatus  constants.ReviewStatus `gorm:"column:review_status;default:none"`
	CreatedAt     time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID primary key so the model works on both
// Postgres and the sqlite test database
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
