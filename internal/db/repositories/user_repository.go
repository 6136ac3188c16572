package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrevaleby/santamaria-backend/internal/constants"
	gormModels "github.com/andrevaleby/santamaria-backend/internal/models/gorm"
)

// ErrUserNotFound is returned when no user row exists for a Discord ID
var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new GORM-based user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByDiscordID retrieves a user by Discord ID
func (r *UserRepository) GetByDiscordID(ctx context.Context, discordID string) (*gormModels.User, error) {
	var user gormModels.User

	err := r.db.WithContext(ctx).
		Where("discord_id = ?", discordID).
		First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return &user, nil
}

// UpsertProfile creates the user on first login or refreshes the profile
// columns on later logins. Review status is never touched here.
func (r *UserRepository) UpsertProfile(ctx context.Context, user *gormModels.User) (*gormModels.User, error) {
	var existing gormModels.User

	err := r.db.WithContext(ctx).
		Where("discord_id = ?", user.DiscordID).
		First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		user.ReviewStatus = constants.ReviewStatusNone
		if createErr := r.db.WithContext(ctx).Create(user).Error; createErr != nil {
			return nil, fmt.Errorf("failed to create user: %w", createErr)
		}
		return user, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	updates := map[string]interface{}{
		"username":      user.Username,
		"avatar":        user.Avatar,
		"discriminator": user.Discriminator,
		"is_member":     user.IsMember,
	}
	if err := r.db.WithContext(ctx).
		Model(&gormModels.User{}).
		Where("discord_id = ?", user.DiscordID).
		Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to refresh user profile: %w", err)
	}

	return r.GetByDiscordID(ctx, user.DiscordID)
}

// SetReviewStatus writes a review status unconditionally. Used by the
// review resolution flow, where the decision guard has already
// serialized writers.
func (r *UserRepository) SetReviewStatus(ctx context.Context, discordID string, status constants.ReviewStatus) error {
	res := r.db.WithContext(ctx).
		Model(&gormModels.User{}).
		Where("discord_id = ?", discordID).
		Update("review_status", status)

	if res.Error != nil {
		return fmt.Errorf("failed to update review status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
