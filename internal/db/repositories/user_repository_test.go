package repositories

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/andrevaleby/santamaria-backend/internal/constants"
	gormModels "github.com/andrevaleby/santamaria-backend/internal/models/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&gormModels.User{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func TestUserRepository_UpsertProfile_Creates(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	avatar := "abc123"
	created, err := repo.UpsertProfile(ctx, &gormModels.User{
		DiscordID: "123456789012345678",
		Username:  "andre",
		Avatar:    &avatar,
		IsMember:  true,
	})
	if err != nil {
		t.Fatalf("UpsertProfile failed: %v", err)
	}

	if created.ID == "" {
		t.Error("Expected a generated primary key")
	}
	if created.ReviewStatus != constants.ReviewStatusNone {
		t.Errorf("Expected a fresh user to start at none, got %s", created.ReviewStatus)
	}
}

func TestUserRepository_UpsertProfile_RefreshKeepsReviewStatus(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	if _, err := repo.UpsertProfile(ctx, &gormModels.User{DiscordID: "123456789012345678", Username: "andre"}); err != nil {
		t.Fatalf("UpsertProfile failed: %v", err)
	}
	if err := repo.SetReviewStatus(ctx, "123456789012345678", constants.ReviewStatusApproved); err != nil {
		t.Fatalf("SetReviewStatus failed: %v", err)
	}

	refreshed, err := repo.UpsertProfile(ctx, &gormModels.User{
		DiscordID: "123456789012345678",
		Username:  "andre-renamed",
		IsMember:  true,
	})
	if err != nil {
		t.Fatalf("UpsertProfile refresh failed: %v", err)
	}

	if refreshed.Username != "andre-renamed" || !refreshed.IsMember {
		t.Errorf("Expected profile columns refreshed, got %+v", refreshed)
	}
	if refreshed.ReviewStatus != constants.ReviewStatusApproved {
		t.Errorf("Expected review status untouched, got %s", refreshed.ReviewStatus)
	}
}

func TestUserRepository_GetByDiscordID_NotFound(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))

	if _, err := repo.GetByDiscordID(context.Background(), "404404404404404404"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_SetReviewStatus_UnknownUser(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))

	err := repo.SetReviewStatus(context.Background(), "404404404404404404", constants.ReviewStatusApproved)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}
