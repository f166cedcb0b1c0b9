package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/orbitlog/orbitlog/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) FetchProfiles(ctx context.Context, userIDs []uuid.UUID) ([]models.FriendProfile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var profiles []models.FriendProfile
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch friend profiles: %w", err)
	}
	return profiles, nil
}

// CreateProfiles 批量补建默认档案，user_id 冲突时忽略，重复补建安全。
func (r *ProfileRepository) CreateProfiles(ctx context.Context, profiles []models.FriendProfile) error {
	if len(profiles) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&profiles).Error; err != nil {
		return fmt.Errorf("failed to create friend profiles: %w", err)
	}
	return nil
}

func (r *ProfileRepository) UpdateProfile(ctx context.Context, userID uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).
		Model(&models.FriendProfile{}).
		Where("user_id = ?", userID).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update friend profile: %w", err)
	}
	return nil
}
