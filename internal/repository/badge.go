package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/orbitlog/orbitlog/internal/models"
	"gorm.io/gorm"
)

type BadgeRepository struct {
	db *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{db: db}
}

func (r *BadgeRepository) FetchBadges(ctx context.Context, userIDs []uuid.UUID) ([]models.FriendBadge, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var badges []models.FriendBadge
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("created_at ASC").
		Find(&badges).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch friend badges: %w", err)
	}
	return badges, nil
}

func (r *BadgeRepository) GetBadge(ctx context.Context, badgeID uuid.UUID) (*models.FriendBadge, error) {
	var badge models.FriendBadge
	if err := r.db.WithContext(ctx).First(&badge, "id = ?", badgeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get friend badge: %w", err)
	}
	return &badge, nil
}

func (r *BadgeRepository) CreateBadge(ctx context.Context, badge *models.FriendBadge) error {
	if err := r.db.WithContext(ctx).Create(badge).Error; err != nil {
		return fmt.Errorf("failed to create friend badge: %w", err)
	}
	return nil
}

func (r *BadgeRepository) DeleteBadge(ctx context.Context, badgeID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Delete(&models.FriendBadge{}, "id = ?", badgeID).Error; err != nil {
		return fmt.Errorf("failed to delete friend badge: %w", err)
	}
	return nil
}
