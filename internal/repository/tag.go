package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/orbitlog/orbitlog/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) FetchTags(ctx context.Context, userIDs []uuid.UUID) ([]models.FriendTag, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var tags []models.FriendTag
	if err := r.db.WithContext(ctx).
		Where("target_user_id IN ?", userIDs).
		Order("created_at ASC").
		Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch friend tags: %w", err)
	}
	return tags, nil
}

func (r *TagRepository) GetTag(ctx context.Context, tagID uuid.UUID) (*models.FriendTag, error) {
	var tag models.FriendTag
	if err := r.db.WithContext(ctx).First(&tag, "id = ?", tagID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get friend tag: %w", err)
	}
	return &tag, nil
}

func (r *TagRepository) CreateTag(ctx context.Context, tag *models.FriendTag) error {
	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		return fmt.Errorf("failed to create friend tag: %w", err)
	}
	return nil
}

// DeleteTag 删除标签行，点赞状态和事件行由外键级联删除。
func (r *TagRepository) DeleteTag(ctx context.Context, tagID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Delete(&models.FriendTag{}, "id = ?", tagID).Error; err != nil {
		return fmt.Errorf("failed to delete friend tag: %w", err)
	}
	return nil
}

func (r *TagRepository) ListLikeEvents(ctx context.Context, tagIDs []uuid.UUID) ([]models.FriendTagLikeEvent, error) {
	if len(tagIDs) == 0 {
		return nil, nil
	}
	var events []models.FriendTagLikeEvent
	if err := r.db.WithContext(ctx).
		Where("tag_id IN ?", tagIDs).
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch tag like events: %w", err)
	}
	return events, nil
}

func (r *TagRepository) ListLikeStates(ctx context.Context, tagIDs []uuid.UUID) ([]models.FriendTagLike, error) {
	if len(tagIDs) == 0 {
		return nil, nil
	}
	var states []models.FriendTagLike
	if err := r.db.WithContext(ctx).
		Where("tag_id IN ?", tagIDs).
		Find(&states).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch tag like states: %w", err)
	}
	return states, nil
}

func (r *TagRepository) UpsertLikeState(ctx context.Context, tagID, userID uuid.UUID) error {
	state := models.FriendTagLike{
		TagID:     tagID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tag_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&state).Error; err != nil {
		return fmt.Errorf("failed to upsert tag like state: %w", err)
	}
	return nil
}

func (r *TagRepository) AppendLikeEvent(ctx context.Context, tagID, userID uuid.UUID) error {
	event := models.FriendTagLikeEvent{
		TagID:     tagID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("failed to append tag like event: %w", err)
	}
	return nil
}
