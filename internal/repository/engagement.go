package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/orbitlog/orbitlog/internal/friends"
	"github.com/orbitlog/orbitlog/internal/models"
	"gorm.io/gorm"
)

// EngagementRepository 只承担好友聚合需要的三类批量统计读。
type EngagementRepository struct {
	db *gorm.DB
}

func NewEngagementRepository(db *gorm.DB) *EngagementRepository {
	return &EngagementRepository{db: db}
}

// ListPostStats 读帖子投影：作者 + 该帖累计获赞。软删除的帖子不计入。
func (r *EngagementRepository) ListPostStats(ctx context.Context, userIDs []uuid.UUID) ([]friends.PostStat, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var rows []struct {
		ID        uuid.UUID
		UserID    uuid.UUID
		LikeCount int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.JournalPost{}).
		Select("id", "user_id", "like_count").
		Where("user_id IN ?", userIDs).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch post stats: %w", err)
	}
	stats := make([]friends.PostStat, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, friends.PostStat{
			PostID:    row.ID,
			UserID:    row.UserID,
			LikeCount: row.LikeCount,
		})
	}
	return stats, nil
}

// ListCommentStats 的口径包含软删除的评论（Unscoped）。
// 展示层另行隐藏已删除内容，这里沿用线上的计数行为。
func (r *EngagementRepository) ListCommentStats(ctx context.Context, userIDs []uuid.UUID) ([]friends.CommentStat, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var rows []struct {
		UserID uuid.UUID
	}
	if err := r.db.WithContext(ctx).
		Unscoped().
		Model(&models.JournalComment{}).
		Select("user_id").
		Where("user_id IN ?", userIDs).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch comment stats: %w", err)
	}
	stats := make([]friends.CommentStat, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, friends.CommentStat{UserID: row.UserID})
	}
	return stats, nil
}

func (r *EngagementRepository) ListActivityRows(ctx context.Context, userIDs []uuid.UUID) ([]friends.ActivityRow, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var rows []models.DailyActivity
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch activity rows: %w", err)
	}
	result := make([]friends.ActivityRow, 0, len(rows))
	for _, row := range rows {
		result = append(result, friends.ActivityRow{
			UserID:       row.UserID,
			ActivityDate: row.ActivityDate,
		})
	}
	return result, nil
}
