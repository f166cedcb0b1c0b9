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

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// MarkActive 为 (用户, 日期) 落一行活跃标记，已存在时为空操作。
func (r *ActivityRepository) MarkActive(ctx context.Context, userID uuid.UUID, date string) error {
	row := models.DailyActivity{
		UserID:       userID,
		ActivityDate: date,
		CreatedAt:    time.Now(),
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "activity_date"}},
			DoNothing: true,
		}).
		Create(&row).Error; err != nil {
		return fmt.Errorf("failed to mark daily activity: %w", err)
	}
	return nil
}
