package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/orbitlog/orbitlog/internal/repository"
	"github.com/orbitlog/orbitlog/pkg/cache"
	"github.com/orbitlog/orbitlog/pkg/logger"
)

// ActivityService 负责每日活跃标记：每 (用户, UTC 日期) 至多一行。
// Redis 的 SetNX 做当日去重闸门，同一天的重复标记不再落库。
type ActivityService struct {
	activityRepo *repository.ActivityRepository
	cache        *cache.RedisClient
	logger       *logger.Logger
}

// 去重 key 保留到次日自然过期即可，48 小时给足时钟偏差余量。
const activityGuardTTL = 48 * time.Hour

func NewActivityService(activityRepo *repository.ActivityRepository, cache *cache.RedisClient, logger *logger.Logger) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		cache:        cache,
		logger:       logger,
	}
}

// MarkActive 记录用户今天活跃过。幂等：当天已标记时为空操作。
func (s *ActivityService) MarkActive(ctx context.Context, userID uuid.UUID) error {
	day := time.Now().UTC().Format("2006-01-02")
	guardKey := fmt.Sprintf("activity:%s:%s", userID, day)

	created, err := s.cache.SetNX(ctx, guardKey, "1", activityGuardTTL)
	if err != nil {
		// 缓存不可用时退回直接落库，数据库的唯一索引兜底去重
		s.logger.WithError(err).Warn("Activity guard unavailable, falling back to direct upsert")
	} else if !created {
		return nil
	}

	if err := s.activityRepo.MarkActive(ctx, userID, day); err != nil {
		return fmt.Errorf("failed to mark daily activity: %w", err)
	}
	return nil
}
