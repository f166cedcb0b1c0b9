package workers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/orbitlog/orbitlog/internal/services"
	"github.com/orbitlog/orbitlog/pkg/logger"
	"github.com/orbitlog/orbitlog/pkg/queue"
)

// ActivityWorker 消费互动事件流，把登录 / 发帖 / 评论 / 点赞
// 折算成 daily_activities 的当日活跃标记。
type ActivityWorker struct {
	activityService *services.ActivityService
	consumer        *queue.KafkaConsumer
	logger          *logger.Logger
}

func NewActivityWorker(activityService *services.ActivityService, consumer *queue.KafkaConsumer, logger *logger.Logger) *ActivityWorker {
	return &ActivityWorker{
		activityService: activityService,
		consumer:        consumer,
		logger:          logger,
	}
}

func (w *ActivityWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting activity worker...")

	return w.consumer.Subscribe(ctx, func(msg queue.Message) error {
		var event queue.Event
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("failed to unmarshal event: %w", err)
		}

		switch event.Type {
		case queue.EventUserLoggedIn,
			queue.EventPostCreated,
			queue.EventPostLiked,
			queue.EventCommentCreated,
			queue.EventTagAdded,
			queue.EventTagLiked:
			return w.markActor(ctx, event)
		default:
			// 审批、徽章等事件不算用户主动活跃
			return nil
		}
	})
}

func (w *ActivityWorker) markActor(ctx context.Context, event queue.Event) error {
	actorID, err := uuid.Parse(event.Data.ActorID)
	if err != nil {
		w.logger.WithFields(map[string]interface{}{
			"event_type": event.Type,
			"actor_id":   event.Data.ActorID,
		}).Warn("Skipping event with invalid actor ID")
		return nil
	}

	if err := w.activityService.MarkActive(ctx, actorID); err != nil {
		return fmt.Errorf("failed to mark activity for event %s: %w", event.Type, err)
	}
	return nil
}

func (w *ActivityWorker) Stop() error {
	w.logger.Info("Stopping activity worker...")
	return w.consumer.Close()
}
