package friends

import (
	"context"

	"github.com/google/uuid"
	"github.com/orbitlog/orbitlog/internal/models"
)

// PostStat 是参与度统计需要的帖子投影：作者 + 该帖累计获赞数。
type PostStat struct {
	PostID    uuid.UUID
	UserID    uuid.UUID
	LikeCount int64
}

// CommentStat 只取作者，软删除的评论也计入（沿用线上行为）。
type CommentStat struct {
	UserID uuid.UUID
}

// ActivityRow 是一条原始活跃记录，日期可能是日期串也可能是完整时间戳。
type ActivityRow struct {
	UserID       uuid.UUID
	ActivityDate string
}

// UserStore / ProfileStore / EngagementStore / TagStore / BadgeStore
// 是聚合服务对存储层的全部依赖。生产环境由 gorm 仓库实现，
// 测试里用内存假实现替换，避免隐藏的全局客户端。

type UserStore interface {
	ListActiveUsers(ctx context.Context, userID *uuid.UUID) ([]models.User, error)
	FetchDisplayNames(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]string, error)
}

type ProfileStore interface {
	FetchProfiles(ctx context.Context, userIDs []uuid.UUID) ([]models.FriendProfile, error)
	// CreateProfiles 以 user_id 冲突忽略的方式批量补建默认档案。
	CreateProfiles(ctx context.Context, profiles []models.FriendProfile) error
	UpdateProfile(ctx context.Context, userID uuid.UUID, updates map[string]interface{}) error
}

type EngagementStore interface {
	ListPostStats(ctx context.Context, userIDs []uuid.UUID) ([]PostStat, error)
	ListCommentStats(ctx context.Context, userIDs []uuid.UUID) ([]CommentStat, error)
	ListActivityRows(ctx context.Context, userIDs []uuid.UUID) ([]ActivityRow, error)
}

type TagStore interface {
	FetchTags(ctx context.Context, userIDs []uuid.UUID) ([]models.FriendTag, error)
	GetTag(ctx context.Context, tagID uuid.UUID) (*models.FriendTag, error)
	CreateTag(ctx context.Context, tag *models.FriendTag) error
	DeleteTag(ctx context.Context, tagID uuid.UUID) error
	ListLikeEvents(ctx context.Context, tagIDs []uuid.UUID) ([]models.FriendTagLikeEvent, error)
	ListLikeStates(ctx context.Context, tagIDs []uuid.UUID) ([]models.FriendTagLike, error)
	// UpsertLikeState 将 (tag, user) 的点赞状态置为已赞，已存在时为空操作。
	UpsertLikeState(ctx context.Context, tagID, userID uuid.UUID) error
	// AppendLikeEvent 无条件追加一条点赞事件，计数器只增不减。
	AppendLikeEvent(ctx context.Context, tagID, userID uuid.UUID) error
}

type BadgeStore interface {
	FetchBadges(ctx context.Context, userIDs []uuid.UUID) ([]models.FriendBadge, error)
	GetBadge(ctx context.Context, badgeID uuid.UUID) (*models.FriendBadge, error)
	CreateBadge(ctx context.Context, badge *models.FriendBadge) error
	DeleteBadge(ctx context.Context, badgeID uuid.UUID) error
}
