package friends

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/orbitlog/orbitlog/internal/models"
	"golang.org/x/sync/errgroup"
)

const anonymousAuthor = "匿名用户"

type tagLikeInfo struct {
	count   int
	likedBy map[uuid.UUID]struct{}
}

// loadTags 批量加载标签并按目标用户分组，每个标签带上累计点赞数、
// 创建者展示名和当前查看者的点赞状态。
func (s *Service) loadTags(ctx context.Context, userIDs []uuid.UUID, viewerID *uuid.UUID) (map[uuid.UUID][]TagView, error) {
	grouped := make(map[uuid.UUID][]TagView)
	if len(userIDs) == 0 {
		return grouped, nil
	}

	tags, err := s.tags.FetchTags(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("加载好友标签失败: %w", err)
	}
	if len(tags) == 0 {
		return grouped, nil
	}

	tagIDs := make([]uuid.UUID, 0, len(tags))
	creatorSet := make(map[uuid.UUID]struct{})
	for _, tag := range tags {
		tagIDs = append(tagIDs, tag.ID)
		creatorSet[tag.CreatedBy] = struct{}{}
	}
	creatorIDs := make([]uuid.UUID, 0, len(creatorSet))
	for id := range creatorSet {
		creatorIDs = append(creatorIDs, id)
	}

	names, err := s.users.FetchDisplayNames(ctx, creatorIDs)
	if err != nil {
		return nil, fmt.Errorf("加载标签作者失败: %w", err)
	}

	likes, err := s.loadTagLikes(ctx, tagIDs)
	if err != nil {
		return nil, err
	}

	for _, tag := range tags {
		view := TagView{
			ID:        tag.ID,
			Label:     tag.Label,
			CreatedAt: tag.CreatedAt,
			CreatedBy: anonymousAuthor,
		}
		if name, ok := names[tag.CreatedBy]; ok && name != "" {
			view.CreatedBy = name
		}
		if info, ok := likes[tag.ID]; ok {
			view.Likes = info.count
			if viewerID != nil {
				_, view.LikedByMe = info.likedBy[*viewerID]
			}
		}
		grouped[tag.TargetUserID] = append(grouped[tag.TargetUserID], view)
	}
	return grouped, nil
}

// loadTagLikes 并发读取事件日志和状态表：
// 计数来自事件日志，每行加一、不按用户去重；likedBy 集合只来自状态表。
func (s *Service) loadTagLikes(ctx context.Context, tagIDs []uuid.UUID) (map[uuid.UUID]tagLikeInfo, error) {
	result := make(map[uuid.UUID]tagLikeInfo)
	if len(tagIDs) == 0 {
		return result, nil
	}

	var (
		events []models.FriendTagLikeEvent
		states []models.FriendTagLike
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.tags.ListLikeEvents(gctx, tagIDs)
		if err != nil {
			return fmt.Errorf("加载标签点赞记录失败: %w", err)
		}
		events = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.tags.ListLikeStates(gctx, tagIDs)
		if err != nil {
			return fmt.Errorf("加载标签点赞状态失败: %w", err)
		}
		states = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, ev := range events {
		info := result[ev.TagID]
		info.count++
		if info.likedBy == nil {
			info.likedBy = make(map[uuid.UUID]struct{})
		}
		result[ev.TagID] = info
	}
	for _, st := range states {
		info := result[st.TagID]
		if info.likedBy == nil {
			info.likedBy = make(map[uuid.UUID]struct{})
		}
		info.likedBy[st.UserID] = struct{}{}
		result[st.TagID] = info
	}
	return result, nil
}

// loadBadges 批量加载徽章并按用户分组。
func (s *Service) loadBadges(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]BadgeView, error) {
	grouped := make(map[uuid.UUID][]BadgeView)
	if len(userIDs) == 0 {
		return grouped, nil
	}

	badges, err := s.badges.FetchBadges(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("加载好友徽章失败: %w", err)
	}
	for _, badge := range badges {
		grouped[badge.UserID] = append(grouped[badge.UserID], BadgeView{
			ID:    badge.ID,
			Label: badge.Label,
			Color: badge.ColorClass,
		})
	}
	return grouped, nil
}
