package friends

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// EngagementStats 是一次聚合调用中所有用户的参与度计数，
// 缺失的用户查不到就是 0，绝不会出现空值参与运算。
type EngagementStats struct {
	PostCounts    map[uuid.UUID]int
	LikeCounts    map[uuid.UUID]int
	CommentCounts map[uuid.UUID]int
	ActivityDays  map[uuid.UUID]int
}

func (s EngagementStats) forUser(id uuid.UUID) EngagementInput {
	return EngagementInput{
		Posts:        s.PostCounts[id],
		Comments:     s.CommentCounts[id],
		Likes:        s.LikeCounts[id],
		ActivityDays: s.ActivityDays[id],
	}
}

// collectEngagementStats 并发发起三类批量查询（帖子、评论、活跃记录），
// 全部返回后在内存里折叠成按用户的计数表。任一查询失败则整体失败。
func (s *Service) collectEngagementStats(ctx context.Context, userIDs []uuid.UUID) (EngagementStats, error) {
	stats := EngagementStats{
		PostCounts:    make(map[uuid.UUID]int),
		LikeCounts:    make(map[uuid.UUID]int),
		CommentCounts: make(map[uuid.UUID]int),
		ActivityDays:  make(map[uuid.UUID]int),
	}
	if len(userIDs) == 0 {
		return stats, nil
	}

	var (
		posts    []PostStat
		comments []CommentStat
		activity []ActivityRow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if posts, err = s.engagement.ListPostStats(gctx, userIDs); err != nil {
			return fmt.Errorf("加载日志统计失败: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if comments, err = s.engagement.ListCommentStats(gctx, userIDs); err != nil {
			return fmt.Errorf("加载评论统计失败: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if activity, err = s.engagement.ListActivityRows(gctx, userIDs); err != nil {
			return fmt.Errorf("加载活跃记录失败: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return EngagementStats{}, err
	}

	for _, p := range posts {
		stats.PostCounts[p.UserID]++
		stats.LikeCounts[p.UserID] += int(p.LikeCount)
	}
	for _, c := range comments {
		stats.CommentCounts[c.UserID]++
	}

	// 按用户去重活跃日期，得到"累计活跃天数"
	seen := make(map[uuid.UUID]map[string]struct{})
	for _, row := range activity {
		day := normalizeActivityDate(row.ActivityDate)
		if day == "" {
			continue
		}
		if seen[row.UserID] == nil {
			seen[row.UserID] = make(map[string]struct{})
		}
		seen[row.UserID][day] = struct{}{}
	}
	for id, days := range seen {
		stats.ActivityDays[id] = len(days)
	}

	return stats, nil
}

// normalizeActivityDate 把日期串或时间戳统一成 UTC 的 YYYY-MM-DD。
// 两种格式都解析失败时退回前 10 个字符。
func normalizeActivityDate(raw string) string {
	if raw == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC().Format("2006-01-02")
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.Format("2006-01-02")
	}
	if len(raw) >= 10 {
		return raw[:10]
	}
	return raw
}
