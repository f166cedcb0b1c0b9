package friends

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orbitlog/orbitlog/internal/models"
	"github.com/orbitlog/orbitlog/pkg/logger"
)

var (
	ErrFriendNotFound = errors.New("好友不存在或已停用")
	ErrTagNotFound    = errors.New("标签不存在")
	ErrBadgeNotFound  = errors.New("徽章不存在")
	ErrEmptyLabel     = errors.New("内容不能为空")
)

// Service 是好友目录聚合服务：把规范化的表行拼成按用户的好友卡片，
// 并承载保持卡片一致的小幅写操作。自身无状态，所有依赖注入进来。
type Service struct {
	users      UserStore
	profiles   ProfileStore
	engagement EngagementStore
	tags       TagStore
	badges     BadgeStore
	logger     *logger.Logger
}

func NewService(
	users UserStore,
	profiles ProfileStore,
	engagement EngagementStore,
	tags TagStore,
	badges BadgeStore,
	logger *logger.Logger,
) *Service {
	return &Service{
		users:      users,
		profiles:   profiles,
		engagement: engagement,
		tags:       tags,
		badges:     badges,
		logger:     logger,
	}
}

// Fetch 拼装好友卡片列表。viewerID 决定每个标签的 likedByMe；
// userID 给定时只聚合单个用户，供写操作回读单条卡片。
// 结果按活跃分降序，分数相同保持底层用户查询的顺序。
func (s *Service) Fetch(ctx context.Context, viewerID, userID *uuid.UUID) ([]FriendEntry, error) {
	users, err := s.users.ListActiveUsers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("加载用户列表失败: %w", err)
	}
	if len(users) == 0 {
		return []FriendEntry{}, nil
	}

	userIDs := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		userIDs = append(userIDs, u.ID)
	}

	profiles, err := s.loadProfiles(ctx, users)
	if err != nil {
		return nil, err
	}
	stats, err := s.collectEngagementStats(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	tagsByUser, err := s.loadTags(ctx, userIDs, viewerID)
	if err != nil {
		return nil, err
	}
	badgesByUser, err := s.loadBadges(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entries := make([]FriendEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, s.assembleEntry(u, profiles[u.ID], stats, tagsByUser[u.ID], badgesByUser[u.ID], now))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Stats.ActivityScore > entries[j].Stats.ActivityScore
	})
	return entries, nil
}

func (s *Service) assembleEntry(
	u models.User,
	profile models.FriendProfile,
	stats EngagementStats,
	tags []TagView,
	badges []BadgeView,
	now time.Time,
) FriendEntry {
	seed := u.ID.String()

	alias := profile.Alias
	if alias == "" {
		alias = u.DisplayName
	}
	isAdmin := u.Role == models.RoleAdmin
	if profile.IsAdmin != nil {
		isAdmin = *profile.IsAdmin
	}
	accent := profile.AccentClass
	neon := profile.NeonClass
	if accent == "" || neon == "" {
		theme := pickAccent(seed, 0)
		if accent == "" {
			accent = theme.Accent
		}
		if neon == "" {
			neon = theme.Neon
		}
	}
	orbit := profile.OrbitLabel
	if orbit == "" {
		orbit = defaultOrbitLabel(seed)
	}
	if tags == nil {
		tags = []TagView{}
	}
	if badges == nil {
		badges = []BadgeView{}
	}

	engagement := stats.forUser(u.ID)
	return FriendEntry{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Alias:       alias,
		IsAdmin:     isAdmin,
		AvatarURL:   u.AvatarURL,
		Signature:   u.Signature,
		Location:    profile.Location,
		Badges:      badges,
		Stats: EntryStats{
			// 活跃分永远用实时参与度现算，档案里的快照只是历史遗留字段
			ActivityScore:     computeActivityScore(engagement),
			Likes:             engagement.Likes,
			Comments:          engagement.Posts + engagement.Comments,
			Tags:              len(tags),
			Orbit:             orbit,
			CompanionshipDays: computeCompanionshipDays(u.CreatedAt, now),
		},
		Accent:              accent,
		Neon:                neon,
		Tags:                tags,
		Story:               profile.Story,
		CustomAreaTitle:     profile.CustomAreaTitle,
		CustomAreaHighlight: profile.CustomAreaHighlight,
	}
}

// ProfileUpdate 的字段为 nil 表示不修改，非 nil 的空串表示清空。
type ProfileUpdate struct {
	Alias               *string `json:"alias"`
	Location            *string `json:"location"`
	AccentClass         *string `json:"accentClass"`
	NeonClass           *string `json:"neonClass"`
	Story               *string `json:"story"`
	CustomAreaTitle     *string `json:"customAreaTitle"`
	CustomAreaHighlight *string `json:"customAreaHighlight"`
	OrbitLabel          *string `json:"orbitLabel"`
	IsAdmin             *bool   `json:"isAdmin"`
}

// UpdateProfile 对好友档案做部分字段更新。
func (s *Service) UpdateProfile(ctx context.Context, friendID uuid.UUID, payload ProfileUpdate) error {
	if _, err := s.requireFriend(ctx, friendID); err != nil {
		return err
	}

	updates := make(map[string]interface{})
	if payload.Alias != nil {
		updates["alias"] = *payload.Alias
	}
	if payload.Location != nil {
		updates["location"] = *payload.Location
	}
	if payload.AccentClass != nil {
		updates["accent_class"] = *payload.AccentClass
	}
	if payload.NeonClass != nil {
		updates["neon_class"] = *payload.NeonClass
	}
	if payload.Story != nil {
		updates["story"] = *payload.Story
	}
	if payload.CustomAreaTitle != nil {
		updates["custom_area_title"] = *payload.CustomAreaTitle
	}
	if payload.CustomAreaHighlight != nil {
		updates["custom_area_highlight"] = *payload.CustomAreaHighlight
	}
	if payload.OrbitLabel != nil {
		updates["orbit_label"] = *payload.OrbitLabel
	}
	if payload.IsAdmin != nil {
		updates["is_admin"] = *payload.IsAdmin
	}
	if len(updates) == 0 {
		return nil
	}

	if err := s.profiles.UpdateProfile(ctx, friendID, updates); err != nil {
		return fmt.Errorf("更新好友档案失败: %w", err)
	}
	s.logger.WithField("friend_id", friendID).Info("Friend profile updated")
	return nil
}

// AddTag 给好友贴一个标签，创建者的点赞随插入路径一并写入，
// 所以新标签的计数从 1 开始且对作者显示已赞。
func (s *Service) AddTag(ctx context.Context, friendID uuid.UUID, label string, authorID uuid.UUID, viewerID *uuid.UUID) (*FriendEntry, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, ErrEmptyLabel
	}
	if _, err := s.requireFriend(ctx, friendID); err != nil {
		return nil, err
	}

	tag := &models.FriendTag{
		TargetUserID: friendID,
		CreatedBy:    authorID,
		Label:        label,
		CreatedAt:    time.Now(),
	}
	if err := s.tags.CreateTag(ctx, tag); err != nil {
		return nil, fmt.Errorf("创建标签失败: %w", err)
	}
	if err := s.tags.UpsertLikeState(ctx, tag.ID, authorID); err != nil {
		return nil, fmt.Errorf("写入标签点赞状态失败: %w", err)
	}
	if err := s.tags.AppendLikeEvent(ctx, tag.ID, authorID); err != nil {
		return nil, fmt.Errorf("写入标签点赞记录失败: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"friend_id": friendID,
		"tag_id":    tag.ID,
	}).Info("Friend tag added")
	return s.refreshEntry(ctx, viewerID, friendID)
}

// ToggleTagLike 把 (tag, user) 的点赞状态置为已赞并追加一条计数事件。
// 注意这不是真正的开关：重复调用会持续累加计数，likedByMe 保持为真。
// 线上依赖这种只增不减的语义，这里原样保留。
func (s *Service) ToggleTagLike(ctx context.Context, friendID, tagID, userID uuid.UUID, viewerID *uuid.UUID) (*FriendEntry, error) {
	if err := s.requireTag(ctx, friendID, tagID); err != nil {
		return nil, err
	}
	if err := s.tags.UpsertLikeState(ctx, tagID, userID); err != nil {
		return nil, fmt.Errorf("写入标签点赞状态失败: %w", err)
	}
	if err := s.tags.AppendLikeEvent(ctx, tagID, userID); err != nil {
		return nil, fmt.Errorf("写入标签点赞记录失败: %w", err)
	}
	return s.refreshEntry(ctx, viewerID, friendID)
}

// RemoveTag 删除标签，点赞行随外键级联清理。
func (s *Service) RemoveTag(ctx context.Context, friendID, tagID uuid.UUID, viewerID *uuid.UUID) (*FriendEntry, error) {
	if err := s.requireTag(ctx, friendID, tagID); err != nil {
		return nil, err
	}
	if err := s.tags.DeleteTag(ctx, tagID); err != nil {
		return nil, fmt.Errorf("删除标签失败: %w", err)
	}
	s.logger.WithFields(map[string]interface{}{
		"friend_id": friendID,
		"tag_id":    tagID,
	}).Info("Friend tag removed")
	return s.refreshEntry(ctx, viewerID, friendID)
}

// AddBadge 给好友颁发徽章，配色为空时按标签哈希从固定配色里挑一个。
func (s *Service) AddBadge(ctx context.Context, friendID uuid.UUID, label, colorClass string, viewerID *uuid.UUID) (*FriendEntry, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, ErrEmptyLabel
	}
	if _, err := s.requireFriend(ctx, friendID); err != nil {
		return nil, err
	}
	if colorClass == "" {
		colorClass = BadgeColorPalette[hashString(label)%len(BadgeColorPalette)]
	}

	badge := &models.FriendBadge{
		UserID:     friendID,
		Label:      label,
		ColorClass: colorClass,
		CreatedAt:  time.Now(),
	}
	if err := s.badges.CreateBadge(ctx, badge); err != nil {
		return nil, fmt.Errorf("创建徽章失败: %w", err)
	}
	s.logger.WithFields(map[string]interface{}{
		"friend_id": friendID,
		"badge_id":  badge.ID,
	}).Info("Friend badge added")
	return s.refreshEntry(ctx, viewerID, friendID)
}

func (s *Service) RemoveBadge(ctx context.Context, friendID, badgeID uuid.UUID, viewerID *uuid.UUID) (*FriendEntry, error) {
	badge, err := s.badges.GetBadge(ctx, badgeID)
	if err != nil {
		return nil, fmt.Errorf("查询徽章失败: %w", err)
	}
	if badge == nil || badge.UserID != friendID {
		return nil, ErrBadgeNotFound
	}
	if err := s.badges.DeleteBadge(ctx, badgeID); err != nil {
		return nil, fmt.Errorf("删除徽章失败: %w", err)
	}
	return s.refreshEntry(ctx, viewerID, friendID)
}

// refreshEntry 在单次写之后回读一条完整卡片。写和回读之间没有事务，
// 并发写可能让回读看到更新的状态，这是可接受的快照语义。
func (s *Service) refreshEntry(ctx context.Context, viewerID *uuid.UUID, friendID uuid.UUID) (*FriendEntry, error) {
	entries, err := s.Fetch(ctx, viewerID, &friendID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

func (s *Service) requireFriend(ctx context.Context, friendID uuid.UUID) (*models.User, error) {
	users, err := s.users.ListActiveUsers(ctx, &friendID)
	if err != nil {
		return nil, fmt.Errorf("查询好友失败: %w", err)
	}
	if len(users) == 0 {
		return nil, ErrFriendNotFound
	}
	return &users[0], nil
}

func (s *Service) requireTag(ctx context.Context, friendID, tagID uuid.UUID) error {
	tag, err := s.tags.GetTag(ctx, tagID)
	if err != nil {
		return fmt.Errorf("查询标签失败: %w", err)
	}
	if tag == nil || tag.TargetUserID != friendID {
		return ErrTagNotFound
	}
	return nil
}
