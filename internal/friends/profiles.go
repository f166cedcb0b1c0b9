package friends

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/orbitlog/orbitlog/internal/models"
)

// loadProfiles 读取所有用户的档案，给缺档案的用户补建默认行后重读一次。
// 两阶段（读 → 补 → 再读）换掉了对事务性 upsert-returning 的依赖，
// 补建是 user_id 冲突忽略的幂等写，重试安全。
func (s *Service) loadProfiles(ctx context.Context, users []models.User) (map[uuid.UUID]models.FriendProfile, error) {
	byUser := make(map[uuid.UUID]models.FriendProfile)
	if len(users) == 0 {
		return byUser, nil
	}

	userIDs := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		userIDs = append(userIDs, u.ID)
	}

	profiles, err := s.profiles.FetchProfiles(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("加载好友档案失败: %w", err)
	}
	for _, p := range profiles {
		byUser[p.UserID] = p
	}

	var missing []models.User
	for _, u := range users {
		if _, ok := byUser[u.ID]; !ok {
			missing = append(missing, u)
		}
	}
	if len(missing) == 0 {
		return byUser, nil
	}

	defaults := make([]models.FriendProfile, 0, len(missing))
	for i, u := range missing {
		defaults = append(defaults, defaultProfile(u, i))
	}
	if err := s.profiles.CreateProfiles(ctx, defaults); err != nil {
		return nil, fmt.Errorf("补建好友档案失败: %w", err)
	}

	profiles, err = s.profiles.FetchProfiles(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("重载好友档案失败: %w", err)
	}
	byUser = make(map[uuid.UUID]models.FriendProfile, len(profiles))
	for _, p := range profiles {
		byUser[p.UserID] = p
	}
	return byUser, nil
}

// defaultProfile 用用户 id 的哈希生成确定性的默认档案。
// fallbackIndex 是用户在本批缺失列表中的位置，只影响配色挑选。
func defaultProfile(u models.User, fallbackIndex int) models.FriendProfile {
	theme := pickAccent(u.ID.String(), fallbackIndex)
	isAdmin := u.Role == models.RoleAdmin
	score := defaultScore(u.ID.String())
	return models.FriendProfile{
		UserID:        u.ID,
		Alias:         u.DisplayName,
		AccentClass:   theme.Accent,
		NeonClass:     theme.Neon,
		IsAdmin:       &isAdmin,
		ActivityScore: &score,
		OrbitLabel:    defaultOrbitLabel(u.ID.String()),
	}
}
