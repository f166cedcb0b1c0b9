package friends

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/orbitlog/orbitlog/internal/models"
	"github.com/orbitlog/orbitlog/pkg/logger"
)

// fakeStore 在内存里实现全部存储接口，并统计每个方法被调用的次数。
type fakeStore struct {
	users    []models.User
	profiles map[uuid.UUID]models.FriendProfile
	posts    []PostStat
	comments []CommentStat
	activity []ActivityRow
	tags     []models.FriendTag
	states   []models.FriendTagLike
	events   []models.FriendTagLikeEvent
	badges   []models.FriendBadge

	calls map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles: make(map[uuid.UUID]models.FriendProfile),
		calls:    make(map[string]int),
	}
}

func (f *fakeStore) record(method string) {
	f.calls[method]++
}

func (f *fakeStore) ListActiveUsers(_ context.Context, userID *uuid.UUID) ([]models.User, error) {
	f.record("ListActiveUsers")
	var result []models.User
	for _, u := range f.users {
		if !u.IsActive {
			continue
		}
		if userID != nil && u.ID != *userID {
			continue
		}
		result = append(result, u)
	}
	return result, nil
}

func (f *fakeStore) FetchDisplayNames(_ context.Context, userIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	f.record("FetchDisplayNames")
	names := make(map[uuid.UUID]string)
	for _, id := range userIDs {
		for _, u := range f.users {
			if u.ID == id {
				names[id] = u.DisplayName
			}
		}
	}
	return names, nil
}

func (f *fakeStore) FetchProfiles(_ context.Context, userIDs []uuid.UUID) ([]models.FriendProfile, error) {
	f.record("FetchProfiles")
	var result []models.FriendProfile
	for _, id := range userIDs {
		if p, ok := f.profiles[id]; ok {
			result = append(result, p)
		}
	}
	return result, nil
}

func (f *fakeStore) CreateProfiles(_ context.Context, profiles []models.FriendProfile) error {
	f.record("CreateProfiles")
	for _, p := range profiles {
		if _, exists := f.profiles[p.UserID]; !exists {
			f.profiles[p.UserID] = p
		}
	}
	return nil
}

func (f *fakeStore) UpdateProfile(_ context.Context, userID uuid.UUID, updates map[string]interface{}) error {
	f.record("UpdateProfile")
	p := f.profiles[userID]
	p.UserID = userID
	for key, value := range updates {
		switch key {
		case "alias":
			p.Alias = value.(string)
		case "location":
			p.Location = value.(string)
		case "story":
			p.Story = value.(string)
		case "orbit_label":
			p.OrbitLabel = value.(string)
		case "is_admin":
			v := value.(bool)
			p.IsAdmin = &v
		}
	}
	f.profiles[userID] = p
	return nil
}

func (f *fakeStore) ListPostStats(_ context.Context, userIDs []uuid.UUID) ([]PostStat, error) {
	f.record("ListPostStats")
	return filterByUser(f.posts, userIDs, func(p PostStat) uuid.UUID { return p.UserID }), nil
}

func (f *fakeStore) ListCommentStats(_ context.Context, userIDs []uuid.UUID) ([]CommentStat, error) {
	f.record("ListCommentStats")
	return filterByUser(f.comments, userIDs, func(c CommentStat) uuid.UUID { return c.UserID }), nil
}

func (f *fakeStore) ListActivityRows(_ context.Context, userIDs []uuid.UUID) ([]ActivityRow, error) {
	f.record("ListActivityRows")
	return filterByUser(f.activity, userIDs, func(a ActivityRow) uuid.UUID { return a.UserID }), nil
}

func (f *fakeStore) FetchTags(_ context.Context, userIDs []uuid.UUID) ([]models.FriendTag, error) {
	f.record("FetchTags")
	return filterByUser(f.tags, userIDs, func(t models.FriendTag) uuid.UUID { return t.TargetUserID }), nil
}

func (f *fakeStore) GetTag(_ context.Context, tagID uuid.UUID) (*models.FriendTag, error) {
	f.record("GetTag")
	for i := range f.tags {
		if f.tags[i].ID == tagID {
			tag := f.tags[i]
			return &tag, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateTag(_ context.Context, tag *models.FriendTag) error {
	f.record("CreateTag")
	if tag.ID == uuid.Nil {
		tag.ID = uuid.New()
	}
	f.tags = append(f.tags, *tag)
	return nil
}

func (f *fakeStore) DeleteTag(_ context.Context, tagID uuid.UUID) error {
	f.record("DeleteTag")
	var tags []models.FriendTag
	for _, t := range f.tags {
		if t.ID != tagID {
			tags = append(tags, t)
		}
	}
	f.tags = tags

	// 模拟外键级联
	var states []models.FriendTagLike
	for _, s := range f.states {
		if s.TagID != tagID {
			states = append(states, s)
		}
	}
	f.states = states
	var events []models.FriendTagLikeEvent
	for _, e := range f.events {
		if e.TagID != tagID {
			events = append(events, e)
		}
	}
	f.events = events
	return nil
}

func (f *fakeStore) ListLikeEvents(_ context.Context, tagIDs []uuid.UUID) ([]models.FriendTagLikeEvent, error) {
	f.record("ListLikeEvents")
	return filterByUser(f.events, tagIDs, func(e models.FriendTagLikeEvent) uuid.UUID { return e.TagID }), nil
}

func (f *fakeStore) ListLikeStates(_ context.Context, tagIDs []uuid.UUID) ([]models.FriendTagLike, error) {
	f.record("ListLikeStates")
	return filterByUser(f.states, tagIDs, func(s models.FriendTagLike) uuid.UUID { return s.TagID }), nil
}

func (f *fakeStore) UpsertLikeState(_ context.Context, tagID, userID uuid.UUID) error {
	f.record("UpsertLikeState")
	for _, s := range f.states {
		if s.TagID == tagID && s.UserID == userID {
			return nil
		}
	}
	f.states = append(f.states, models.FriendTagLike{
		ID:     uuid.New(),
		TagID:  tagID,
		UserID: userID,
	})
	return nil
}

func (f *fakeStore) AppendLikeEvent(_ context.Context, tagID, userID uuid.UUID) error {
	f.record("AppendLikeEvent")
	f.events = append(f.events, models.FriendTagLikeEvent{
		ID:     uuid.New(),
		TagID:  tagID,
		UserID: userID,
	})
	return nil
}

func (f *fakeStore) FetchBadges(_ context.Context, userIDs []uuid.UUID) ([]models.FriendBadge, error) {
	f.record("FetchBadges")
	return filterByUser(f.badges, userIDs, func(b models.FriendBadge) uuid.UUID { return b.UserID }), nil
}

func (f *fakeStore) GetBadge(_ context.Context, badgeID uuid.UUID) (*models.FriendBadge, error) {
	f.record("GetBadge")
	for i := range f.badges {
		if f.badges[i].ID == badgeID {
			badge := f.badges[i]
			return &badge, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateBadge(_ context.Context, badge *models.FriendBadge) error {
	f.record("CreateBadge")
	if badge.ID == uuid.Nil {
		badge.ID = uuid.New()
	}
	f.badges = append(f.badges, *badge)
	return nil
}

func (f *fakeStore) DeleteBadge(_ context.Context, badgeID uuid.UUID) error {
	f.record("DeleteBadge")
	var badges []models.FriendBadge
	for _, b := range f.badges {
		if b.ID != badgeID {
			badges = append(badges, b)
		}
	}
	f.badges = badges
	return nil
}

func filterByUser[T any](rows []T, ids []uuid.UUID, key func(T) uuid.UUID) []T {
	idSet := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}
	var result []T
	for _, row := range rows {
		if _, ok := idSet[key(row)]; ok {
			result = append(result, row)
		}
	}
	return result
}

func newTestService(store *fakeStore) *Service {
	return NewService(store, store, store, store, store, logger.NewLogger("error"))
}

func activeUser(name string) models.User {
	return models.User{
		ID:          uuid.New(),
		Username:    name,
		DisplayName: name,
		IsActive:    true,
		CreatedAt:   time.Now().Add(-48 * time.Hour),
	}
}

func TestFetchOrdersByActivityScore(t *testing.T) {
	store := newFakeStore()
	userA := activeUser("alice")
	userB := activeUser("bob")
	store.users = []models.User{userB, userA} // 底层顺序故意倒置

	// A: 2 帖共 5 赞、3 评论、4 个活跃日；B: 全零
	store.posts = []PostStat{
		{PostID: uuid.New(), UserID: userA.ID, LikeCount: 3},
		{PostID: uuid.New(), UserID: userA.ID, LikeCount: 2},
	}
	store.comments = []CommentStat{
		{UserID: userA.ID}, {UserID: userA.ID}, {UserID: userA.ID},
	}
	store.activity = []ActivityRow{
		{UserID: userA.ID, ActivityDate: "2026-08-01"},
		{UserID: userA.ID, ActivityDate: "2026-08-02"},
		{UserID: userA.ID, ActivityDate: "2026-08-02T09:00:00Z"}, // 与上一条同一天
		{UserID: userA.ID, ActivityDate: "2026-08-03"},
		{UserID: userA.ID, ActivityDate: "2026-08-04"},
	}

	entries, err := newTestService(store).Fetch(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].ID != userA.ID {
		t.Errorf("expected alice first, got %s", entries[0].Username)
	}
	if entries[0].Stats.ActivityScore != 37 {
		t.Errorf("alice activity score = %d, want 37", entries[0].Stats.ActivityScore)
	}
	if entries[0].Stats.Comments != 5 {
		t.Errorf("alice comments stat = %d, want 5 (2 posts + 3 comments)", entries[0].Stats.Comments)
	}
	if entries[0].Stats.Likes != 5 {
		t.Errorf("alice likes stat = %d, want 5", entries[0].Stats.Likes)
	}
	if entries[1].Stats.ActivityScore != 0 {
		t.Errorf("bob activity score = %d, want 0 for zero engagement", entries[1].Stats.ActivityScore)
	}
}

func TestFetchBackfillsMissingProfiles(t *testing.T) {
	store := newFakeStore()
	user := activeUser("carol")
	store.users = []models.User{user}

	svc := newTestService(store)
	if _, err := svc.Fetch(context.Background(), nil, nil); err != nil {
		t.Fatalf("first Fetch failed: %v", err)
	}

	profile, ok := store.profiles[user.ID]
	if !ok {
		t.Fatal("expected a backfilled profile row")
	}
	if profile.Alias != user.DisplayName {
		t.Errorf("backfilled alias = %q, want display name %q", profile.Alias, user.DisplayName)
	}
	if profile.ActivityScore == nil || *profile.ActivityScore != defaultScore(user.ID.String()) {
		t.Errorf("backfilled activity score does not match defaultScore seed")
	}
	if profile.OrbitLabel != defaultOrbitLabel(user.ID.String()) {
		t.Errorf("backfilled orbit label = %q, want %q", profile.OrbitLabel, defaultOrbitLabel(user.ID.String()))
	}

	if _, err := svc.Fetch(context.Background(), nil, nil); err != nil {
		t.Fatalf("second Fetch failed: %v", err)
	}
	if store.calls["CreateProfiles"] != 1 {
		t.Errorf("CreateProfiles called %d times, want 1 (row must be reused)", store.calls["CreateProfiles"])
	}
}

func TestAddTagRoundTrip(t *testing.T) {
	store := newFakeStore()
	friend := activeUser("dave")
	author := activeUser("erin")
	store.users = []models.User{friend, author}

	entry, err := newTestService(store).AddTag(context.Background(), friend.ID, "abc", author.ID, &author.ID)
	if err != nil {
		t.Fatalf("AddTag failed: %v", err)
	}
	if entry == nil {
		t.Fatal("AddTag returned nil entry")
	}
	if len(entry.Tags) != 1 {
		t.Fatalf("got %d tags, want 1", len(entry.Tags))
	}
	tag := entry.Tags[0]
	if tag.Label != "abc" {
		t.Errorf("tag label = %q, want %q", tag.Label, "abc")
	}
	if tag.Likes != 1 {
		t.Errorf("tag likes = %d, want 1 (creator's own like from the insert path)", tag.Likes)
	}
	if !tag.LikedByMe {
		t.Error("likedByMe = false for the tag author")
	}
	if tag.CreatedBy != author.DisplayName {
		t.Errorf("tag createdBy = %q, want %q", tag.CreatedBy, author.DisplayName)
	}
}

func TestAddTagRejectsEmptyLabel(t *testing.T) {
	store := newFakeStore()
	friend := activeUser("dave")
	store.users = []models.User{friend}

	if _, err := newTestService(store).AddTag(context.Background(), friend.ID, "   ", friend.ID, nil); !errors.Is(err, ErrEmptyLabel) {
		t.Errorf("AddTag with blank label: got %v, want ErrEmptyLabel", err)
	}
}

func TestToggleTagLikeAccumulates(t *testing.T) {
	store := newFakeStore()
	friend := activeUser("frank")
	liker := activeUser("grace")
	store.users = []models.User{friend, liker}

	svc := newTestService(store)
	entry, err := svc.AddTag(context.Background(), friend.ID, "靠谱", friend.ID, &liker.ID)
	if err != nil {
		t.Fatalf("AddTag failed: %v", err)
	}
	tagID := entry.Tags[0].ID
	baseline := entry.Tags[0].Likes

	// 同一用户连续两次"点赞"：计数各加一，likedByMe 一直为真
	entry, err = svc.ToggleTagLike(context.Background(), friend.ID, tagID, liker.ID, &liker.ID)
	if err != nil {
		t.Fatalf("first ToggleTagLike failed: %v", err)
	}
	if entry.Tags[0].Likes != baseline+1 {
		t.Errorf("after first toggle: likes = %d, want %d", entry.Tags[0].Likes, baseline+1)
	}
	if !entry.Tags[0].LikedByMe {
		t.Error("likedByMe = false after first toggle")
	}

	entry, err = svc.ToggleTagLike(context.Background(), friend.ID, tagID, liker.ID, &liker.ID)
	if err != nil {
		t.Fatalf("second ToggleTagLike failed: %v", err)
	}
	if entry.Tags[0].Likes != baseline+2 {
		t.Errorf("after second toggle: likes = %d, want %d (counter only accumulates)", entry.Tags[0].Likes, baseline+2)
	}
	if !entry.Tags[0].LikedByMe {
		t.Error("likedByMe = false after second toggle")
	}
}

func TestToggleTagLikeWrongOwner(t *testing.T) {
	store := newFakeStore()
	friend := activeUser("henry")
	other := activeUser("iris")
	store.users = []models.User{friend, other}

	svc := newTestService(store)
	entry, err := svc.AddTag(context.Background(), friend.ID, "老朋友", friend.ID, nil)
	if err != nil {
		t.Fatalf("AddTag failed: %v", err)
	}

	if _, err := svc.ToggleTagLike(context.Background(), other.ID, entry.Tags[0].ID, other.ID, nil); !errors.Is(err, ErrTagNotFound) {
		t.Errorf("toggling a tag under the wrong friend: got %v, want ErrTagNotFound", err)
	}
}

func TestRemoveTagCascadesLikes(t *testing.T) {
	store := newFakeStore()
	friend := activeUser("judy")
	store.users = []models.User{friend}

	svc := newTestService(store)
	entry, err := svc.AddTag(context.Background(), friend.ID, "暖", friend.ID, nil)
	if err != nil {
		t.Fatalf("AddTag failed: %v", err)
	}

	entry, err = svc.RemoveTag(context.Background(), friend.ID, entry.Tags[0].ID, nil)
	if err != nil {
		t.Fatalf("RemoveTag failed: %v", err)
	}
	if len(entry.Tags) != 0 {
		t.Errorf("got %d tags after removal, want 0", len(entry.Tags))
	}
	if len(store.events) != 0 || len(store.states) != 0 {
		t.Error("tag like rows were not cascaded on delete")
	}
}

func TestBadgeLifecycle(t *testing.T) {
	store := newFakeStore()
	friend := activeUser("kate")
	store.users = []models.User{friend}

	svc := newTestService(store)
	entry, err := svc.AddBadge(context.Background(), friend.ID, "元老", "", nil)
	if err != nil {
		t.Fatalf("AddBadge failed: %v", err)
	}
	if len(entry.Badges) != 1 {
		t.Fatalf("got %d badges, want 1", len(entry.Badges))
	}
	if entry.Badges[0].Color == "" {
		t.Error("empty colorClass should have been defaulted from the palette")
	}
	if entry.Stats.Tags != 0 {
		t.Errorf("tags stat = %d, want 0", entry.Stats.Tags)
	}

	entry, err = svc.RemoveBadge(context.Background(), friend.ID, entry.Badges[0].ID, nil)
	if err != nil {
		t.Fatalf("RemoveBadge failed: %v", err)
	}
	if len(entry.Badges) != 0 {
		t.Errorf("got %d badges after removal, want 0", len(entry.Badges))
	}

	if _, err := svc.RemoveBadge(context.Background(), friend.ID, uuid.New(), nil); !errors.Is(err, ErrBadgeNotFound) {
		t.Errorf("removing unknown badge: got %v, want ErrBadgeNotFound", err)
	}
}

func TestUpdateProfilePartial(t *testing.T) {
	store := newFakeStore()
	friend := activeUser("leo")
	store.users = []models.User{friend}

	svc := newTestService(store)
	if _, err := svc.Fetch(context.Background(), nil, nil); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	before := store.profiles[friend.ID]

	alias := "新别名"
	if err := svc.UpdateProfile(context.Background(), friend.ID, ProfileUpdate{Alias: &alias}); err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	after := store.profiles[friend.ID]
	if after.Alias != alias {
		t.Errorf("alias = %q, want %q", after.Alias, alias)
	}
	if after.OrbitLabel != before.OrbitLabel {
		t.Error("orbit label changed by an unrelated partial update")
	}
}

func TestUpdateProfileUnknownFriend(t *testing.T) {
	store := newFakeStore()
	alias := "x"
	err := newTestService(store).UpdateProfile(context.Background(), uuid.New(), ProfileUpdate{Alias: &alias})
	if !errors.Is(err, ErrFriendNotFound) {
		t.Errorf("got %v, want ErrFriendNotFound", err)
	}
}

func TestFetchEmptyDirectoryShortCircuits(t *testing.T) {
	store := newFakeStore()

	entries, err := newTestService(store).Fetch(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}

	for method, count := range store.calls {
		if method != "ListActiveUsers" && count > 0 {
			t.Errorf("store method %s called %d times on an empty directory", method, count)
		}
	}
}

func TestFetchSingleUserScope(t *testing.T) {
	store := newFakeStore()
	userA := activeUser("mia")
	userB := activeUser("noah")
	store.users = []models.User{userA, userB}

	entries, err := newTestService(store).Fetch(context.Background(), nil, &userB.ID)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != userB.ID {
		t.Fatalf("scoped fetch returned wrong entries: %+v", entries)
	}
}

func TestCollectStatsDeduplicatesActivityDays(t *testing.T) {
	store := newFakeStore()
	user := activeUser("olive")
	store.users = []models.User{user}
	store.activity = []ActivityRow{
		{UserID: user.ID, ActivityDate: "2026-08-10"},
		{UserID: user.ID, ActivityDate: "2026-08-10T08:00:00Z"},
		{UserID: user.ID, ActivityDate: "2026-08-10T20:00:00Z"},
		{UserID: user.ID, ActivityDate: "2026-08-11"},
	}

	svc := newTestService(store)
	stats, err := svc.collectEngagementStats(context.Background(), []uuid.UUID{user.ID})
	if err != nil {
		t.Fatalf("collectEngagementStats failed: %v", err)
	}
	if got := stats.ActivityDays[user.ID]; got != 2 {
		t.Errorf("activity days = %d, want 2 distinct days", got)
	}
}
