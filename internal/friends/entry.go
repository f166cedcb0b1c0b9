package friends

import (
	"time"

	"github.com/google/uuid"
)

// FriendEntry 是返回给接口调用方的好友卡片视图模型，
// 每次读取都从源表重新拼装，不做缓存。
type FriendEntry struct {
	ID                  uuid.UUID   `json:"id"`
	Username            string      `json:"username"`
	DisplayName         string      `json:"displayName"`
	Alias               string      `json:"alias"`
	IsAdmin             bool        `json:"isAdmin"`
	AvatarURL           string      `json:"avatarUrl"`
	Signature           string      `json:"signature"`
	Location            string      `json:"location"`
	Badges              []BadgeView `json:"badges"`
	Stats               EntryStats  `json:"stats"`
	Accent              string      `json:"accent"`
	Neon                string      `json:"neon"`
	Tags                []TagView   `json:"tags"`
	Story               string      `json:"story"`
	CustomAreaTitle     string      `json:"customAreaTitle"`
	CustomAreaHighlight string      `json:"customAreaHighlight"`
}

type EntryStats struct {
	ActivityScore     int    `json:"activityScore"`
	Likes             int    `json:"likes"`
	Comments          int    `json:"comments"`
	Tags              int    `json:"tags"`
	Orbit             string `json:"orbit"`
	CompanionshipDays int    `json:"companionshipDays"`
}

type TagView struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	Likes     int       `json:"likes"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	LikedByMe bool      `json:"likedByMe"`
}

type BadgeView struct {
	ID    uuid.UUID `json:"id"`
	Label string    `json:"label"`
	Color string    `json:"color"`
}
