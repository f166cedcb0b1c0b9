package models

import (
	"time"

	"github.com/google/uuid"
)

// FriendProfile 与用户一一对应，存放好友卡片的展示字段。
// 缺失的行由好友聚合服务按需补建（lazy backfill）。
type FriendProfile struct {
	UserID              uuid.UUID `json:"user_id" gorm:"type:uuid;primary_key"`
	Alias               string    `json:"alias"`
	Location            string    `json:"location"`
	AccentClass         string    `json:"accent_class"`
	NeonClass           string    `json:"neon_class"`
	Story               string    `json:"story"`
	CustomAreaTitle     string    `json:"custom_area_title"`
	CustomAreaHighlight string    `json:"custom_area_highlight"`
	IsAdmin             *bool     `json:"is_admin"` // 展示用标记，独立于 User.Role
	ActivityScore       *int      `json:"activity_score"`
	Comments            int       `json:"comments"`
	Streak              int       `json:"streak"`
	OrbitLabel          string    `json:"orbit_label"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

type FriendTag struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TargetUserID uuid.UUID `json:"target_user_id" gorm:"type:uuid;not null;index"`
	CreatedBy    uuid.UUID `json:"created_by" gorm:"type:uuid;not null"`
	Label        string    `json:"label" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`

	Target User `json:"-" gorm:"foreignKey:TargetUserID"`
}

// FriendTagLike 是幂等的当前状态表：每 (tag, user) 至多一行。
type FriendTagLike struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TagID     uuid.UUID `json:"tag_id" gorm:"type:uuid;not null;uniqueIndex:idx_tag_user"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_tag_user"`
	CreatedAt time.Time `json:"created_at"`

	Tag FriendTag `json:"-" gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE"`
}

// FriendTagLikeEvent 是只增不减的计数日志：每次点赞动作追加一行，不按用户去重。
type FriendTagLikeEvent struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TagID     uuid.UUID `json:"tag_id" gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null"`
	CreatedAt time.Time `json:"created_at"`

	Tag FriendTag `json:"-" gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE"`
}

type FriendBadge struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Label      string    `json:"label" gorm:"not null"`
	ColorClass string    `json:"color_class"`
	CreatedAt  time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

func (FriendProfile) TableName() string {
	return "friend_profiles"
}

func (FriendTag) TableName() string {
	return "friend_tags"
}

func (FriendTagLike) TableName() string {
	return "friend_tag_likes"
}

func (FriendTagLikeEvent) TableName() string {
	return "friend_tag_like_events"
}

func (FriendBadge) TableName() string {
	return "friend_badges"
}
