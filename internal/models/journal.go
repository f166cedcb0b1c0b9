package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JournalPost struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	Content   string         `json:"content" gorm:"type:text;not null"`
	LikeCount int64          `json:"like_count" gorm:"default:0"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	User User `json:"user" gorm:"foreignKey:UserID"`
}

type JournalPostLike struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_post_liker"`
	PostID    uuid.UUID `json:"post_id" gorm:"type:uuid;not null;uniqueIndex:idx_post_liker"`
	CreatedAt time.Time `json:"created_at"`

	Post JournalPost `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

type JournalComment struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	PostID    uuid.UUID      `json:"post_id" gorm:"type:uuid;not null;index"`
	Content   string         `json:"content" gorm:"type:text;not null"`
	ParentID  *uuid.UUID     `json:"parent_id" gorm:"type:uuid"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	User User        `json:"user" gorm:"foreignKey:UserID"`
	Post JournalPost `json:"-" gorm:"foreignKey:PostID"`
}

// DailyActivity 每 (用户, 日期) 一行，标记该用户当天活跃过。
// 由活跃度标记服务在登录 / 发帖 / 评论等事件时写入。
type DailyActivity struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID       uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_day"`
	ActivityDate string    `json:"activity_date" gorm:"not null;uniqueIndex:idx_user_day"` // YYYY-MM-DD
	CreatedAt    time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

func (JournalPost) TableName() string {
	return "journal_posts"
}

func (JournalPostLike) TableName() string {
	return "journal_post_likes"
}

func (JournalComment) TableName() string {
	return "journal_comments"
}

func (DailyActivity) TableName() string {
	return "daily_activities"
}
