package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleNormal = 0
	RoleAdmin  = 1
)

type User struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Username    string         `json:"username" gorm:"uniqueIndex;not null"`
	Password    string         `json:"-" gorm:"not null"`
	DisplayName string         `json:"display_name"`
	AvatarURL   string         `json:"avatar_url"`
	Signature   string         `json:"signature"`
	Role        int            `json:"role" gorm:"default:0"`
	IsActive    bool           `json:"is_active" gorm:"default:false"` // 注册后需管理员审批
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (User) TableName() string {
	return "users"
}
