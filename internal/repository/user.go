package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/orbitlog/orbitlog/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// ListActiveUsers 返回激活用户，userID 给定时收窄到单个用户。
func (r *UserRepository) ListActiveUsers(ctx context.Context, userID *uuid.UUID) ([]models.User, error) {
	var users []models.User
	db := r.db.WithContext(ctx).Where("is_active = ?", true)
	if userID != nil {
		db = db.Where("id = ?", *userID)
	}
	if err := db.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}
	return users, nil
}

// ListPending 返回等待管理员审批的注册用户。
func (r *UserRepository) ListPending(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", false).
		Order("created_at ASC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list pending users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("is_active", active).Error; err != nil {
		return fmt.Errorf("failed to set user active: %w", err)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (r *UserRepository) FetchDisplayNames(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string)
	if len(userIDs) == 0 {
		return names, nil
	}
	var users []models.User
	if err := r.db.WithContext(ctx).
		Select("id", "display_name", "username").
		Where("id IN ?", userIDs).
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch display names: %w", err)
	}
	for _, u := range users {
		name := u.DisplayName
		if name == "" {
			name = u.Username
		}
		names[u.ID] = name
	}
	return names, nil
}
