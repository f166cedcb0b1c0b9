package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/orbitlog/orbitlog/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type JournalRepository struct {
	db *gorm.DB
}

func NewJournalRepository(db *gorm.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

func (r *JournalRepository) CreatePost(ctx context.Context, post *models.JournalPost) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("failed to create journal post: %w", err)
	}
	return nil
}

func (r *JournalRepository) GetPostByID(ctx context.Context, id uuid.UUID) (*models.JournalPost, error) {
	var post models.JournalPost
	if err := r.db.WithContext(ctx).
		Preload("User").
		First(&post, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get journal post: %w", err)
	}
	return &post, nil
}

func (r *JournalRepository) ListPosts(ctx context.Context, offset, limit int) ([]*models.JournalPost, error) {
	var posts []*models.JournalPost
	if err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list journal posts: %w", err)
	}
	return posts, nil
}

func (r *JournalRepository) DeletePost(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Delete(&models.JournalPost{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete journal post: %w", err)
	}
	return nil
}

func (r *JournalRepository) UpdatePostLikeCount(ctx context.Context, postID uuid.UUID, delta int64) error {
	if err := r.db.WithContext(ctx).Model(&models.JournalPost{}).
		Where("id = ?", postID).
		UpdateColumn("like_count", gorm.Expr("like_count + ?", delta)).Error; err != nil {
		return fmt.Errorf("failed to update post like count: %w", err)
	}
	return nil
}

func (r *JournalRepository) GetPostLike(ctx context.Context, userID, postID uuid.UUID) (*models.JournalPostLike, error) {
	var like models.JournalPostLike
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&like).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get post like: %w", err)
	}
	return &like, nil
}

func (r *JournalRepository) CreatePostLike(ctx context.Context, like *models.JournalPostLike) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
			DoNothing: true,
		}).
		Create(like).Error; err != nil {
		return fmt.Errorf("failed to create post like: %w", err)
	}
	return nil
}

func (r *JournalRepository) DeletePostLike(ctx context.Context, userID, postID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.JournalPostLike{}).Error; err != nil {
		return fmt.Errorf("failed to delete post like: %w", err)
	}
	return nil
}

func (r *JournalRepository) CreateComment(ctx context.Context, comment *models.JournalComment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create journal comment: %w", err)
	}
	return nil
}

func (r *JournalRepository) GetCommentByID(ctx context.Context, id uuid.UUID) (*models.JournalComment, error) {
	var comment models.JournalComment
	if err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get journal comment: %w", err)
	}
	return &comment, nil
}

func (r *JournalRepository) ListComments(ctx context.Context, postID uuid.UUID, offset, limit int) ([]*models.JournalComment, error) {
	var comments []*models.JournalComment
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("failed to list journal comments: %w", err)
	}
	return comments, nil
}

func (r *JournalRepository) DeleteComment(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Delete(&models.JournalComment{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete journal comment: %w", err)
	}
	return nil
}

