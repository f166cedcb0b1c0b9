package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orbitlog/orbitlog/internal/models"
	"github.com/orbitlog/orbitlog/internal/repository"
	"github.com/orbitlog/orbitlog/pkg/logger"
	"github.com/orbitlog/orbitlog/pkg/queue"
)

type JournalService struct {
	journalRepo *repository.JournalRepository
	userRepo    *repository.UserRepository
	producer    *queue.KafkaProducer
	logger      *logger.Logger
}

func NewJournalService(journalRepo *repository.JournalRepository, userRepo *repository.UserRepository, producer *queue.KafkaProducer, logger *logger.Logger) *JournalService {
	return &JournalService{
		journalRepo: journalRepo,
		userRepo:    userRepo,
		producer:    producer,
		logger:      logger,
	}
}

type CreatePostRequest struct {
	Content string `json:"content" binding:"required,min=1,max=5000"`
}

type CreateCommentRequest struct {
	Content  string  `json:"content" binding:"required,min=1,max=1000"`
	ParentID *string `json:"parent_id"`
}

func (s *JournalService) CreatePost(ctx context.Context, userID string, req *CreatePostRequest) (*models.JournalPost, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, errors.New("post content cannot be empty")
	}

	user, err := s.userRepo.GetByID(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	post := &models.JournalPost{
		UserID:    userUUID,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}
	if err := s.journalRepo.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.publish(ctx, queue.EventPostCreated, userID, queue.EngagementData{
		ActorID:  userID,
		ObjectID: post.ID.String(),
	})
	s.logger.WithFields(map[string]interface{}{
		"post_id": post.ID,
		"user_id": userID,
	}).Info("Journal post created")
	return post, nil
}

func (s *JournalService) ListPosts(ctx context.Context, offset, limit int) ([]*models.JournalPost, error) {
	posts, err := s.journalRepo.ListPosts(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// DeletePost 软删除，作者本人或管理员可删。
func (s *JournalService) DeletePost(ctx context.Context, actorID string, actorRole int, postID string) error {
	postUUID, err := uuid.Parse(postID)
	if err != nil {
		return fmt.Errorf("invalid post ID: %w", err)
	}
	post, err := s.journalRepo.GetPostByID(ctx, postUUID)
	if err != nil {
		return fmt.Errorf("failed to get post: %w", err)
	}
	if post == nil {
		return errors.New("post not found")
	}
	if post.UserID.String() != actorID && actorRole != models.RoleAdmin {
		return errors.New("not allowed to delete this post")
	}
	if err := s.journalRepo.DeletePost(ctx, postUUID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// LikePost 幂等状态行 + like_count 计数列，重复点赞直接返回。
func (s *JournalService) LikePost(ctx context.Context, userID, postID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID: %w", err)
	}
	postUUID, err := uuid.Parse(postID)
	if err != nil {
		return fmt.Errorf("invalid post ID: %w", err)
	}

	post, err := s.journalRepo.GetPostByID(ctx, postUUID)
	if err != nil {
		return fmt.Errorf("failed to get post: %w", err)
	}
	if post == nil {
		return errors.New("post not found")
	}

	existing, err := s.journalRepo.GetPostLike(ctx, userUUID, postUUID)
	if err != nil {
		return fmt.Errorf("failed to check like status: %w", err)
	}
	if existing != nil {
		return nil
	}

	like := &models.JournalPostLike{
		UserID:    userUUID,
		PostID:    postUUID,
		CreatedAt: time.Now(),
	}
	if err := s.journalRepo.CreatePostLike(ctx, like); err != nil {
		return fmt.Errorf("failed to create like: %w", err)
	}
	if err := s.journalRepo.UpdatePostLikeCount(ctx, postUUID, 1); err != nil {
		s.logger.WithError(err).Error("Failed to update post like count")
	}

	s.publish(ctx, queue.EventPostLiked, userID, queue.EngagementData{
		ActorID:  userID,
		TargetID: post.UserID.String(),
		ObjectID: postID,
	})
	return nil
}

func (s *JournalService) UnlikePost(ctx context.Context, userID, postID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID: %w", err)
	}
	postUUID, err := uuid.Parse(postID)
	if err != nil {
		return fmt.Errorf("invalid post ID: %w", err)
	}

	existing, err := s.journalRepo.GetPostLike(ctx, userUUID, postUUID)
	if err != nil {
		return fmt.Errorf("failed to check like status: %w", err)
	}
	if existing == nil {
		return nil
	}

	if err := s.journalRepo.DeletePostLike(ctx, userUUID, postUUID); err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}
	if err := s.journalRepo.UpdatePostLikeCount(ctx, postUUID, -1); err != nil {
		s.logger.WithError(err).Error("Failed to update post like count")
	}
	return nil
}

func (s *JournalService) CreateComment(ctx context.Context, userID, postID string, req *CreateCommentRequest) (*models.JournalComment, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}
	postUUID, err := uuid.Parse(postID)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID: %w", err)
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, errors.New("comment content cannot be empty")
	}

	post, err := s.journalRepo.GetPostByID(ctx, postUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if post == nil {
		return nil, errors.New("post not found")
	}

	comment := &models.JournalComment{
		UserID:    userUUID,
		PostID:    postUUID,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}
	if req.ParentID != nil {
		parentUUID, err := uuid.Parse(*req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("invalid parent comment ID: %w", err)
		}
		comment.ParentID = &parentUUID
	}
	if err := s.journalRepo.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.publish(ctx, queue.EventCommentCreated, userID, queue.EngagementData{
		ActorID:  userID,
		TargetID: post.UserID.String(),
		ObjectID: comment.ID.String(),
	})
	return comment, nil
}

func (s *JournalService) ListComments(ctx context.Context, postID string, offset, limit int) ([]*models.JournalComment, error) {
	postUUID, err := uuid.Parse(postID)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID: %w", err)
	}
	comments, err := s.journalRepo.ListComments(ctx, postUUID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

func (s *JournalService) DeleteComment(ctx context.Context, actorID string, actorRole int, commentID string) error {
	commentUUID, err := uuid.Parse(commentID)
	if err != nil {
		return fmt.Errorf("invalid comment ID: %w", err)
	}
	comment, err := s.journalRepo.GetCommentByID(ctx, commentUUID)
	if err != nil {
		return fmt.Errorf("failed to get comment: %w", err)
	}
	if comment == nil {
		return errors.New("comment not found")
	}
	if comment.UserID.String() != actorID && actorRole != models.RoleAdmin {
		return errors.New("not allowed to delete this comment")
	}
	if err := s.journalRepo.DeleteComment(ctx, commentUUID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

func (s *JournalService) publish(ctx context.Context, eventType queue.EventType, key string, data queue.EngagementData) {
	event := queue.Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
	if err := s.producer.Publish(ctx, key, event); err != nil {
		s.logger.WithError(err).Error("Failed to publish journal event")
	}
}
