package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/orbitlog/orbitlog/internal/models"
	"github.com/orbitlog/orbitlog/internal/repository"
	"github.com/orbitlog/orbitlog/pkg/logger"
	"github.com/orbitlog/orbitlog/pkg/queue"
	"golang.org/x/crypto/bcrypt"
)

type AccountService struct {
	userRepo *repository.UserRepository
	producer *queue.KafkaProducer
	logger   *logger.Logger
}

func NewAccountService(userRepo *repository.UserRepository, producer *queue.KafkaProducer, logger *logger.Logger) *AccountService {
	return &AccountService{
		userRepo: userRepo,
		producer: producer,
		logger:   logger,
	}
}

type RegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=30"`
	Password    string `json:"password" binding:"required,min=6,max=50"`
	DisplayName string `json:"display_name" binding:"max=50"`
	Signature   string `json:"signature" binding:"max=200"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register 创建待审批用户，管理员批准前不可登录。
func (s *AccountService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	existing, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, errors.New("username already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:    req.Username,
		Password:    string(hashedPassword),
		DisplayName: req.DisplayName,
		Signature:   req.Signature,
		Role:        models.RoleNormal,
		IsActive:    false,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.publish(ctx, queue.EventUserRegistered, user.ID.String(), queue.EngagementData{ActorID: user.ID.String()})
	s.logger.WithField("user_id", user.ID).Info("User registered, pending approval")
	return user, nil
}

func (s *AccountService) Login(ctx context.Context, req *LoginRequest) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, errors.New("invalid username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid username or password")
	}
	if !user.IsActive {
		return nil, errors.New("account pending admin approval")
	}

	// 登录事件驱动当日活跃标记
	s.publish(ctx, queue.EventUserLoggedIn, user.ID.String(), queue.EngagementData{ActorID: user.ID.String()})
	s.logger.WithField("user_id", user.ID).Info("User logged in")
	return user, nil
}

func (s *AccountService) ListPending(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending users: %w", err)
	}
	return users, nil
}

// Approve 批准注册，用户从此出现在好友目录里（档案由聚合服务按需补建）。
func (s *AccountService) Approve(ctx context.Context, userID string) (*models.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	if user.IsActive {
		return user, nil
	}

	if err := s.userRepo.SetActive(ctx, id, true); err != nil {
		return nil, fmt.Errorf("failed to approve user: %w", err)
	}
	user.IsActive = true

	s.publish(ctx, queue.EventUserApproved, userID, queue.EngagementData{ActorID: userID})
	s.logger.WithField("user_id", userID).Info("Registration approved")
	return user, nil
}

// Reject 拒绝注册，软删除该用户。
func (s *AccountService) Reject(ctx context.Context, userID string) error {
	id, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID: %w", err)
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return errors.New("user not found")
	}
	if user.IsActive {
		return errors.New("cannot reject an approved user")
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to reject user: %w", err)
	}
	s.logger.WithField("user_id", userID).Info("Registration rejected")
	return nil
}

func (s *AccountService) publish(ctx context.Context, eventType queue.EventType, key string, data queue.EngagementData) {
	event := queue.Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
	if err := s.producer.Publish(ctx, key, event); err != nil {
		s.logger.WithError(err).Error("Failed to publish account event")
	}
}
