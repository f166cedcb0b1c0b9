package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/orbitlog/orbitlog/internal/friends"
	"github.com/orbitlog/orbitlog/internal/middleware"
	"github.com/orbitlog/orbitlog/internal/models"
	"github.com/orbitlog/orbitlog/pkg/logger"
	"github.com/orbitlog/orbitlog/pkg/queue"
)

type FriendsHandler struct {
	friendService *friends.Service
	producer      *queue.KafkaProducer
	logger        *logger.Logger
}

func NewFriendsHandler(friendService *friends.Service, producer *queue.KafkaProducer, logger *logger.Logger) *FriendsHandler {
	return &FriendsHandler{
		friendService: friendService,
		producer:      producer,
		logger:        logger,
	}
}

func (h *FriendsHandler) publish(c *gin.Context, eventType queue.EventType, key string, data queue.EngagementData) {
	event := queue.Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
	if err := h.producer.Publish(c.Request.Context(), key, event); err != nil {
		h.logger.WithError(err).Error("Failed to publish friend event")
	}
}

// viewerID 从可选认证里取，未登录时所有标签的 likedByMe 为 false。
func viewerID(c *gin.Context) *uuid.UUID {
	raw := middleware.GetUserID(c)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

func friendParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid friend ID"})
		return uuid.Nil, false
	}
	return id, true
}

func respondFriendError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, friends.ErrFriendNotFound),
		errors.Is(err, friends.ErrTagNotFound),
		errors.Is(err, friends.ErrBadgeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, friends.ErrEmptyLabel):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func respondEntry(c *gin.Context, entry *friends.FriendEntry) {
	if entry == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "好友不存在或已停用"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"friend": entry})
}

func (h *FriendsHandler) List(c *gin.Context) {
	entries, err := h.friendService.Fetch(c.Request.Context(), viewerID(c), nil)
	if err != nil {
		respondFriendError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"friends": entries})
}

func (h *FriendsHandler) Get(c *gin.Context) {
	friendID, ok := friendParam(c)
	if !ok {
		return
	}
	entries, err := h.friendService.Fetch(c.Request.Context(), viewerID(c), &friendID)
	if err != nil {
		respondFriendError(c, err)
		return
	}
	if len(entries) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "好友不存在或已停用"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"friend": entries[0]})
}

func (h *FriendsHandler) UpdateProfile(c *gin.Context) {
	friendID, ok := friendParam(c)
	if !ok {
		return
	}

	isAdmin := middleware.GetRole(c) == models.RoleAdmin
	if middleware.GetUserID(c) != friendID.String() && !isAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to edit this profile"})
		return
	}

	var payload friends.ProfileUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// isAdmin 标记只有管理员能改
	if !isAdmin {
		payload.IsAdmin = nil
	}

	if err := h.friendService.UpdateProfile(c.Request.Context(), friendID, payload); err != nil {
		respondFriendError(c, err)
		return
	}
	entries, err := h.friendService.Fetch(c.Request.Context(), viewerID(c), &friendID)
	if err != nil {
		respondFriendError(c, err)
		return
	}
	if len(entries) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "好友不存在或已停用"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"friend": entries[0]})
}

type addTagRequest struct {
	Label string `json:"label" binding:"required,max=20"`
}

func (h *FriendsHandler) AddTag(c *gin.Context) {
	friendID, ok := friendParam(c)
	if !ok {
		return
	}
	author := viewerID(c)
	if author == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req addTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.friendService.AddTag(c.Request.Context(), friendID, req.Label, *author, author)
	if err != nil {
		respondFriendError(c, err)
		return
	}
	h.publish(c, queue.EventTagAdded, author.String(), queue.EngagementData{
		ActorID:  author.String(),
		TargetID: friendID.String(),
	})
	respondEntry(c, entry)
}

func (h *FriendsHandler) LikeTag(c *gin.Context) {
	friendID, ok := friendParam(c)
	if !ok {
		return
	}
	tagID, err := uuid.Parse(c.Param("tagId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tag ID"})
		return
	}
	actor := viewerID(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	entry, err := h.friendService.ToggleTagLike(c.Request.Context(), friendID, tagID, *actor, actor)
	if err != nil {
		respondFriendError(c, err)
		return
	}
	h.publish(c, queue.EventTagLiked, actor.String(), queue.EngagementData{
		ActorID:  actor.String(),
		TargetID: friendID.String(),
		ObjectID: tagID.String(),
	})
	respondEntry(c, entry)
}

func (h *FriendsHandler) RemoveTag(c *gin.Context) {
	friendID, ok := friendParam(c)
	if !ok {
		return
	}
	tagID, err := uuid.Parse(c.Param("tagId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tag ID"})
		return
	}

	entry, err := h.friendService.RemoveTag(c.Request.Context(), friendID, tagID, viewerID(c))
	if err != nil {
		respondFriendError(c, err)
		return
	}
	respondEntry(c, entry)
}

type addBadgeRequest struct {
	Label      string `json:"label" binding:"required,max=20"`
	ColorClass string `json:"colorClass"`
}

func (h *FriendsHandler) AddBadge(c *gin.Context) {
	friendID, ok := friendParam(c)
	if !ok {
		return
	}

	var req addBadgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.friendService.AddBadge(c.Request.Context(), friendID, req.Label, req.ColorClass, viewerID(c))
	if err != nil {
		respondFriendError(c, err)
		return
	}
	h.publish(c, queue.EventBadgeAwarded, friendID.String(), queue.EngagementData{
		ActorID:  middleware.GetUserID(c),
		TargetID: friendID.String(),
	})
	respondEntry(c, entry)
}

func (h *FriendsHandler) RemoveBadge(c *gin.Context) {
	friendID, ok := friendParam(c)
	if !ok {
		return
	}
	badgeID, err := uuid.Parse(c.Param("badgeId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid badge ID"})
		return
	}

	entry, err := h.friendService.RemoveBadge(c.Request.Context(), friendID, badgeID, viewerID(c))
	if err != nil {
		respondFriendError(c, err)
		return
	}
	respondEntry(c, entry)
}
