package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orbitlog/orbitlog/internal/config"
	"github.com/orbitlog/orbitlog/internal/middleware"
	"github.com/orbitlog/orbitlog/internal/services"
)

type AccountHandler struct {
	accountService *services.AccountService
	jwtConfig      *config.JWTConfig
}

func NewAccountHandler(accountService *services.AccountService, jwtConfig *config.JWTConfig) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		jwtConfig:      jwtConfig,
	}
}

func (h *AccountHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.accountService.Register(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration submitted, waiting for admin approval",
		"user":    user,
	})
}

func (h *AccountHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.accountService.Login(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	token, err := middleware.GenerateToken(user.ID.String(), user.Username, user.Role, h.jwtConfig.Secret, h.jwtConfig.ExpireTime)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

func (h *AccountHandler) ListPending(c *gin.Context) {
	users, err := h.accountService.ListPending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": users})
}

func (h *AccountHandler) Approve(c *gin.Context) {
	user, err := h.accountService.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Registration approved",
		"user":    user,
	})
}

func (h *AccountHandler) Reject(c *gin.Context) {
	if err := h.accountService.Reject(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Registration rejected"})
}
