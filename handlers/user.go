package handlers

import (
	"net/http"

	"slotify/services/user"
	"slotify/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler exposes account endpoints.
type UserHandler struct {
	UserService user.UserService
}

// RegisterUserHandler handles POST /api/users/register.
func (h *UserHandler) RegisterUserHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid registration request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.UserService.RegisterUser(req.Name, req.Email, req.Password)
	if err != nil {
		logger.Error("Registration failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// AuthenticateUserHandler handles POST /api/users/login.
func (h *UserHandler) AuthenticateUserHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.UserService.AuthenticateUser(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetUserByIDHandler handles GET /api/users/me.
func (h *UserHandler) GetUserByIDHandler(c *gin.Context) {
	logger := utils.GetLogger()

	userID := c.GetString("userID")
	usr, err := h.UserService.GetUserByID(userID)
	if err != nil {
		logger.Error("User not found", zap.String("id", userID), zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, usr)
}

// UpdateUserHandler handles PUT /api/users/me.
func (h *UserHandler) UpdateUserHandler(c *gin.Context) {
	logger := utils.GetLogger()

	userID := c.GetString("userID")
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid update request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	updated, err := h.UserService.UpdateUserName(userID, req.Name)
	if err != nil {
		logger.Error("Failed to update profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// RevokeUserAuthTokenHandler handles DELETE /api/users/revoke.
func (h *UserHandler) RevokeUserAuthTokenHandler(c *gin.Context) {
	logger := utils.GetLogger()

	userID := c.GetString("userID")
	if err := h.UserService.RevokeAuthToken(userID); err != nil {
		logger.Error("Failed to revoke token", zap.String("id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Token revoked"})
}
