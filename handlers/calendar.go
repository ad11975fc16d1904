package handlers

import (
	"errors"
	"net/http"

	userRepo "slotify/database/repository/user"
	"slotify/models"
	"slotify/services/calendar"
	"slotify/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CalendarHandler exposes the calendar connection and sync endpoints.
type CalendarHandler struct {
	Conn     *calendar.ConnectionManager
	Sync     *calendar.SyncEngine
	UserRepo userRepo.UserRepository
}

// ConnectCalendarHandler handles POST /api/calendar/connect. It returns
// the provider authorization URL for the frontend to open.
func (h *CalendarHandler) ConnectCalendarHandler(c *gin.Context) {
	logger := utils.GetLogger()
	userID := c.GetString("userID")

	var req struct {
		Provider string `json:"provider" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	kind := models.ProviderKind(req.Provider)
	if !models.KnownProvider(kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported provider: " + req.Provider})
		return
	}

	authURL, err := h.Conn.BeginConnection(userID, kind)
	if err != nil {
		var cfg *calendar.ConfigurationError
		if errors.As(err, &cfg) {
			logger.Error("Provider not configured", zap.String("provider", req.Provider), zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": cfg.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start calendar connection"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"auth_url": authURL})
}

// CalendarCallbackHandler handles GET /api/calendar/callback, the OAuth
// redirect target. It is unauthenticated; the state parameter carries
// the user correlation. A malformed state leaves every connection
// untouched.
func (h *CalendarHandler) CalendarCallbackHandler(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")

	// The provider redirects with error= instead of code= when the user
	// denies consent.
	if oauthErr := c.Query("error"); oauthErr != "" {
		if err := h.Conn.FailAuthorization(state, oauthErr); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"error": "Authorization was not granted: " + oauthErr})
		return
	}

	if state == "" || code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing state or code parameter"})
		return
	}

	summary, err := h.Conn.HandleCallback(c.Request.Context(), state, code)
	if err != nil {
		var ce *calendar.ConnectionError
		if errors.As(err, &ce) {
			c.JSON(http.StatusBadGateway, gin.H{"error": ce.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// SyncCalendarHandler handles POST /api/calendar/sync: a one-shot pull
// of provider contacts and events.
func (h *CalendarHandler) SyncCalendarHandler(c *gin.Context) {
	userID := c.GetString("userID")

	usr, err := h.UserRepo.GetByID(userID)
	if err != nil || usr == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	result, err := h.Sync.PullContactsAndEvents(c.Request.Context(), usr)
	if err != nil {
		var nc *calendar.NotConnectedError
		if errors.As(err, &nc) {
			c.JSON(http.StatusConflict, gin.H{"error": "No calendar connected"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// DisconnectCalendarHandler handles DELETE /api/calendar/connection.
// Disconnecting is idempotent.
func (h *CalendarHandler) DisconnectCalendarHandler(c *gin.Context) {
	userID := c.GetString("userID")
	if err := h.Conn.Disconnect(userID); err != nil {
		utils.GetLogger().Error("Disconnect failed", zap.String("id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to disconnect calendar"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Calendar disconnected"})
}

// CalendarStatusHandler handles GET /api/calendar/status.
func (h *CalendarHandler) CalendarStatusHandler(c *gin.Context) {
	userID := c.GetString("userID")

	usr, err := h.UserRepo.GetByID(userID)
	if err != nil || usr == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	conn := usr.Connection()
	c.JSON(http.StatusOK, models.ConnectionSummary{
		Provider:   conn.Provider,
		Status:     conn.Status,
		CalendarID: conn.CalendarID,
	})
}
