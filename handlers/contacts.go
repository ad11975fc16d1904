package handlers

import (
	"net/http"

	contactRepo "slotify/database/repository/contact"
	"slotify/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContactHandler exposes the user's contact list.
type ContactHandler struct {
	Contacts contactRepo.ContactRepository
}

// ListContactsHandler handles GET /api/contacts.
func (h *ContactHandler) ListContactsHandler(c *gin.Context) {
	userID := c.GetString("userID")

	list, err := h.Contacts.GetByUser(userID)
	if err != nil {
		utils.GetLogger().Error("Failed to list contacts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list contacts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"contacts": list})
}
