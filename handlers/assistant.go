package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"slotify/models"
	"slotify/services/booking"
	ai "slotify/services/intelligence"
	"slotify/services/scheduling"
	"slotify/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AssistantHandler drives the chat flow: free text in, an intent plus
// suggested slots out, and on the follow-up turn a confirmed booking.
type AssistantHandler struct {
	Extractor      *ai.IntentExtractor
	Recommender    *scheduling.Recommender
	BookingService booking.BookingService
	Context        *ai.RedisContextStore
}

// ChatHandler handles POST /api/assistant/chat.
func (h *AssistantHandler) ChatHandler(c *gin.Context) {
	logger := utils.GetLogger()
	userID := c.GetString("userID")

	var req models.AssistantRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A non-empty text message is required"})
		return
	}

	assistantCtx, err := h.Context.Get(c.Request.Context(), userID)
	if err != nil {
		logger.Warn("Assistant context unavailable, starting fresh", zap.Error(err))
		assistantCtx = &models.AssistantContext{}
	}

	// Follow-up turn: the user is picking one of the offered slots.
	if assistantCtx.PendingIntent != nil && len(assistantCtx.OfferedSlots) > 0 {
		if idx, ok := parseSlotSelection(req.Text, len(assistantCtx.OfferedSlots)); ok {
			h.bookSelectedSlot(c, userID, assistantCtx, idx)
			return
		}
	}

	intent, err := h.Extractor.Extract(c.Request.Context(), req.Text)
	if err != nil {
		var pe *ai.IntentParseError
		if errors.As(err, &pe) {
			c.JSON(http.StatusOK, models.AssistantResponse{
				ResponseText: "Sorry, I couldn't work out what you'd like to schedule. Could you rephrase that?",
			})
			return
		}
		logger.Error("Intent extraction failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "The assistant is unavailable right now"})
		return
	}

	existing, err := h.BookingService.GetBookings(c.Request.Context(), userID)
	if err != nil {
		logger.Warn("Could not load bookings for slot suggestion", zap.Error(err))
		existing = nil
	}

	slots := h.Recommender.Suggest(c.Request.Context(), intent, existing)

	if err := h.Context.Set(c.Request.Context(), userID, &models.AssistantContext{
		PendingIntent: intent,
		OfferedSlots:  slots,
	}); err != nil {
		logger.Warn("Failed to save assistant context", zap.Error(err))
	}

	actions := make([]models.AssistantAction, 0, len(slots))
	for i, slot := range slots {
		actions = append(actions, models.AssistantAction{
			Label:     slot.Label,
			Type:      "select_slot",
			SlotIndex: i,
		})
	}

	c.JSON(http.StatusOK, models.AssistantResponse{
		ResponseText: fmt.Sprintf("Here's what I found for your %s. Which slot works for you?", intent.EventType),
		Intent:       intent,
		Slots:        slots,
		Actions:      actions,
	})
}

// SelectSlotHandler handles POST /api/assistant/select-slot for clients
// that send the chosen index directly instead of free text.
func (h *AssistantHandler) SelectSlotHandler(c *gin.Context) {
	userID := c.GetString("userID")

	var req struct {
		SlotIndex int `json:"slot_index"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	assistantCtx, err := h.Context.Get(c.Request.Context(), userID)
	if err != nil || assistantCtx.PendingIntent == nil || len(assistantCtx.OfferedSlots) == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "There is no pending suggestion to confirm"})
		return
	}
	if req.SlotIndex < 0 || req.SlotIndex >= len(assistantCtx.OfferedSlots) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slot_index out of range"})
		return
	}

	h.bookSelectedSlot(c, userID, assistantCtx, req.SlotIndex)
}

func (h *AssistantHandler) bookSelectedSlot(c *gin.Context, userID string, assistantCtx *models.AssistantContext, idx int) {
	logger := utils.GetLogger()
	intent := assistantCtx.PendingIntent
	slot := assistantCtx.OfferedSlots[idx]

	createReq := booking.CreateBookingRequest{
		Title:       titleFromIntent(intent),
		Description: intent.Notes,
		Start:       slot.Start,
		End:         slot.End,
		Type:        intent.EventType,
		Location:    intent.Location,
	}
	if len(intent.Invitees) > 0 {
		createReq.InviteeName = intent.Invitees[0]
	}

	rec, sync, err := h.BookingService.CreateBooking(c.Request.Context(), userID, createReq)
	if err != nil {
		logger.Error("Failed to create booking from slot", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create the booking"})
		return
	}

	if err := h.Context.Clear(c.Request.Context(), userID); err != nil {
		logger.Warn("Failed to clear assistant context", zap.Error(err))
	}

	text := fmt.Sprintf("Done! Your %s is booked for %s.", intent.EventType, slot.Label)
	if sync != nil && sync.Status == models.SyncFailed {
		text += " I couldn't mirror it to your calendar, though."
	}

	c.JSON(http.StatusOK, models.AssistantResponse{
		ResponseText: text,
		Booking:      rec,
		Sync:         sync,
	})
}

// parseSlotSelection interprets a short follow-up message as a slot
// choice: a bare number, an ordinal, or a plain yes when only one slot
// was offered.
func parseSlotSelection(text string, offered int) (int, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	t = strings.TrimSuffix(t, ".")
	t = strings.TrimSuffix(t, "!")

	for _, prefix := range []string{"option ", "slot ", "number "} {
		t = strings.TrimPrefix(t, prefix)
	}

	if n, err := strconv.Atoi(t); err == nil && n >= 1 && n <= offered {
		return n - 1, true
	}

	ordinals := map[string]int{
		"first": 0, "the first": 0, "first one": 0, "the first one": 0,
		"second": 1, "the second": 1, "second one": 1, "the second one": 1,
		"third": 2, "the third": 2, "third one": 2, "the third one": 2,
	}
	if idx, ok := ordinals[t]; ok && idx < offered {
		return idx, true
	}

	if offered == 1 {
		switch t {
		case "yes", "yep", "sure", "ok", "okay", "book it", "sounds good", "that works":
			return 0, true
		}
	}
	return 0, false
}

func titleFromIntent(intent *models.BookingIntent) string {
	label := strings.TrimSpace(intent.EventType)
	if label == "" {
		label = "Meeting"
	} else {
		label = strings.ToUpper(label[:1]) + label[1:]
	}
	if len(intent.Invitees) > 0 {
		return fmt.Sprintf("%s with %s", label, intent.Invitees[0])
	}
	return label
}
