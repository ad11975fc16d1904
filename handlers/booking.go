package handlers

import (
	"context"
	"errors"
	"net/http"

	"slotify/models"
	"slotify/services/booking"
	"slotify/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes booking lifecycle endpoints.
type BookingHandler struct {
	BookingService booking.BookingService
}

// CreateBookingHandler handles POST /api/bookings. The response always
// carries a sync section describing whether the calendar mirror
// happened; a failed mirror never fails the request.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	logger := utils.GetLogger()
	userID := c.GetString("userID")

	var req booking.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid booking request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	rec, sync, err := h.BookingService.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		var verr *booking.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}
		logger.Error("Failed to create booking", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"booking": rec, "sync": sync})
}

// GetBookingsHandler handles GET /api/bookings.
func (h *BookingHandler) GetBookingsHandler(c *gin.Context) {
	logger := utils.GetLogger()
	userID := c.GetString("userID")

	list, err := h.BookingService.GetBookings(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list bookings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bookings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list})
}

// GetBookingHandler handles GET /api/bookings/:id.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	userID := c.GetString("userID")
	rec, err := h.BookingService.GetBooking(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// ConfirmBookingHandler handles PUT /api/bookings/:id/confirm.
func (h *BookingHandler) ConfirmBookingHandler(c *gin.Context) {
	h.transition(c, h.BookingService.ConfirmBooking)
}

// CancelBookingHandler handles PUT /api/bookings/:id/cancel.
func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	h.transition(c, h.BookingService.CancelBooking)
}

func (h *BookingHandler) transition(c *gin.Context, op func(ctx context.Context, userID, bookingID string) (*models.Booking, error)) {
	userID := c.GetString("userID")
	rec, err := op(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		var nf *booking.NotFoundError
		if errors.As(err, &nf) {
			c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
			return
		}
		var se *booking.StateError
		if errors.As(err, &se) {
			c.JSON(http.StatusConflict, gin.H{"error": se.Error()})
			return
		}
		utils.GetLogger().Error("Booking transition failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Booking update failed"})
		return
	}
	c.JSON(http.StatusOK, rec)
}
