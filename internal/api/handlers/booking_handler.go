package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ridewithus/carpool/internal/api/dto"
)

// ListBookings handles GET /v1/bookings. Returns the user's bookings,
// as passenger or as the rider of the booked ride, split into active
// and past. user_id overrides the session user.
func (h *Handlers) ListBookings(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		u, ok := h.currentUser(c)
		if !ok {
			return
		}
		userID = u.ID
	}

	summary, err := h.Bookings.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetBooking handles GET /v1/bookings/:id. The payload carries the
// joined ride, a live ETA and, while waiting for pickup, a display
// OTP.
func (h *Handlers) GetBooking(c *gin.Context) {
	detail, err := h.Bookings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// ConfirmPickup handles POST /v1/bookings/:id/pickup
func (h *Handlers) ConfirmPickup(c *gin.Context) {
	picked, started, err := h.Rides.ConfirmPickup(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.stateChanged()
	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Passenger " + picked.PassengerName + " has been picked up.",
		Data:    gin.H{"booking": picked, "ride": started},
	})
}

// CancelBooking handles POST /v1/bookings/:id/cancel
func (h *Handlers) CancelBooking(c *gin.Context) {
	cancelled, err := h.Bookings.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.stateChanged()
	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Your booking has been cancelled.",
		Data:    cancelled,
	})
}
