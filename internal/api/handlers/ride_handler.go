package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ridewithus/carpool/internal/api/dto"
	"github.com/ridewithus/carpool/internal/domain/geo"
	"github.com/ridewithus/carpool/internal/domain/ride"
	"github.com/ridewithus/carpool/internal/service/rides"
	apperrors "github.com/ridewithus/carpool/pkg/errors"
)

// CreateRide handles POST /v1/rides
func (h *Handlers) CreateRide(c *gin.Context) {
	var req dto.CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.BadRequest("Invalid request payload", err))
		return
	}

	u, ok := h.currentUser(c)
	if !ok {
		return
	}

	departure, err := time.Parse(time.RFC3339, req.DepartureTime)
	if err != nil {
		h.respondError(c, apperrors.Validation("Departure time must be RFC3339", err))
		return
	}

	created, err := h.Rides.Create(c.Request.Context(), rides.CreateInput{
		Rider:             *u,
		StartAddress:      req.StartAddress,
		EndAddress:        req.EndAddress,
		DepartureTime:     departure,
		VehicleType:       ride.VehicleType(req.VehicleType),
		AvailableSeats:    req.AvailableSeats,
		PricePerPassenger: req.PricePerPassenger,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.NR.RecordRideCreated(string(created.VehicleType), created.AvailableSeats, created.PricePerPassenger)
	h.stateChanged()
	c.JSON(http.StatusCreated, dto.SuccessResponse{
		Message: "Your ride has been published successfully!",
		Data:    created,
	})
}

// ListRides handles GET /v1/rides. The sort query selects time,
// price or rating ordering; full and closed rides never show up.
func (h *Handlers) ListRides(c *gin.Context) {
	sortBy := rides.SortBy(c.DefaultQuery("sort", string(rides.SortByTime)))

	open, err := h.Rides.List(c.Request.Context(), sortBy)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rides": open, "count": len(open)})
}

// GetRide handles GET /v1/rides/:id
func (h *Handlers) GetRide(c *gin.Context) {
	r, err := h.Rides.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// GetRideRoute handles GET /v1/rides/:id/route
func (h *Handlers) GetRideRoute(c *gin.Context) {
	r, err := h.Rides.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	const routeSteps = 20
	path := geo.Route(r.RoutePoints(), routeSteps)
	c.JSON(http.StatusOK, gin.H{"rideId": r.ID, "route": path})
}

// BookRide handles POST /v1/rides/:id/bookings. The session user
// takes the seat.
func (h *Handlers) BookRide(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}

	booked, updated, err := h.Rides.BookSeat(c.Request.Context(), c.Param("id"), *u)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.NR.RecordSeatBooked(updated.ID, updated.AvailableSeats)
	h.stateChanged()
	c.JSON(http.StatusCreated, dto.SuccessResponse{
		Message: "You have successfully booked a ride with " + updated.RiderName + ".",
		Data:    gin.H{"booking": booked, "ride": updated},
	})
}

// CompleteRide handles POST /v1/rides/:id/complete
func (h *Handlers) CompleteRide(c *gin.Context) {
	completed, err := h.Rides.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.NR.RecordRideCompleted(completed.ID, len(completed.Passengers))
	h.stateChanged()
	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Ride completed. Thank you for using carpooling!",
		Data:    completed,
	})
}

// CancelRide handles POST /v1/rides/:id/cancel
func (h *Handlers) CancelRide(c *gin.Context) {
	cancelled, err := h.Rides.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.stateChanged()
	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "The ride has been cancelled.",
		Data:    cancelled,
	})
}

// DeleteRide handles DELETE /v1/rides/:id
func (h *Handlers) DeleteRide(c *gin.Context) {
	if err := h.Rides.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	h.stateChanged()
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Ride removed"})
}
