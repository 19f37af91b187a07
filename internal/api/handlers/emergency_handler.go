package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ridewithus/carpool/internal/api/dto"
	"github.com/ridewithus/carpool/internal/domain/emergency"
	"github.com/ridewithus/carpool/internal/domain/geo"
	emergencysvc "github.com/ridewithus/carpool/internal/service/emergency"
	apperrors "github.com/ridewithus/carpool/pkg/errors"
)

// ListEmergencyVehicles handles GET /v1/emergency
func (h *Handlers) ListEmergencyVehicles(c *gin.Context) {
	vehicles, err := h.Emergency.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles, "count": len(vehicles)})
}

// AddEmergencyVehicle handles POST /v1/emergency
func (h *Handlers) AddEmergencyVehicle(c *gin.Context) {
	var req dto.AddEmergencyVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.BadRequest("Invalid request payload", err))
		return
	}

	v, err := h.Emergency.Add(c.Request.Context(), emergencysvc.AddInput{
		Type: emergency.VehicleType(req.Type),
		CurrentLocation: geo.Location{
			Address: req.CurrentAddress,
			Lat:     req.CurrentLat,
			Lng:     req.CurrentLng,
		},
		Destination: geo.Location{
			Address: req.DestAddress,
			Lat:     req.DestLat,
			Lng:     req.DestLng,
		},
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.stateChanged()
	c.JSON(http.StatusCreated, dto.SuccessResponse{
		Message: "Emergency vehicle registered",
		Data:    v,
	})
}

// ToggleEmergencyVehicle handles POST /v1/emergency/:id/toggle. The
// response echoes the persisted status so the client banner always
// matches the document.
func (h *Handlers) ToggleEmergencyVehicle(c *gin.Context) {
	v, err := h.Emergency.Toggle(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.NR.RecordEmergencyToggled(string(v.Type), string(v.Status))
	h.stateChanged()
	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Emergency vehicle is now " + string(v.Status),
		Data:    v,
	})
}

// GetEmergencyRoute handles GET /v1/emergency/:id/route
func (h *Handlers) GetEmergencyRoute(c *gin.Context) {
	path, err := h.Emergency.Route(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicleId": c.Param("id"), "route": path})
}
