package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ridewithus/carpool/internal/api/dto"
	"github.com/ridewithus/carpool/internal/domain/user"
	"github.com/ridewithus/carpool/internal/service/bookings"
	"github.com/ridewithus/carpool/internal/service/emergency"
	"github.com/ridewithus/carpool/internal/service/rides"
	"github.com/ridewithus/carpool/internal/store"
	apperrors "github.com/ridewithus/carpool/pkg/errors"
	"github.com/ridewithus/carpool/pkg/logger"
	"github.com/ridewithus/carpool/pkg/monitoring"
	"github.com/ridewithus/carpool/pkg/websocket"
)

// Handlers holds all handler dependencies
type Handlers struct {
	Store     *store.Store
	Rides     *rides.Service
	Bookings  *bookings.Service
	Emergency *emergency.Service
	Hub       *websocket.Hub
	Logger    *logger.Logger
	NR        *monitoring.NewRelicApp
}

// NewHandlers creates a new Handlers instance
func NewHandlers(st *store.Store, ridesSvc *rides.Service, bookingsSvc *bookings.Service, emergencySvc *emergency.Service, hub *websocket.Hub, logger *logger.Logger, nr *monitoring.NewRelicApp) *Handlers {
	return &Handlers{
		Store:     st,
		Rides:     ridesSvc,
		Bookings:  bookingsSvc,
		Emergency: emergencySvc,
		Hub:       hub,
		Logger:    logger,
		NR:        nr,
	}
}

// respondError writes the uniform error envelope with the status the
// error carries
func (h *Handlers) respondError(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	if appErr.Status >= 500 {
		h.Logger.Error("Request failed", logger.Err(err))
	}
	c.JSON(appErr.Status, dto.ErrorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
	})
}

// currentUser loads the logged-in user or fails the request. Every
// mutation acts as the session user; there is no token auth in this
// demo.
func (h *Handlers) currentUser(c *gin.Context) (*user.User, bool) {
	state, err := h.Store.Load(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return nil, false
	}
	if state.CurrentUser == nil {
		h.respondError(c, apperrors.ErrUserNotFound)
		return nil, false
	}
	return state.CurrentUser, true
}

// stateChanged tells every connected client to redraw. The client
// refetches and re-renders its whole view on this signal rather than
// patching in deltas.
func (h *Handlers) stateChanged() {
	h.Hub.Broadcast(websocket.Message{Type: "state_changed"})
}
