package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ridewithus/carpool/internal/api/dto"
	"github.com/ridewithus/carpool/internal/domain/user"
	apperrors "github.com/ridewithus/carpool/pkg/errors"
	"github.com/ridewithus/carpool/pkg/logger"
)

// Login handles POST /v1/session. There is no password anywhere in
// this demo: whoever fills the form becomes the current user.
func (h *Handlers) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.BadRequest("Invalid request payload", err))
		return
	}

	mode := user.ModeRider
	if req.Mode != "" {
		mode = user.Mode(req.Mode)
	}
	if !mode.IsValid() {
		h.respondError(c, apperrors.ErrInvalidMode)
		return
	}

	u := user.User{
		ID:     uuid.NewString(),
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Rating: 5.0,
		Mode:   mode,
	}

	ctx := c.Request.Context()
	if _, err := h.Store.SetCurrentUser(ctx, &u); err != nil {
		h.respondError(c, apperrors.Internal("Failed to save session", err))
		return
	}
	if _, err := h.Store.SetUserMode(ctx, &mode); err != nil {
		h.respondError(c, apperrors.Internal("Failed to save session", err))
		return
	}

	h.Logger.Info("User logged in",
		logger.String("user_id", u.ID),
		logger.String("mode", string(mode)),
	)
	h.stateChanged()

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Logged in successfully",
		Data:    u,
	})
}

// GetSession handles GET /v1/session
func (h *Handlers) GetSession(c *gin.Context) {
	state, err := h.Store.Load(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if state.CurrentUser == nil {
		h.respondError(c, apperrors.ErrUserNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"currentUser": state.CurrentUser,
		"currentMode": state.CurrentMode,
	})
}

// Logout handles DELETE /v1/session
func (h *Handlers) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.Store.SetCurrentUser(ctx, nil); err != nil {
		h.respondError(c, apperrors.Internal("Failed to clear session", err))
		return
	}
	if _, err := h.Store.SetUserMode(ctx, nil); err != nil {
		h.respondError(c, apperrors.Internal("Failed to clear session", err))
		return
	}

	h.stateChanged()
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Logged out successfully"})
}

// SetMode handles PUT /v1/session/mode. Switching mode swaps the
// whole view between the rider and passenger dashboards.
func (h *Handlers) SetMode(c *gin.Context) {
	var req dto.SetModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.BadRequest("Invalid request payload", err))
		return
	}

	mode := user.Mode(req.Mode)
	if !mode.IsValid() {
		h.respondError(c, apperrors.ErrInvalidMode)
		return
	}

	ctx := c.Request.Context()
	state, err := h.Store.Load(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if state.CurrentUser == nil {
		h.respondError(c, apperrors.ErrUserNotFound)
		return
	}

	if _, err := h.Store.SetUserMode(ctx, &mode); err != nil {
		h.respondError(c, apperrors.Internal("Failed to switch mode", err))
		return
	}

	h.Logger.Info("Mode switched",
		logger.String("user_id", state.CurrentUser.ID),
		logger.String("mode", string(mode)),
	)
	h.stateChanged()

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Mode updated",
		Data:    gin.H{"currentMode": mode},
	})
}
