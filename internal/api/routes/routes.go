package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ridewithus/carpool/internal/api/handlers"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, h *handlers.Handlers, nrApp *newrelic.Application) {
	// Add New Relic middleware if enabled
	if nrApp != nil {
		r.Use(nrgin.Middleware(nrApp))
	}

	// Health check and metrics
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy", "connections": h.Hub.ActiveConnections()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// WebSocket connection
		v1.GET("/ws", h.HandleWebSocket)

		// Session endpoints
		session := v1.Group("/session")
		{
			session.POST("", h.Login)
			session.GET("", h.GetSession)
			session.DELETE("", h.Logout)
			session.PUT("/mode", h.SetMode)
		}

		// Ride endpoints
		rides := v1.Group("/rides")
		{
			rides.POST("", h.CreateRide)
			rides.GET("", h.ListRides)
			rides.GET("/:id", h.GetRide)
			rides.GET("/:id/route", h.GetRideRoute)
			rides.POST("/:id/bookings", h.BookRide)
			rides.POST("/:id/complete", h.CompleteRide)
			rides.POST("/:id/cancel", h.CancelRide)
			rides.DELETE("/:id", h.DeleteRide)
		}

		// Booking endpoints
		bookings := v1.Group("/bookings")
		{
			bookings.GET("", h.ListBookings)
			bookings.GET("/:id", h.GetBooking)
			bookings.POST("/:id/pickup", h.ConfirmPickup)
			bookings.POST("/:id/cancel", h.CancelBooking)
		}

		// Emergency vehicle endpoints
		emergency := v1.Group("/emergency")
		{
			emergency.GET("", h.ListEmergencyVehicles)
			emergency.POST("", h.AddEmergencyVehicle)
			emergency.POST("/:id/toggle", h.ToggleEmergencyVehicle)
			emergency.GET("/:id/route", h.GetEmergencyRoute)
		}
	}
}
