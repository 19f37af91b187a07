package monitoring

import (
	"fmt"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// Config holds New Relic configuration
type Config struct {
	LicenseKey string
	AppName    string
	Enabled    bool
	LogLevel   string
}

// NewRelicApp wraps the New Relic application
type NewRelicApp struct {
	*newrelic.Application
	enabled bool
}

// New creates a new New Relic application
func New(cfg Config) (*NewRelicApp, error) {
	if !cfg.Enabled || cfg.LicenseKey == "" {
		return &NewRelicApp{nil, false}, nil
	}

	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.AppName),
		newrelic.ConfigLicense(cfg.LicenseKey),
		newrelic.ConfigAppLogForwardingEnabled(true),
		newrelic.ConfigDistributedTracerEnabled(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create New Relic application: %w", err)
	}

	return &NewRelicApp{app, true}, nil
}

// RecordCustomEvent records a custom event
func (nr *NewRelicApp) RecordCustomEvent(eventType string, params map[string]interface{}) {
	if !nr.enabled || nr.Application == nil {
		return
	}
	nr.Application.RecordCustomEvent(eventType, params)
}

// RecordCustomMetric records a custom metric
func (nr *NewRelicApp) RecordCustomMetric(name string, value float64) {
	if !nr.enabled || nr.Application == nil {
		return
	}
	nr.Application.RecordCustomMetric(name, value)
}

// Shutdown gracefully shuts down the New Relic application
func (nr *NewRelicApp) Shutdown(timeout time.Duration) {
	if !nr.enabled || nr.Application == nil {
		return
	}
	nr.Application.Shutdown(timeout)
}

// IsEnabled returns whether New Relic is enabled
func (nr *NewRelicApp) IsEnabled() bool {
	return nr.enabled
}

// Custom event helpers

// RecordRideCreated records a ride being posted
func (nr *NewRelicApp) RecordRideCreated(vehicleType string, seats int, price float64) {
	nr.RecordCustomEvent("RideCreated", map[string]interface{}{
		"vehicle_type":        vehicleType,
		"available_seats":     seats,
		"price_per_passenger": price,
	})
}

// RecordSeatBooked records a successful booking
func (nr *NewRelicApp) RecordSeatBooked(rideID string, seatsLeft int) {
	nr.RecordCustomEvent("SeatBooked", map[string]interface{}{
		"ride_id":    rideID,
		"seats_left": seatsLeft,
	})
}

// RecordRideCompleted records a ride reaching its terminal state
func (nr *NewRelicApp) RecordRideCompleted(rideID string, passengers int) {
	nr.RecordCustomEvent("RideCompleted", map[string]interface{}{
		"ride_id":    rideID,
		"passengers": passengers,
	})
}

// RecordEmergencyToggled records an emergency vehicle status flip
func (nr *NewRelicApp) RecordEmergencyToggled(vehicleType, status string) {
	nr.RecordCustomEvent("EmergencyToggled", map[string]interface{}{
		"vehicle_type": vehicleType,
		"status":       status,
	})
}
