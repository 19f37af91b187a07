package emergency

import (
	"errors"

	"github.com/ridewithus/carpool/internal/domain/geo"
)

// VehicleType is the kind of emergency vehicle
type VehicleType string

const (
	TypeAmbulance VehicleType = "ambulance"
	TypeFire      VehicleType = "fire"
	TypePolice    VehicleType = "police"
)

// Status is a binary active/inactive flag, independent of ride and
// booking state. It exists to drive the notification banner and
// route-highlight rendering.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Vehicle represents an emergency vehicle in the routing simulation
type Vehicle struct {
	ID              string       `json:"id"`
	Type            VehicleType  `json:"type"`
	CurrentLocation geo.Location `json:"currentLocation"`
	Destination     geo.Location `json:"destination"`
	Status          Status       `json:"status"`
}

var ErrVehicleNotFound = errors.New("emergency vehicle not found")

// IsValid validates the vehicle type
func (t VehicleType) IsValid() bool {
	switch t {
	case TypeAmbulance, TypeFire, TypePolice:
		return true
	}
	return false
}

// Toggled returns the opposite status. Toggling always flips and
// never errors.
func (s Status) Toggled() Status {
	if s == StatusActive {
		return StatusInactive
	}
	return StatusActive
}

// IsActive reports whether the vehicle is broadcasting
func (v *Vehicle) IsActive() bool {
	return v.Status == StatusActive
}
