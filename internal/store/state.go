package store

import (
	"github.com/ridewithus/carpool/internal/domain/booking"
	"github.com/ridewithus/carpool/internal/domain/emergency"
	"github.com/ridewithus/carpool/internal/domain/ride"
	"github.com/ridewithus/carpool/internal/domain/user"
)

// AppState is the aggregate root: the single document persisted
// between sessions. Field names and nesting match the saved-session
// layout of existing documents, so changing a tag here breaks loads.
type AppState struct {
	CurrentUser       *user.User          `json:"currentUser"`
	CurrentMode       *user.Mode          `json:"currentMode"`
	Rides             []ride.Ride         `json:"rides"`
	Bookings          []booking.Booking   `json:"bookings"`
	EmergencyVehicles []emergency.Vehicle `json:"emergencyVehicles"`
}

// DefaultState returns the documented empty state used on first run
// and after a parse failure.
func DefaultState() *AppState {
	return &AppState{
		CurrentUser:       nil,
		CurrentMode:       nil,
		Rides:             []ride.Ride{},
		Bookings:          []booking.Booking{},
		EmergencyVehicles: []emergency.Vehicle{},
	}
}

// FindRide returns a pointer into the state's ride list, or nil
func (s *AppState) FindRide(id string) *ride.Ride {
	for i := range s.Rides {
		if s.Rides[i].ID == id {
			return &s.Rides[i]
		}
	}
	return nil
}

// FindBooking returns a pointer into the state's booking list, or nil
func (s *AppState) FindBooking(id string) *booking.Booking {
	for i := range s.Bookings {
		if s.Bookings[i].ID == id {
			return &s.Bookings[i]
		}
	}
	return nil
}

// FindEmergencyVehicle returns a pointer into the state's vehicle
// list, or nil
func (s *AppState) FindEmergencyVehicle(id string) *emergency.Vehicle {
	for i := range s.EmergencyVehicles {
		if s.EmergencyVehicles[i].ID == id {
			return &s.EmergencyVehicles[i]
		}
	}
	return nil
}
