package ride

import (
	"errors"
	"time"

	"github.com/ridewithus/carpool/internal/domain/geo"
)

// Status represents ride status. Transitions are monotonic: a ride
// never moves backward in the defined ordering.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// VehicleType is the kind of vehicle offered for a ride
type VehicleType string

const (
	VehicleBike VehicleType = "Bike"
	VehicleCar  VehicleType = "Car"
	VehicleSUV  VehicleType = "SUV"
)

// Ride represents a rider-offered journey with fixed seats and price,
// open for passenger bookings while scheduled. JSON tags match the
// saved-session document layout.
type Ride struct {
	ID                string         `json:"id"`
	RiderID           string         `json:"riderId"`
	RiderName         string         `json:"riderName"`
	RiderRating       float64        `json:"riderRating"`
	StartLocation     geo.Location   `json:"startLocation"`
	EndLocation       geo.Location   `json:"endLocation"`
	Waypoints         []geo.Location `json:"waypoints,omitempty"`
	DepartureTime     time.Time      `json:"departureTime"`
	VehicleType       VehicleType    `json:"vehicleType"`
	VehicleImage      string         `json:"vehicleImage,omitempty"`
	AvailableSeats    int            `json:"availableSeats"`
	PricePerPassenger float64        `json:"pricePerPassenger"`
	Status            Status         `json:"status"`
	Passengers        []string       `json:"passengers"`
	CreatedAt         time.Time      `json:"createdAt"`
}

// Errors
var (
	ErrRideNotFound       = errors.New("ride not found")
	ErrInvalidTransition  = errors.New("invalid ride status transition")
	ErrNoSeats            = errors.New("no available seats")
	ErrDuplicatePassenger = errors.New("passenger already on ride")
	ErrInvalidVehicleType = errors.New("invalid vehicle type")
)

// rank orders statuses for the monotonic-transition check. Cancelled
// is terminal and sits outside the forward chain.
func (s Status) rank() int {
	switch s {
	case StatusScheduled:
		return 0
	case StatusInProgress:
		return 1
	case StatusCompleted:
		return 2
	}
	return -1
}

// IsTerminal reports whether no further transitions are allowed
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// IsValid validates the status
func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsValid validates the vehicle type
func (v VehicleType) IsValid() bool {
	switch v {
	case VehicleBike, VehicleCar, VehicleSUV:
		return true
	}
	return false
}

// CanTransition reports whether moving to the target status is a
// legal forward move. Cancellation is only reachable from scheduled.
func (s Status) CanTransition(to Status) bool {
	if s.IsTerminal() {
		return false
	}
	if to == StatusCancelled {
		return s == StatusScheduled
	}
	return to.rank() == s.rank()+1
}

// CanBook reports whether the ride accepts new bookings
func (r *Ride) CanBook() bool {
	return r.Status == StatusScheduled && r.AvailableSeats > 0
}

// CanStart reports whether pickup can be confirmed
func (r *Ride) CanStart() bool {
	return r.Status == StatusScheduled
}

// CanComplete reports whether the rider can mark the ride complete
func (r *Ride) CanComplete() bool {
	return r.Status == StatusInProgress
}

// CanCancel reports whether the ride can still be cancelled
func (r *Ride) CanCancel() bool {
	return r.Status == StatusScheduled
}

// HasPassenger reports whether the passenger already holds a seat
func (r *Ride) HasPassenger(passengerID string) bool {
	for _, id := range r.Passengers {
		if id == passengerID {
			return true
		}
	}
	return false
}

// RoutePoints returns start, waypoints and end as one polyline
func (r *Ride) RoutePoints() []geo.Location {
	points := make([]geo.Location, 0, len(r.Waypoints)+2)
	points = append(points, r.StartLocation)
	points = append(points, r.Waypoints...)
	points = append(points, r.EndLocation)
	return points
}
