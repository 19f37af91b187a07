package booking

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/ridewithus/carpool/internal/domain/geo"
)

// Status represents booking status. Changes are one-way: a booking
// never moves backward, and cancelled is reachable from any
// non-terminal state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in-progress"
	StatusCancelled  Status = "cancelled"
	StatusCompleted  Status = "completed"
)

// Booking is a single passenger's reservation against a ride. The
// otp field stays in the document layout for compatibility but the
// reference flow never persists a value at creation; codes are
// regenerated per session.
type Booking struct {
	ID              string       `json:"id"`
	RideID          string       `json:"rideId"`
	PassengerID     string       `json:"passengerId"`
	PassengerName   string       `json:"passengerName"`
	PickupLocation  geo.Location `json:"pickupLocation"`
	DropoffLocation geo.Location `json:"dropoffLocation"`
	Status          Status       `json:"status"`
	CreatedAt       time.Time    `json:"createdAt"`
	OTP             string       `json:"otp,omitempty"`
}

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInvalidTransition = errors.New("invalid booking status transition")
)

func (s Status) rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusConfirmed:
		return 1
	case StatusInProgress:
		return 2
	case StatusCompleted:
		return 3
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
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// CanTransition reports whether moving to the target status is legal.
// Forward moves go one step at a time; cancellation is allowed from
// any non-terminal state.
func (s Status) CanTransition(to Status) bool {
	if s.IsTerminal() {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	return to.rank() == s.rank()+1
}

// IsActive reports whether the booking should appear in the live
// tracker
func (s Status) IsActive() bool {
	return s == StatusConfirmed || s == StatusInProgress
}

// NewOTP returns a 4-digit display-only verification code. It is a
// UX prop shown to both parties for pickup confirmation, not a
// security credential, and is never persisted at booking creation.
func NewOTP(r *rand.Rand) string {
	return fmt.Sprintf("%04d", 1000+r.Intn(9000))
}
