package bookings

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/ridewithus/carpool/internal/domain/booking"
	"github.com/ridewithus/carpool/internal/domain/geo"
	"github.com/ridewithus/carpool/internal/domain/ride"
	"github.com/ridewithus/carpool/internal/store"
	apperrors "github.com/ridewithus/carpool/pkg/errors"
	"github.com/ridewithus/carpool/pkg/logger"
	"github.com/ridewithus/carpool/pkg/notify"
)

// Detail is a booking joined with its ride for display. ETA and OTP
// are derived on read and never stored in the document.
type Detail struct {
	Booking    booking.Booking `json:"booking"`
	Ride       *ride.Ride      `json:"ride,omitempty"`
	ETAMinutes int             `json:"etaMinutes"`
	OTP        string          `json:"otp,omitempty"`
}

// Summary groups a user's bookings by whether they still need
// attention
type Summary struct {
	Active []Detail `json:"active"`
	Past   []Detail `json:"past"`
}

// Service manages the passenger side of a booking
type Service struct {
	store    *store.Store
	notifier notify.Notifier
	logger   *logger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewService creates a booking service
func NewService(st *store.Store, notifier notify.Notifier, logger *logger.Logger) *Service {
	return &Service{
		store:    st,
		notifier: notifier,
		logger:   logger,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *Service) newOTP() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return booking.NewOTP(s.rng)
}

func (s *Service) detail(state *store.AppState, b booking.Booking, now time.Time) Detail {
	d := Detail{Booking: b}
	if r := state.FindRide(b.RideID); r != nil {
		rideCopy := *r
		d.Ride = &rideCopy
		d.ETAMinutes = geo.ETAMinutes(r.DepartureTime, now)
	}
	if b.Status == booking.StatusConfirmed {
		d.OTP = s.newOTP()
	}
	return d
}

// Get returns one booking with its ride, a countdown to departure and,
// while the booking is waiting for pickup, a display OTP
func (s *Service) Get(ctx context.Context, bookingID string) (*Detail, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to load bookings", err)
	}
	b := state.FindBooking(bookingID)
	if b == nil {
		return nil, apperrors.ErrBookingNotFound
	}
	d := s.detail(state, *b, time.Now())
	return &d, nil
}

// ListForUser returns every booking the user is part of, as passenger
// or as the rider of the booked ride, split into active and past
func (s *Service) ListForUser(ctx context.Context, userID string) (*Summary, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to load bookings", err)
	}

	now := time.Now()
	summary := &Summary{Active: []Detail{}, Past: []Detail{}}
	for _, b := range state.Bookings {
		mine := b.PassengerID == userID
		if !mine {
			if r := state.FindRide(b.RideID); r != nil && r.RiderID == userID {
				mine = true
			}
		}
		if !mine {
			continue
		}

		d := s.detail(state, b, now)
		if b.Status.IsActive() {
			summary.Active = append(summary.Active, d)
		} else {
			summary.Past = append(summary.Past, d)
		}
	}
	return summary, nil
}

// Cancel withdraws a booking. While the ride is still scheduled the
// seat goes back on sale and the passenger leaves the manifest, all in
// the same document update.
func (s *Service) Cancel(ctx context.Context, bookingID string) (*booking.Booking, error) {
	var cancelled booking.Booking

	_, err := s.store.Update(ctx, func(state *store.AppState) error {
		b := state.FindBooking(bookingID)
		if b == nil {
			return apperrors.ErrBookingNotFound
		}
		if !b.Status.CanTransition(booking.StatusCancelled) {
			return apperrors.ErrInvalidTransition
		}

		b.Status = booking.StatusCancelled

		if r := state.FindRide(b.RideID); r != nil && r.Status == ride.StatusScheduled {
			r.AvailableSeats++
			kept := r.Passengers[:0]
			for _, p := range r.Passengers {
				if p != b.PassengerID {
					kept = append(kept, p)
				}
			}
			r.Passengers = kept
		}

		cancelled = *b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking cancelled",
		logger.String("booking_id", cancelled.ID),
		logger.String("ride_id", cancelled.RideID),
	)
	s.notifier.Notify("Booking Cancelled",
		fmt.Sprintf("The booking for %s has been cancelled.", cancelled.PassengerName))

	return &cancelled, nil
}
