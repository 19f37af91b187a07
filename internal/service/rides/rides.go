package rides

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ridewithus/carpool/internal/domain/booking"
	"github.com/ridewithus/carpool/internal/domain/ride"
	"github.com/ridewithus/carpool/internal/domain/user"
	"github.com/ridewithus/carpool/internal/service/geocode"
	"github.com/ridewithus/carpool/internal/store"
	apperrors "github.com/ridewithus/carpool/pkg/errors"
	"github.com/ridewithus/carpool/pkg/logger"
	"github.com/ridewithus/carpool/pkg/metrics"
	"github.com/ridewithus/carpool/pkg/notify"
)

// SortBy selects the ride listing order
type SortBy string

const (
	SortByTime   SortBy = "time"
	SortByPrice  SortBy = "price"
	SortByRating SortBy = "rating"
)

// Config holds ride policy settings
type Config struct {
	PriceCeiling float64
	MaxSeats     int
}

// Service is the ride lifecycle engine. Every mutation runs as one
// store update, so a policy rejection never leaves a partial write
// behind.
type Service struct {
	store    *store.Store
	geocoder geocode.Geocoder
	notifier notify.Notifier
	logger   *logger.Logger
	config   Config
}

// NewService creates a ride service
func NewService(st *store.Store, geocoder geocode.Geocoder, notifier notify.Notifier, logger *logger.Logger, config Config) *Service {
	return &Service{
		store:    st,
		geocoder: geocoder,
		notifier: notifier,
		logger:   logger,
		config:   config,
	}
}

// CreateInput carries the ride form fields
type CreateInput struct {
	Rider             user.User
	StartAddress      string
	EndAddress        string
	DepartureTime     time.Time
	VehicleType       ride.VehicleType
	AvailableSeats    int
	PricePerPassenger float64
}

// Create validates the form, resolves both addresses and persists a
// new scheduled ride. Validation and geocoding failures abort before
// anything is written.
func (s *Service) Create(ctx context.Context, in CreateInput) (*ride.Ride, error) {
	if strings.TrimSpace(in.StartAddress) == "" ||
		strings.TrimSpace(in.EndAddress) == "" ||
		in.DepartureTime.IsZero() {
		return nil, apperrors.ErrMissingFields
	}
	if !in.VehicleType.IsValid() {
		return nil, apperrors.ErrInvalidVehicleType
	}
	if in.AvailableSeats < 1 || in.AvailableSeats > s.config.MaxSeats {
		return nil, apperrors.Validation(
			fmt.Sprintf("Available seats must be between 1 and %d", s.config.MaxSeats), nil)
	}
	if in.PricePerPassenger <= 0 || in.PricePerPassenger > s.config.PriceCeiling {
		return nil, apperrors.ErrPriceCeiling
	}

	startLocation, err := s.geocoder.Geocode(ctx, in.StartAddress)
	if err != nil {
		return nil, apperrors.ErrAddressNotResolved
	}
	endLocation, err := s.geocoder.Geocode(ctx, in.EndAddress)
	if err != nil {
		return nil, apperrors.ErrAddressNotResolved
	}

	newRide := ride.Ride{
		ID:                uuid.NewString(),
		RiderID:           in.Rider.ID,
		RiderName:         in.Rider.Name,
		RiderRating:       in.Rider.Rating,
		StartLocation:     startLocation,
		EndLocation:       endLocation,
		DepartureTime:     in.DepartureTime,
		VehicleType:       in.VehicleType,
		AvailableSeats:    in.AvailableSeats,
		PricePerPassenger: in.PricePerPassenger,
		Status:            ride.StatusScheduled,
		Passengers:        []string{},
		CreatedAt:         time.Now(),
	}

	if _, err := s.store.AddRide(ctx, newRide); err != nil {
		return nil, apperrors.Internal("Failed to create ride", err)
	}

	s.logger.Info("Ride created",
		logger.String("ride_id", newRide.ID),
		logger.String("rider_id", newRide.RiderID),
		logger.String("vehicle_type", string(newRide.VehicleType)),
		logger.Int("available_seats", newRide.AvailableSeats),
	)
	metrics.RidesCreatedTotal.Inc()
	s.notifier.Notify("Ride Created", "Your ride has been published successfully!")

	return &newRide, nil
}

// List returns rides open for booking in the requested order. Sorting
// is stable: ties keep original insertion order.
func (s *Service) List(ctx context.Context, sortBy SortBy) ([]ride.Ride, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to load rides", err)
	}

	open := make([]ride.Ride, 0, len(state.Rides))
	for _, r := range state.Rides {
		if r.CanBook() {
			open = append(open, r)
		}
	}

	switch sortBy {
	case SortByPrice:
		sort.SliceStable(open, func(i, j int) bool {
			return open[i].PricePerPassenger < open[j].PricePerPassenger
		})
	case SortByRating:
		sort.SliceStable(open, func(i, j int) bool {
			return open[i].RiderRating > open[j].RiderRating
		})
	default:
		sort.SliceStable(open, func(i, j int) bool {
			return open[i].DepartureTime.Before(open[j].DepartureTime)
		})
	}

	return open, nil
}

// Get returns one ride by id
func (s *Service) Get(ctx context.Context, rideID string) (*ride.Ride, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to load rides", err)
	}
	r := state.FindRide(rideID)
	if r == nil {
		return nil, apperrors.ErrRideNotFound
	}
	return r, nil
}

// BookSeat reserves one seat for the passenger. Policy checks, seat
// decrement, passenger append and booking creation all happen inside
// a single document update: a rejected booking is never persisted
// next to a decremented seat count.
func (s *Service) BookSeat(ctx context.Context, rideID string, passenger user.User) (*booking.Booking, *ride.Ride, error) {
	var newBooking booking.Booking
	var booked ride.Ride

	_, err := s.store.Update(ctx, func(state *store.AppState) error {
		r := state.FindRide(rideID)
		if r == nil {
			return apperrors.ErrRideNotFound
		}
		if r.Status != ride.StatusScheduled {
			return apperrors.ErrRideNotOpen
		}
		if r.AvailableSeats <= 0 {
			return apperrors.ErrRideFull
		}
		if r.RiderID == passenger.ID {
			return apperrors.ErrOwnRide
		}
		if r.HasPassenger(passenger.ID) {
			return apperrors.ErrAlreadyBooked
		}

		r.AvailableSeats--
		r.Passengers = append(r.Passengers, passenger.ID)

		newBooking = booking.Booking{
			ID:              uuid.NewString(),
			RideID:          r.ID,
			PassengerID:     passenger.ID,
			PassengerName:   passenger.Name,
			PickupLocation:  r.StartLocation,
			DropoffLocation: r.EndLocation,
			Status:          booking.StatusConfirmed,
			CreatedAt:       time.Now(),
		}
		state.Bookings = append(state.Bookings, newBooking)
		booked = *r
		return nil
	})
	if err != nil {
		metrics.BookingsRejected.Inc()
		return nil, nil, err
	}

	s.logger.Info("Seat booked",
		logger.String("ride_id", booked.ID),
		logger.String("booking_id", newBooking.ID),
		logger.String("passenger_id", passenger.ID),
		logger.Int("seats_left", booked.AvailableSeats),
	)
	metrics.BookingsTotal.Inc()
	s.notifier.Notify("Booking Confirmed",
		fmt.Sprintf("You have successfully booked a ride with %s.", booked.RiderName))

	return &newBooking, &booked, nil
}

// ConfirmPickup moves a booking to in-progress and, with it, the
// parent ride. The first pickup is what starts the ride.
func (s *Service) ConfirmPickup(ctx context.Context, bookingID string) (*booking.Booking, *ride.Ride, error) {
	var picked booking.Booking
	var started ride.Ride

	_, err := s.store.Update(ctx, func(state *store.AppState) error {
		b := state.FindBooking(bookingID)
		if b == nil {
			return apperrors.ErrBookingNotFound
		}
		if !b.Status.CanTransition(booking.StatusInProgress) {
			return apperrors.ErrInvalidTransition
		}
		r := state.FindRide(b.RideID)
		if r == nil {
			return apperrors.ErrRideNotFound
		}

		b.Status = booking.StatusInProgress
		if r.CanStart() {
			r.Status = ride.StatusInProgress
		}

		picked = *b
		started = *r
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("Pickup confirmed",
		logger.String("booking_id", picked.ID),
		logger.String("ride_id", started.ID),
	)
	metrics.RideStatus.WithLabelValues(string(ride.StatusInProgress)).Inc()
	s.notifier.Notify("Passenger Picked Up",
		fmt.Sprintf("Passenger %s has been picked up.", picked.PassengerName))

	return &picked, &started, nil
}

// Complete marks an in-progress ride completed along with every
// in-progress booking on it.
func (s *Service) Complete(ctx context.Context, rideID string) (*ride.Ride, error) {
	var completed ride.Ride

	_, err := s.store.Update(ctx, func(state *store.AppState) error {
		r := state.FindRide(rideID)
		if r == nil {
			return apperrors.ErrRideNotFound
		}
		if !r.CanComplete() {
			return apperrors.ErrInvalidTransition
		}

		r.Status = ride.StatusCompleted
		for i := range state.Bookings {
			b := &state.Bookings[i]
			if b.RideID == rideID && b.Status == booking.StatusInProgress {
				b.Status = booking.StatusCompleted
			}
		}

		completed = *r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Ride completed",
		logger.String("ride_id", completed.ID),
		logger.Int("passengers", len(completed.Passengers)),
	)
	metrics.RideStatus.WithLabelValues(string(ride.StatusCompleted)).Inc()
	s.notifier.Notify("Ride Completed", "Thank you for using carpooling!")

	return &completed, nil
}

// Cancel cancels a scheduled ride and every open booking on it
func (s *Service) Cancel(ctx context.Context, rideID string) (*ride.Ride, error) {
	var cancelled ride.Ride

	_, err := s.store.Update(ctx, func(state *store.AppState) error {
		r := state.FindRide(rideID)
		if r == nil {
			return apperrors.ErrRideNotFound
		}
		if !r.CanCancel() {
			return apperrors.ErrInvalidTransition
		}

		r.Status = ride.StatusCancelled
		for i := range state.Bookings {
			b := &state.Bookings[i]
			if b.RideID == rideID && !b.Status.IsTerminal() {
				b.Status = booking.StatusCancelled
			}
		}

		cancelled = *r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Ride cancelled", logger.String("ride_id", cancelled.ID))
	metrics.RideStatus.WithLabelValues(string(ride.StatusCancelled)).Inc()
	s.notifier.Notify("Ride Cancelled", "The ride has been cancelled.")

	return &cancelled, nil
}

// Delete removes a ride from the listing entirely
func (s *Service) Delete(ctx context.Context, rideID string) error {
	_, err := s.store.Update(ctx, func(state *store.AppState) error {
		if state.FindRide(rideID) == nil {
			return apperrors.ErrRideNotFound
		}
		kept := state.Rides[:0]
		for _, r := range state.Rides {
			if r.ID != rideID {
				kept = append(kept, r)
			}
		}
		state.Rides = kept
		return nil
	})
	return err
}
