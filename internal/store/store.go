package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/ridewithus/carpool/internal/domain/booking"
	"github.com/ridewithus/carpool/internal/domain/emergency"
	"github.com/ridewithus/carpool/internal/domain/ride"
	"github.com/ridewithus/carpool/internal/domain/user"
	"github.com/ridewithus/carpool/pkg/logger"
	"github.com/ridewithus/carpool/pkg/metrics"
)

// ErrNoDocument is returned by a Backend when no document has been
// written yet. The store treats it as "start from the default state".
var ErrNoDocument = errors.New("no stored document")

// Backend reads and writes the serialized app-state document as one
// unit. There are no partial updates at this layer.
type Backend interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Name() string
}

// Store owns the app-state document lifecycle. Every mutation is a
// load-modify-save of the whole document, serialized behind a mutex,
// so two in-process writers can never interleave (for example two
// passengers booking the last seat). Writers in separate processes
// sharing one backend are still unsynchronized; the document layout
// assumes a single writer.
type Store struct {
	backend Backend
	logger  *logger.Logger
	mu      sync.Mutex
}

// New creates a store over the given backend
func New(backend Backend, logger *logger.Logger) *Store {
	return &Store{backend: backend, logger: logger}
}

// Load returns the last saved state, or the default state when
// nothing has been stored or the stored value fails to parse. Parse
// failure is logged and treated as "no state", never raised.
func (s *Store) Load(ctx context.Context) (*AppState, error) {
	data, err := s.backend.Read(ctx)
	if err != nil {
		if errors.Is(err, ErrNoDocument) {
			return DefaultState(), nil
		}
		return nil, err
	}

	state := DefaultState()
	if err := json.Unmarshal(data, state); err != nil {
		s.logger.Warn("Stored app state failed to parse, using default",
			logger.String("backend", s.backend.Name()),
			logger.Err(err),
		)
		metrics.StoreFallbacks.Inc()
		return DefaultState(), nil
	}
	return state, nil
}

// Save serializes and overwrites the entire stored document
func (s *Store) Save(ctx context.Context, state *AppState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if err := s.backend.Write(ctx, data); err != nil {
		return err
	}
	metrics.StoreWrites.WithLabelValues(s.backend.Name()).Inc()
	return nil
}

// Update runs fn against a freshly loaded state and persists the
// result, all under the store lock. fn returning an error aborts the
// update with nothing written. Every caller gets back the new state.
func (s *Store) Update(ctx context.Context, fn func(*AppState) error) (*AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(state); err != nil {
		return nil, err
	}
	if err := s.Save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Named mutation ops. Each follows the same pattern: load the full
// state, replace the targeted collection (matched-by-id elements
// replaced, others untouched, order preserved), save, return.

// SetCurrentUser replaces the logged-in user (nil on logout)
func (s *Store) SetCurrentUser(ctx context.Context, u *user.User) (*AppState, error) {
	return s.Update(ctx, func(state *AppState) error {
		state.CurrentUser = u
		return nil
	})
}

// SetUserMode replaces the selected mode (nil clears it)
func (s *Store) SetUserMode(ctx context.Context, m *user.Mode) (*AppState, error) {
	return s.Update(ctx, func(state *AppState) error {
		state.CurrentMode = m
		return nil
	})
}

// AddRide appends a ride
func (s *Store) AddRide(ctx context.Context, r ride.Ride) (*AppState, error) {
	return s.Update(ctx, func(state *AppState) error {
		state.Rides = append(state.Rides, r)
		return nil
	})
}

// UpdateRide replaces the ride with a matching id
func (s *Store) UpdateRide(ctx context.Context, r ride.Ride) (*AppState, error) {
	return s.Update(ctx, func(state *AppState) error {
		for i := range state.Rides {
			if state.Rides[i].ID == r.ID {
				state.Rides[i] = r
			}
		}
		return nil
	})
}

// DeleteRide removes the ride with a matching id
func (s *Store) DeleteRide(ctx context.Context, rideID string) (*AppState, error) {
	return s.Update(ctx, func(state *AppState) error {
		kept := state.Rides[:0]
		for _, r := range state.Rides {
			if r.ID != rideID {
				kept = append(kept, r)
			}
		}
		state.Rides = kept
		return nil
	})
}

// AddBooking appends a booking
func (s *Store) AddBooking(ctx context.Context, b booking.Booking) (*AppState, error) {
	return s.Update(ctx, func(state *AppState) error {
		state.Bookings = append(state.Bookings, b)
		return nil
	})
}

// UpdateBooking replaces the booking with a matching id
func (s *Store) UpdateBooking(ctx context.Context, b booking.Booking) (*AppState, error) {
	return s.Update(ctx, func(state *AppState) error {
		for i := range state.Bookings {
			if state.Bookings[i].ID == b.ID {
				state.Bookings[i] = b
			}
		}
		return nil
	})
}

// AddEmergencyVehicle appends an emergency vehicle
func (s *Store) AddEmergencyVehicle(ctx context.Context, v emergency.Vehicle) (*AppState, error) {
	return s.Update(ctx, func(state *AppState) error {
		state.EmergencyVehicles = append(state.EmergencyVehicles, v)
		return nil
	})
}

// UpdateEmergencyVehicle replaces the vehicle with a matching id
func (s *Store) UpdateEmergencyVehicle(ctx context.Context, v emergency.Vehicle) (*AppState, error) {
	return s.Update(ctx, func(state *AppState) error {
		for i := range state.EmergencyVehicles {
			if state.EmergencyVehicles[i].ID == v.ID {
				state.EmergencyVehicles[i] = v
			}
		}
		return nil
	})
}
