package emergency

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ridewithus/carpool/internal/domain/emergency"
	"github.com/ridewithus/carpool/internal/domain/geo"
	"github.com/ridewithus/carpool/internal/store"
	apperrors "github.com/ridewithus/carpool/pkg/errors"
	"github.com/ridewithus/carpool/pkg/logger"
	"github.com/ridewithus/carpool/pkg/metrics"
	"github.com/ridewithus/carpool/pkg/notify"
	"github.com/ridewithus/carpool/pkg/websocket"
)

// Broadcaster pushes vehicle movement to connected clients. The hub
// satisfies this.
type Broadcaster interface {
	Broadcast(msg websocket.Message)
}

// Config holds route simulation settings
type Config struct {
	StepInterval time.Duration
	RouteSteps   int
}

// Service manages emergency vehicles and their scripted movement.
// Activating a vehicle starts a goroutine that walks it along the
// straight-line route to its destination; deactivating stops it.
type Service struct {
	store       *store.Store
	broadcaster Broadcaster
	notifier    notify.Notifier
	logger      *logger.Logger
	config      Config

	mu   sync.Mutex
	sims map[string]*simRun
}

// simRun identifies one simulation goroutine. A finished run may only
// deregister itself, never a newer run registered under the same
// vehicle after a quick off/on toggle.
type simRun struct {
	cancel context.CancelFunc
}

// NewService creates an emergency vehicle service
func NewService(st *store.Store, broadcaster Broadcaster, notifier notify.Notifier, logger *logger.Logger, config Config) *Service {
	return &Service{
		store:       st,
		broadcaster: broadcaster,
		notifier:    notifier,
		logger:      logger,
		config:      config,
		sims:        make(map[string]*simRun),
	}
}

// AddInput carries the fields for registering a vehicle
type AddInput struct {
	Type            emergency.VehicleType
	CurrentLocation geo.Location
	Destination     geo.Location
}

// Add registers a new vehicle, inactive until toggled
func (s *Service) Add(ctx context.Context, in AddInput) (*emergency.Vehicle, error) {
	if !in.Type.IsValid() {
		return nil, apperrors.BadRequest("Unknown emergency vehicle type", nil)
	}

	v := emergency.Vehicle{
		ID:              uuid.NewString(),
		Type:            in.Type,
		CurrentLocation: in.CurrentLocation,
		Destination:     in.Destination,
		Status:          emergency.StatusInactive,
	}
	if _, err := s.store.AddEmergencyVehicle(ctx, v); err != nil {
		return nil, apperrors.Internal("Failed to add emergency vehicle", err)
	}
	return &v, nil
}

// List returns every registered vehicle
func (s *Service) List(ctx context.Context) ([]emergency.Vehicle, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to load emergency vehicles", err)
	}
	return state.EmergencyVehicles, nil
}

// Toggle flips the vehicle between active and inactive. The flip
// always succeeds for a known vehicle regardless of current status,
// and the persisted status is what comes back.
func (s *Service) Toggle(ctx context.Context, vehicleID string) (*emergency.Vehicle, error) {
	var toggled emergency.Vehicle

	_, err := s.store.Update(ctx, func(state *store.AppState) error {
		v := state.FindEmergencyVehicle(vehicleID)
		if v == nil {
			return apperrors.ErrVehicleNotFound
		}
		v.Status = v.Status.Toggled()
		toggled = *v
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Emergency vehicle toggled",
		logger.String("vehicle_id", toggled.ID),
		logger.String("type", string(toggled.Type)),
		logger.String("status", string(toggled.Status)),
	)
	metrics.EmergencyToggles.Inc()

	if toggled.IsActive() {
		s.notifier.Notify("Emergency Alert",
			fmt.Sprintf("Active %s nearby. Please give way.", toggled.Type))
		s.startSimulation(toggled)
	} else {
		s.notifier.Notify("All Clear",
			fmt.Sprintf("The %s is no longer active.", toggled.Type))
		s.stopSimulation(toggled.ID)
	}

	return &toggled, nil
}

// Route returns the interpolated path from the vehicle's current
// position to its destination
func (s *Service) Route(ctx context.Context, vehicleID string) ([]geo.Location, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to load emergency vehicles", err)
	}
	v := state.FindEmergencyVehicle(vehicleID)
	if v == nil {
		return nil, apperrors.ErrVehicleNotFound
	}
	return geo.Route([]geo.Location{v.CurrentLocation, v.Destination}, s.config.RouteSteps), nil
}

// Stop halts every running simulation. Called on shutdown.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, run := range s.sims {
		run.cancel()
		delete(s.sims, id)
	}
}

func (s *Service) startSimulation(v emergency.Vehicle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, running := s.sims[v.ID]; running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	run := &simRun{cancel: cancel}
	s.sims[v.ID] = run
	go s.runSimulation(ctx, v, run)
}

func (s *Service) stopSimulation(vehicleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if run, ok := s.sims[vehicleID]; ok {
		run.cancel()
		delete(s.sims, vehicleID)
	}
}

// clearSimulation deregisters a finished run, but only while it still
// owns the slot. A replacement registered after a quick off/on toggle
// stays untouched.
func (s *Service) clearSimulation(vehicleID string, run *simRun) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sims[vehicleID] == run {
		delete(s.sims, vehicleID)
	}
}

// runSimulation walks the vehicle along its route one step per tick,
// persisting and broadcasting each position. It exits when the route
// ends, the vehicle is deactivated or the service stops.
func (s *Service) runSimulation(ctx context.Context, v emergency.Vehicle, run *simRun) {
	defer s.clearSimulation(v.ID, run)

	path := geo.Route([]geo.Location{v.CurrentLocation, v.Destination}, s.config.RouteSteps)
	if len(path) < 2 {
		return
	}

	ticker := time.NewTicker(s.config.StepInterval)
	defer ticker.Stop()

	for _, point := range path[1:] {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		var moved emergency.Vehicle
		_, err := s.store.Update(ctx, func(state *store.AppState) error {
			sv := state.FindEmergencyVehicle(v.ID)
			if sv == nil {
				return apperrors.ErrVehicleNotFound
			}
			if !sv.IsActive() {
				return context.Canceled
			}
			sv.CurrentLocation = point
			moved = *sv
			return nil
		})
		if err != nil {
			return
		}

		s.broadcaster.Broadcast(websocket.Message{
			Type: "emergency_position",
			Data: moved,
		})
	}

	s.logger.Info("Emergency vehicle reached destination",
		logger.String("vehicle_id", v.ID),
	)
}
