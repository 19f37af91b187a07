package emergency

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridewithus/carpool/internal/domain/emergency"
	"github.com/ridewithus/carpool/internal/domain/geo"
	"github.com/ridewithus/carpool/internal/store"
	apperrors "github.com/ridewithus/carpool/pkg/errors"
	"github.com/ridewithus/carpool/pkg/logger"
	"github.com/ridewithus/carpool/pkg/notify"
	"github.com/ridewithus/carpool/pkg/websocket"
)

type fakeBroadcaster struct {
	mu       sync.Mutex
	messages []websocket.Message
}

func (f *fakeBroadcaster) Broadcast(msg websocket.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg)
}

func (f *fakeBroadcaster) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

func newTestService(t *testing.T, cfg Config) (*Service, *store.Store, *fakeBroadcaster) {
	t.Helper()
	backend, err := store.NewFileBackend(filepath.Join(t.TempDir(), "app_state.json"))
	require.NoError(t, err)
	st := store.New(backend, logger.NewNop())

	fb := &fakeBroadcaster{}
	svc := NewService(st, fb, notify.Nop{}, logger.NewNop(), cfg)
	t.Cleanup(svc.Stop)
	return svc, st, fb
}

func hospitalRun() AddInput {
	return AddInput{
		Type:            emergency.TypeAmbulance,
		CurrentLocation: geo.Location{Address: "City Hospital", Lat: 28.61, Lng: 77.20},
		Destination:     geo.Location{Address: "Accident Site", Lat: 28.65, Lng: 77.25},
	}
}

func TestAdd_RejectsUnknownType(t *testing.T) {
	svc, _, _ := newTestService(t, Config{RouteSteps: 10, StepInterval: time.Minute})

	in := hospitalRun()
	in.Type = "tow-truck"
	_, err := svc.Add(context.Background(), in)
	require.Error(t, err)

	vehicles, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, vehicles)
}

func TestToggle_DoubleToggleRoundTrips(t *testing.T) {
	svc, st, _ := newTestService(t, Config{RouteSteps: 10, StepInterval: time.Minute})
	ctx := context.Background()

	v, err := svc.Add(ctx, hospitalRun())
	require.NoError(t, err)
	assert.Equal(t, emergency.StatusInactive, v.Status)

	on, err := svc.Toggle(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, emergency.StatusActive, on.Status)

	off, err := svc.Toggle(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, emergency.StatusInactive, off.Status, "two toggles restore the original status")

	state, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, emergency.StatusInactive, state.EmergencyVehicles[0].Status,
		"echoed status matches what was persisted")
}

func TestToggle_UnknownVehicle(t *testing.T) {
	svc, _, _ := newTestService(t, Config{RouteSteps: 10, StepInterval: time.Minute})

	_, err := svc.Toggle(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrVehicleNotFound)
}

func TestRoute_EndpointsMatch(t *testing.T) {
	svc, _, _ := newTestService(t, Config{RouteSteps: 10, StepInterval: time.Minute})
	ctx := context.Background()

	v, err := svc.Add(ctx, hospitalRun())
	require.NoError(t, err)

	path, err := svc.Route(ctx, v.ID)
	require.NoError(t, err)
	require.Len(t, path, 11)
	assert.InDelta(t, 28.61, path[0].Lat, 1e-9)
	assert.InDelta(t, 28.65, path[len(path)-1].Lat, 1e-9)
}

func simRegistered(svc *Service, vehicleID string) bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	_, ok := svc.sims[vehicleID]
	return ok
}

func TestSimulation_SurvivesQuickRestart(t *testing.T) {
	svc, _, fb := newTestService(t, Config{RouteSteps: 500, StepInterval: 5 * time.Millisecond})
	ctx := context.Background()

	v, err := svc.Add(ctx, hospitalRun())
	require.NoError(t, err)

	_, err = svc.Toggle(ctx, v.ID)
	require.NoError(t, err)

	// Rapid off/on cycles race each finished goroutine's cleanup
	// against the replacement registration.
	for i := 0; i < 10; i++ {
		_, err = svc.Toggle(ctx, v.ID)
		require.NoError(t, err)
		_, err = svc.Toggle(ctx, v.ID)
		require.NoError(t, err)
	}

	assert.Eventually(t, func() bool { return simRegistered(svc, v.ID) },
		2*time.Second, 5*time.Millisecond,
		"active vehicle keeps a registered simulation after a restart")

	before := fb.count()
	require.Eventually(t, func() bool { return fb.count() > before },
		2*time.Second, 5*time.Millisecond,
		"restarted simulation keeps broadcasting positions")
}

func TestSimulation_MovesVehicleWhileActive(t *testing.T) {
	svc, st, fb := newTestService(t, Config{RouteSteps: 50, StepInterval: 5 * time.Millisecond})
	ctx := context.Background()

	v, err := svc.Add(ctx, hospitalRun())
	require.NoError(t, err)

	_, err = svc.Toggle(ctx, v.ID)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return fb.count() >= 2 },
		2*time.Second, 5*time.Millisecond, "active vehicle broadcasts movement")

	state, err := st.Load(ctx)
	require.NoError(t, err)
	moved := state.EmergencyVehicles[0]
	assert.NotEqual(t, 28.61, moved.CurrentLocation.Lat, "position advances along the route")

	_, err = svc.Toggle(ctx, v.ID)
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	after := fb.count()
	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, fb.count(), after+1, "deactivation stops the broadcast")
}
