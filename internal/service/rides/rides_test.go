package rides

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridewithus/carpool/internal/domain/booking"
	"github.com/ridewithus/carpool/internal/domain/ride"
	"github.com/ridewithus/carpool/internal/domain/user"
	"github.com/ridewithus/carpool/internal/service/geocode"
	"github.com/ridewithus/carpool/internal/store"
	apperrors "github.com/ridewithus/carpool/pkg/errors"
	"github.com/ridewithus/carpool/pkg/logger"
	"github.com/ridewithus/carpool/pkg/notify"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	backend, err := store.NewFileBackend(filepath.Join(t.TempDir(), "app_state.json"))
	require.NoError(t, err)
	st := store.New(backend, logger.NewNop())

	geocoder := geocode.NewDemo(geocode.Config{
		CenterLat: 28.6139,
		CenterLng: 77.2090,
		Jitter:    0.1,
	})

	svc := NewService(st, geocoder, notify.Nop{}, logger.NewNop(), Config{
		PriceCeiling: 300,
		MaxSeats:     10,
	})
	return svc, st
}

func alice() user.User {
	return user.User{ID: "rider-1", Name: "Alice", Email: "alice@example.com", Rating: 4.9, Mode: user.ModeRider}
}

func passenger(id, name string) user.User {
	return user.User{ID: id, Name: name, Email: name + "@example.com", Rating: 5, Mode: user.ModePassenger}
}

func validInput(seats int) CreateInput {
	return CreateInput{
		Rider:             alice(),
		StartAddress:      "Downtown",
		EndAddress:        "Tech Park",
		DepartureTime:     time.Now().Add(30 * time.Minute),
		VehicleType:       ride.VehicleCar,
		AvailableSeats:    seats,
		PricePerPassenger: 120,
	}
}

func TestCreate_Success(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	r, err := svc.Create(ctx, validInput(3))
	require.NoError(t, err)

	assert.Equal(t, ride.StatusScheduled, r.Status)
	assert.Equal(t, 3, r.AvailableSeats)
	assert.Empty(t, r.Passengers)
	assert.Equal(t, "Downtown", r.StartLocation.Address)
	assert.NotZero(t, r.StartLocation.Lat)

	state, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, state.Rides, 1)
}

func TestCreate_ValidationRejectsBeforeWrite(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*CreateInput)
		want   error
	}{
		{"missing start address", func(in *CreateInput) { in.StartAddress = "" }, apperrors.ErrMissingFields},
		{"missing end address", func(in *CreateInput) { in.EndAddress = "  " }, apperrors.ErrMissingFields},
		{"missing departure time", func(in *CreateInput) { in.DepartureTime = time.Time{} }, apperrors.ErrMissingFields},
		{"bad vehicle type", func(in *CreateInput) { in.VehicleType = "Truck" }, apperrors.ErrInvalidVehicleType},
		{"zero price", func(in *CreateInput) { in.PricePerPassenger = 0 }, apperrors.ErrPriceCeiling},
		{"price above ceiling", func(in *CreateInput) { in.PricePerPassenger = 301 }, apperrors.ErrPriceCeiling},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput(2)
			tt.mutate(&in)

			_, err := svc.Create(ctx, in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := svc.Create(ctx, CreateInput{
		Rider: alice(), StartAddress: "A", EndAddress: "B",
		DepartureTime: time.Now(), VehicleType: ride.VehicleCar,
		AvailableSeats: 0, PricePerPassenger: 100,
	})
	require.Error(t, err, "zero seats rejected")

	state, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, state.Rides, "no rejected operation wrote partial state")
}

func TestList_FiltersAndSorts(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	now := time.Now()
	mk := func(id string, dep time.Time, price, rating float64, status ride.Status, seats int) ride.Ride {
		return ride.Ride{
			ID: id, RiderID: "x", RiderRating: rating,
			DepartureTime: dep, VehicleType: ride.VehicleCar,
			AvailableSeats: seats, PricePerPassenger: price,
			Status: status, Passengers: []string{}, CreatedAt: now,
		}
	}

	_, err := st.AddRide(ctx, mk("late-cheap", now.Add(2*time.Hour), 80, 4.5, ride.StatusScheduled, 2))
	require.NoError(t, err)
	_, err = st.AddRide(ctx, mk("early-pricey", now.Add(15*time.Minute), 200, 4.9, ride.StatusScheduled, 1))
	require.NoError(t, err)
	_, err = st.AddRide(ctx, mk("full", now.Add(10*time.Minute), 50, 5, ride.StatusScheduled, 0))
	require.NoError(t, err)
	_, err = st.AddRide(ctx, mk("done", now.Add(20*time.Minute), 50, 5, ride.StatusCompleted, 3))
	require.NoError(t, err)
	_, err = st.AddRide(ctx, mk("tie-cheap", now.Add(3*time.Hour), 80, 4.5, ride.StatusScheduled, 2))
	require.NoError(t, err)

	byTime, err := svc.List(ctx, SortByTime)
	require.NoError(t, err)
	require.Len(t, byTime, 3, "full and completed rides are hidden")
	assert.Equal(t, "early-pricey", byTime[0].ID)

	byPrice, err := svc.List(ctx, SortByPrice)
	require.NoError(t, err)
	assert.Equal(t, "late-cheap", byPrice[0].ID)
	assert.Equal(t, "tie-cheap", byPrice[1].ID, "price ties keep insertion order")

	byRating, err := svc.List(ctx, SortByRating)
	require.NoError(t, err)
	assert.Equal(t, "early-pricey", byRating[0].ID)
	assert.Equal(t, "late-cheap", byRating[1].ID, "rating ties keep insertion order")
}

func TestBookSeat_DecrementsOnce(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	r, err := svc.Create(ctx, validInput(3))
	require.NoError(t, err)

	b, updated, err := svc.BookSeat(ctx, r.ID, passenger("p1", "Pat"))
	require.NoError(t, err)

	assert.Equal(t, booking.StatusConfirmed, b.Status)
	assert.Equal(t, r.ID, b.RideID)
	assert.Equal(t, 2, updated.AvailableSeats)
	assert.Equal(t, []string{"p1"}, updated.Passengers)

	state, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, state.Bookings, 1)
	assert.Equal(t, 2, state.Rides[0].AvailableSeats)
}

func TestBookSeat_LastSeat(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	r, err := svc.Create(ctx, validInput(1))
	require.NoError(t, err)

	_, updated, err := svc.BookSeat(ctx, r.ID, passenger("p1", "Pat"))
	require.NoError(t, err)
	assert.Equal(t, 0, updated.AvailableSeats)
	assert.Equal(t, []string{"p1"}, updated.Passengers)

	_, _, err = svc.BookSeat(ctx, r.ID, passenger("p2", "Quinn"))
	assert.ErrorIs(t, err, apperrors.ErrRideFull)

	state, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, state.Rides[0].AvailableSeats, "seats never go negative")
	assert.Len(t, state.Bookings, 1, "rejected booking is never persisted")
}

func TestBookSeat_ConcurrentLastSeat(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	r, err := svc.Create(ctx, validInput(1))
	require.NoError(t, err)

	const attempts = 8
	var wg sync.WaitGroup
	var successes atomic.Int32

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			p := passenger(fmt.Sprintf("p%d", n), fmt.Sprintf("Passenger%d", n))
			if _, _, err := svc.BookSeat(ctx, r.ID, p); err == nil {
				successes.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load(), "exactly one booking wins the last seat")

	state, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, state.Rides[0].AvailableSeats)
	assert.Len(t, state.Rides[0].Passengers, 1)
	assert.Len(t, state.Bookings, 1)
}

func TestBookSeat_PolicyRejections(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	r, err := svc.Create(ctx, validInput(3))
	require.NoError(t, err)

	_, _, err = svc.BookSeat(ctx, "missing", passenger("p1", "Pat"))
	assert.ErrorIs(t, err, apperrors.ErrRideNotFound)

	_, _, err = svc.BookSeat(ctx, r.ID, alice())
	assert.ErrorIs(t, err, apperrors.ErrOwnRide)

	_, _, err = svc.BookSeat(ctx, r.ID, passenger("p1", "Pat"))
	require.NoError(t, err)
	_, _, err = svc.BookSeat(ctx, r.ID, passenger("p1", "Pat"))
	assert.ErrorIs(t, err, apperrors.ErrAlreadyBooked)

	_, err = svc.Cancel(ctx, r.ID)
	require.NoError(t, err)
	_, _, err = svc.BookSeat(ctx, r.ID, passenger("p2", "Quinn"))
	assert.ErrorIs(t, err, apperrors.ErrRideNotOpen)
}

func TestLifecycle_PickupThenComplete(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	r, err := svc.Create(ctx, validInput(2))
	require.NoError(t, err)

	b, _, err := svc.BookSeat(ctx, r.ID, passenger("p1", "Pat"))
	require.NoError(t, err)

	picked, started, err := svc.ConfirmPickup(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusInProgress, picked.Status)
	assert.Equal(t, ride.StatusInProgress, started.Status)

	completed, err := svc.Complete(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, ride.StatusCompleted, completed.Status)

	state, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCompleted, state.Bookings[0].Status,
		"completing the ride completes its bookings")
}

func TestComplete_RequiresInProgress(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	r, err := svc.Create(ctx, validInput(2))
	require.NoError(t, err)

	_, err = svc.Complete(ctx, r.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition, "scheduled rides cannot skip to completed")
}

func TestCancel_OnlyFromScheduled(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	r, err := svc.Create(ctx, validInput(2))
	require.NoError(t, err)
	b, _, err := svc.BookSeat(ctx, r.ID, passenger("p1", "Pat"))
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, ride.StatusCancelled, cancelled.Status)

	state, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCancelled, state.FindBooking(b.ID).Status,
		"cancelling the ride cancels open bookings")

	r2, err := svc.Create(ctx, validInput(2))
	require.NoError(t, err)
	b2, _, err := svc.BookSeat(ctx, r2.ID, passenger("p1", "Pat"))
	require.NoError(t, err)
	_, _, err = svc.ConfirmPickup(ctx, b2.ID)
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, r2.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition, "in-progress rides cannot be cancelled")
}

func TestDelete_ChangesListByOne(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	r, err := svc.Create(ctx, validInput(2))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, r.ID))

	state, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, state.Rides)

	err = svc.Delete(ctx, r.ID)
	assert.ErrorIs(t, err, apperrors.ErrRideNotFound)
}
