package bookings

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridewithus/carpool/internal/domain/booking"
	"github.com/ridewithus/carpool/internal/domain/ride"
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
	return NewService(st, notify.Nop{}, logger.NewNop()), st
}

func seedRideWithBooking(t *testing.T, st *store.Store, rideStatus ride.Status, bookingStatus booking.Status) (ride.Ride, booking.Booking) {
	t.Helper()
	ctx := context.Background()

	r := ride.Ride{
		ID:                "r1",
		RiderID:           "rider-1",
		RiderName:         "Alice",
		RiderRating:       4.9,
		DepartureTime:     time.Now().Add(45 * time.Minute),
		VehicleType:       ride.VehicleCar,
		AvailableSeats:    2,
		PricePerPassenger: 120,
		Status:            rideStatus,
		Passengers:        []string{"p1"},
		CreatedAt:         time.Now(),
	}
	_, err := st.AddRide(ctx, r)
	require.NoError(t, err)

	b := booking.Booking{
		ID:            "b1",
		RideID:        r.ID,
		PassengerID:   "p1",
		PassengerName: "Pat",
		Status:        bookingStatus,
		CreatedAt:     time.Now(),
	}
	_, err = st.AddBooking(ctx, b)
	require.NoError(t, err)

	return r, b
}

func TestGet_JoinsRideAndDerivesOTP(t *testing.T) {
	svc, st := newTestService(t)
	seedRideWithBooking(t, st, ride.StatusScheduled, booking.StatusConfirmed)

	d, err := svc.Get(context.Background(), "b1")
	require.NoError(t, err)

	require.NotNil(t, d.Ride)
	assert.Equal(t, "r1", d.Ride.ID)
	assert.Greater(t, d.ETAMinutes, 0)
	assert.Regexp(t, `^\d{4}$`, d.OTP)

	state, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, state.Bookings[0].OTP, "OTP is display-only, never persisted")
}

func TestGet_NoOTPOncePickedUp(t *testing.T) {
	svc, st := newTestService(t)
	seedRideWithBooking(t, st, ride.StatusInProgress, booking.StatusInProgress)

	d, err := svc.Get(context.Background(), "b1")
	require.NoError(t, err)
	assert.Empty(t, d.OTP)
}

func TestGet_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrBookingNotFound)
}

func TestListForUser_SplitsActiveAndPast(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	seedRideWithBooking(t, st, ride.StatusScheduled, booking.StatusConfirmed)

	_, err := st.AddBooking(ctx, booking.Booking{
		ID: "b2", RideID: "r1", PassengerID: "p1", PassengerName: "Pat",
		Status: booking.StatusCompleted, CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	_, err = st.AddBooking(ctx, booking.Booking{
		ID: "b3", RideID: "r1", PassengerID: "p2", PassengerName: "Quinn",
		Status: booking.StatusConfirmed, CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	summary, err := svc.ListForUser(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, summary.Active, 1)
	assert.Equal(t, "b1", summary.Active[0].Booking.ID)
	require.Len(t, summary.Past, 1)
	assert.Equal(t, "b2", summary.Past[0].Booking.ID)
}

func TestListForUser_RiderSeesRideBookings(t *testing.T) {
	svc, st := newTestService(t)
	seedRideWithBooking(t, st, ride.StatusScheduled, booking.StatusConfirmed)

	summary, err := svc.ListForUser(context.Background(), "rider-1")
	require.NoError(t, err)
	require.Len(t, summary.Active, 1)
	assert.Equal(t, "p1", summary.Active[0].Booking.PassengerID)
}

func TestCancel_RestoresSeatWhileScheduled(t *testing.T) {
	svc, st := newTestService(t)
	seedRideWithBooking(t, st, ride.StatusScheduled, booking.StatusConfirmed)

	cancelled, err := svc.Cancel(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCancelled, cancelled.Status)

	state, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, state.Rides[0].AvailableSeats, "seat goes back on sale")
	assert.Empty(t, state.Rides[0].Passengers, "passenger leaves the manifest")
}

func TestCancel_NoSeatRestoreOnceStarted(t *testing.T) {
	svc, st := newTestService(t)
	seedRideWithBooking(t, st, ride.StatusInProgress, booking.StatusInProgress)

	_, err := svc.Cancel(context.Background(), "b1")
	require.NoError(t, err)

	state, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, state.Rides[0].AvailableSeats)
	assert.Equal(t, []string{"p1"}, state.Rides[0].Passengers)
}

func TestCancel_TerminalBookingRejected(t *testing.T) {
	svc, st := newTestService(t)
	seedRideWithBooking(t, st, ride.StatusCompleted, booking.StatusCompleted)

	_, err := svc.Cancel(context.Background(), "b1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}
