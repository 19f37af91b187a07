package ride

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_CanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"scheduled to in-progress", StatusScheduled, StatusInProgress, true},
		{"in-progress to completed", StatusInProgress, StatusCompleted, true},
		{"scheduled to cancelled", StatusScheduled, StatusCancelled, true},
		{"scheduled skips to completed", StatusScheduled, StatusCompleted, false},
		{"in-progress back to scheduled", StatusInProgress, StatusScheduled, false},
		{"in-progress to cancelled", StatusInProgress, StatusCancelled, false},
		{"completed is terminal", StatusCompleted, StatusInProgress, false},
		{"cancelled is terminal", StatusCancelled, StatusScheduled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to))
		})
	}
}

func TestRide_CanBook(t *testing.T) {
	r := Ride{Status: StatusScheduled, AvailableSeats: 1}
	assert.True(t, r.CanBook())

	r.AvailableSeats = 0
	assert.False(t, r.CanBook(), "full ride rejects bookings")

	r.AvailableSeats = 2
	r.Status = StatusInProgress
	assert.False(t, r.CanBook(), "only scheduled rides accept bookings")
}

func TestRide_CanStart(t *testing.T) {
	r := Ride{Status: StatusScheduled}
	assert.True(t, r.CanStart())

	r.Status = StatusInProgress
	assert.False(t, r.CanStart(), "first pickup already started the ride")
}

func TestRide_HasPassenger(t *testing.T) {
	r := Ride{Passengers: []string{"p1", "p2"}}

	assert.True(t, r.HasPassenger("p1"))
	assert.False(t, r.HasPassenger("p3"))
}

func TestRide_RoutePoints(t *testing.T) {
	r := Ride{}
	r.StartLocation.Address = "A"
	r.EndLocation.Address = "B"

	points := r.RoutePoints()
	assert.Len(t, points, 2)
	assert.Equal(t, "A", points[0].Address)
	assert.Equal(t, "B", points[1].Address)
}

func TestVehicleType_IsValid(t *testing.T) {
	for _, v := range []VehicleType{VehicleBike, VehicleCar, VehicleSUV} {
		assert.True(t, v.IsValid())
	}
	assert.False(t, VehicleType("Truck").IsValid())
}
