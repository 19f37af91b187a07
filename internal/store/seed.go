package store

import (
	"context"
	"time"

	"github.com/ridewithus/carpool/internal/domain/emergency"
	"github.com/ridewithus/carpool/internal/domain/geo"
	"github.com/ridewithus/carpool/internal/domain/ride"
)

// Seed writes the demo data set into an empty store: three scheduled
// rides and one ambulance. A store that already has rides is left
// alone.
func (s *Store) Seed(ctx context.Context) (*AppState, error) {
	return s.Update(ctx, func(state *AppState) error {
		if len(state.Rides) > 0 {
			return nil
		}

		now := time.Now()
		state.Rides = []ride.Ride{
			{
				ID:          "1",
				RiderID:     "2",
				RiderName:   "Alice Smith",
				RiderRating: 4.9,
				StartLocation: geo.Location{
					Address: "Downtown", Lat: 28.6139, Lng: 77.2090,
				},
				EndLocation: geo.Location{
					Address: "Tech Park", Lat: 28.5355, Lng: 77.3910,
				},
				DepartureTime:     now.Add(30 * time.Minute),
				VehicleType:       ride.VehicleCar,
				AvailableSeats:    3,
				PricePerPassenger: 120,
				Status:            ride.StatusScheduled,
				Passengers:        []string{},
				CreatedAt:         now,
			},
			{
				ID:          "2",
				RiderID:     "3",
				RiderName:   "Bob Johnson",
				RiderRating: 4.7,
				StartLocation: geo.Location{
					Address: "City Center", Lat: 28.6329, Lng: 77.2195,
				},
				EndLocation: geo.Location{
					Address: "Airport", Lat: 28.5562, Lng: 77.1000,
				},
				DepartureTime:     now.Add(time.Hour),
				VehicleType:       ride.VehicleSUV,
				AvailableSeats:    5,
				PricePerPassenger: 200,
				Status:            ride.StatusScheduled,
				Passengers:        []string{},
				CreatedAt:         now,
			},
			{
				ID:          "3",
				RiderID:     "4",
				RiderName:   "Charlie Brown",
				RiderRating: 4.5,
				StartLocation: geo.Location{
					Address: "Mall", Lat: 28.5374, Lng: 77.2410,
				},
				EndLocation: geo.Location{
					Address: "Stadium", Lat: 28.6127, Lng: 77.2772,
				},
				DepartureTime:     now.Add(15 * time.Minute),
				VehicleType:       ride.VehicleBike,
				AvailableSeats:    1,
				PricePerPassenger: 80,
				Status:            ride.StatusScheduled,
				Passengers:        []string{},
				CreatedAt:         now,
			},
		}

		state.EmergencyVehicles = []emergency.Vehicle{
			{
				ID:   "e1",
				Type: emergency.TypeAmbulance,
				CurrentLocation: geo.Location{
					Address: "Hospital", Lat: 28.6127, Lng: 77.2090,
				},
				Destination: geo.Location{
					Address: "Accident Site", Lat: 28.5955, Lng: 77.2211,
				},
				Status: emergency.StatusInactive,
			},
		}
		return nil
	})
}
