package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RidesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{Namespace: "carpool", Name: "rides_created_total", Help: "Total rides posted"})
	BookingsTotal     = promauto.NewCounter(prometheus.CounterOpts{Namespace: "carpool", Name: "bookings_total", Help: "Total seats booked"})
	BookingsRejected  = promauto.NewCounter(prometheus.CounterOpts{Namespace: "carpool", Name: "bookings_rejected_total", Help: "Booking attempts rejected by policy"})
	EmergencyToggles  = promauto.NewCounter(prometheus.CounterOpts{Namespace: "carpool", Name: "emergency_toggles_total", Help: "Emergency vehicle status flips"})
	StoreFallbacks    = promauto.NewCounter(prometheus.CounterOpts{Namespace: "carpool", Name: "store_fallbacks_total", Help: "Corrupt documents replaced by the default state on load"})

	StoreWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "carpool", Name: "store_writes_total", Help: "Document writes per backend"},
		[]string{"backend"},
	)
	RideStatus = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "carpool", Name: "ride_status_transitions_total", Help: "Ride status transitions"},
		[]string{"to"},
	)
)
