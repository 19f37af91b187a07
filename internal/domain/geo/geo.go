package geo

import (
	"math"
	"time"
)

// Location is an immutable value type; it has no identity beyond its
// coordinates.
type Location struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// Distance returns the haversine distance between two locations in
// kilometers.
func Distance(a, b Location) float64 {
	const earthRadius = 6371 // kilometers

	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadius * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Route interpolates a path along the straight lines connecting the
// given waypoints. It returns steps+1 points, first and last being
// the first and last waypoint. Routes here are always straight lines;
// there is no real road routing.
func Route(waypoints []Location, steps int) []Location {
	if len(waypoints) == 0 || steps < 1 {
		return nil
	}
	if len(waypoints) == 1 {
		return []Location{waypoints[0]}
	}

	// Total length determines how far along the polyline each step
	// lands, so segments contribute points proportionally.
	total := 0.0
	segs := make([]float64, len(waypoints)-1)
	for i := 0; i < len(waypoints)-1; i++ {
		segs[i] = Distance(waypoints[i], waypoints[i+1])
		total += segs[i]
	}
	if total == 0 {
		out := make([]Location, steps+1)
		for i := range out {
			out[i] = waypoints[0]
		}
		return out
	}

	out := make([]Location, 0, steps+1)
	for s := 0; s <= steps; s++ {
		target := total * float64(s) / float64(steps)
		out = append(out, pointAt(waypoints, segs, target))
	}
	return out
}

func pointAt(waypoints []Location, segs []float64, target float64) Location {
	walked := 0.0
	for i, seg := range segs {
		if walked+seg >= target && seg > 0 {
			f := (target - walked) / seg
			a, b := waypoints[i], waypoints[i+1]
			return Location{
				Lat: a.Lat + (b.Lat-a.Lat)*f,
				Lng: a.Lng + (b.Lng-a.Lng)*f,
			}
		}
		walked += seg
	}
	return waypoints[len(waypoints)-1]
}

// ETAMinutes returns whole minutes until departure, clamped at zero.
// Derived presentation state: recomputed from the clock on each call,
// never persisted.
func ETAMinutes(departure, now time.Time) int {
	d := departure.Sub(now)
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}
