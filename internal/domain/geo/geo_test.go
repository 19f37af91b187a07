package geo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDistance_KnownPoints(t *testing.T) {
	downtown := Location{Address: "Downtown", Lat: 28.6139, Lng: 77.2090}
	techPark := Location{Address: "Tech Park", Lat: 28.5355, Lng: 77.3910}

	d := Distance(downtown, techPark)

	assert.InDelta(t, 19.7, d, 1.0, "Downtown to Tech Park is roughly 20km")
	assert.Equal(t, 0.0, Distance(downtown, downtown))
}

func TestRoute_StraightLine(t *testing.T) {
	start := Location{Lat: 0, Lng: 0}
	end := Location{Lat: 1, Lng: 1}

	points := Route([]Location{start, end}, 4)

	assert.Len(t, points, 5)
	assert.Equal(t, start.Lat, points[0].Lat)
	assert.Equal(t, end.Lat, points[4].Lat)
	assert.InDelta(t, 0.5, points[2].Lat, 1e-9, "midpoint sits halfway")
	assert.InDelta(t, 0.5, points[2].Lng, 1e-9)
}

func TestRoute_Waypoints(t *testing.T) {
	points := Route([]Location{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 1},
		{Lat: 1, Lng: 1},
	}, 10)

	assert.Len(t, points, 11)
	assert.Equal(t, 1.0, points[10].Lat)
	assert.Equal(t, 1.0, points[10].Lng)
	for _, p := range points {
		assert.GreaterOrEqual(t, p.Lng, 0.0)
		assert.LessOrEqual(t, p.Lng, 1.0)
	}
}

func TestRoute_Degenerate(t *testing.T) {
	assert.Nil(t, Route(nil, 5))
	assert.Nil(t, Route([]Location{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}}, 0))

	same := Location{Lat: 3, Lng: 3}
	points := Route([]Location{same, same}, 3)
	assert.Len(t, points, 4)
	for _, p := range points {
		assert.Equal(t, same.Lat, p.Lat)
	}
}

func TestETAMinutes(t *testing.T) {
	now := time.Now()

	assert.Equal(t, 30, ETAMinutes(now.Add(30*time.Minute), now))
	assert.Equal(t, 0, ETAMinutes(now, now))
	assert.Equal(t, 0, ETAMinutes(now.Add(-5*time.Minute), now), "past departures clamp to zero")
	assert.Equal(t, 0, ETAMinutes(now.Add(30*time.Second), now), "sub-minute rounds down")
}
