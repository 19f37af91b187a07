package geocode

import (
	"context"
	"errors"
	"hash/fnv"
	"math/rand"
	"strings"
	"time"

	"github.com/ridewithus/carpool/internal/domain/geo"
)

// Geocoder maps a free-text address to a location. Implementations
// may take a bounded amount of time; a failed resolution is a
// user-facing validation error and is never retried.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (geo.Location, error)
}

// ErrUnresolvable is returned when an address cannot be resolved
var ErrUnresolvable = errors.New("address could not be resolved")

// Config holds demo geocoder settings
type Config struct {
	CenterLat float64
	CenterLng float64
	Jitter    float64 // max coordinate spread around the center
	Delay     time.Duration
}

// Demo is the demonstration geocoder: it waits the configured delay,
// then places the address at a pseudo-random offset around the city
// center. The offset is derived from the address text so the same
// address always lands on the same spot within a run of the demo.
// There is no real geocoding anywhere in this system.
type Demo struct {
	config Config
}

// NewDemo creates a demo geocoder
func NewDemo(config Config) *Demo {
	return &Demo{config: config}
}

// Geocode resolves an address or fails on blank input
func (d *Demo) Geocode(ctx context.Context, address string) (geo.Location, error) {
	if strings.TrimSpace(address) == "" {
		return geo.Location{}, ErrUnresolvable
	}

	if d.config.Delay > 0 {
		select {
		case <-time.After(d.config.Delay):
		case <-ctx.Done():
			return geo.Location{}, ctx.Err()
		}
	}

	h := fnv.New64a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(address))))
	r := rand.New(rand.NewSource(int64(h.Sum64())))

	return geo.Location{
		Address: address,
		Lat:     d.config.CenterLat + (r.Float64()-0.5)*d.config.Jitter,
		Lng:     d.config.CenterLng + (r.Float64()-0.5)*d.config.Jitter,
	}, nil
}
