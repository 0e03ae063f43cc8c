package geocode

import (
	"context"
	"errors"
)

var (
	// ErrAmbiguous is returned when an address resolves to more than
	// one candidate location. Callers keep the store with its
	// non-geocoded fields and move on.
	ErrAmbiguous = errors.New("address matched multiple locations")

	// ErrNoMatch is returned when the geocoder finds nothing.
	ErrNoMatch = errors.New("address matched no locations")
)

// Result is a normalized address with its coordinates.
type Result struct {
	Address   string
	Latitude  float64
	Longitude float64
}

// Geocoder resolves a raw street address to a normalized address and
// a coordinate pair.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Result, error)
}
