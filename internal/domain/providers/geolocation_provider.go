package providers

import (
	"context"
)

// GeolocationProvider converts a free-form address into coordinates.
// Geocoding is an external collaborator; the recommendation core only ever
// sees the resulting coordinates or a failure.
type GeolocationProvider interface {
	// Geocode converts an address to coordinates
	Geocode(ctx context.Context, address string) (*Coordinates, error)
}

// Coordinates represents geographical coordinates
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
