// Package elevation annotates graph vertices with terrain height and
// derives per-edge elevation gains.
package elevation

import (
	"context"

	"github.com/paveroute/paveroute/pkg/geo"
)

// Provider resolves terrain elevation in meters for coordinates.
// Implementations: SRTMProvider for local .hgt tiles, HTTPProvider for
// a remote lookup service.
type Provider interface {
	Elevation(ctx context.Context, lat, lon float64) (float64, error)
	Elevations(ctx context.Context, points []geo.Coordinate) ([]float64, error)
}
