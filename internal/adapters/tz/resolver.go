// Package tz resolves IANA timezone names from coordinates using the
// offline polygons bundled with tzf.
package tz

import (
	"fmt"

	"github.com/ringsaturn/tzf"

	"github.com/samirrijal/waypath/internal/core/domain"
)

// Resolver implements ports.TimezoneResolver.
type Resolver struct {
	finder tzf.F
}

// New loads the default finder. Loading takes a moment, so build one Resolver
// per process.
func New() (*Resolver, error) {
	finder, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, fmt.Errorf("load timezone finder: %w", err)
	}
	return &Resolver{finder: finder}, nil
}

// Timezone returns the zone containing p.
func (r *Resolver) Timezone(p domain.GeoPoint) (string, error) {
	if !p.Valid() {
		return "", domain.NewValidationError("location", "invalid coordinate")
	}
	name := r.finder.GetTimezoneName(p.Lon, p.Lat)
	if name == "" {
		return "", fmt.Errorf("no timezone at %.4f,%.4f: %w", p.Lat, p.Lon, domain.ErrNotFound)
	}
	return name, nil
}
