package store

import (
	"encoding/json"
	"slices"
	"strings"

	"example.com/storefront/internal/domain/geo"
	"example.com/storefront/internal/domain/listing"
)

type Store struct {
	ID           int64
	Name         string
	Address      string
	City         string
	Phone        *string
	Email        *string
	Latitude     *float64
	Longitude    *float64
	WorkingHours json.RawMessage
	Services     []string
	HasParking   bool
	Is24h        bool
	IsActive     bool
}

func (s *Store) Position() (geo.Point, bool) {
	if s.Latitude == nil || s.Longitude == nil {
		return geo.Point{}, false
	}
	return geo.Point{Lat: *s.Latitude, Lng: *s.Longitude}, true
}

func (s *Store) DisplayName() string { return s.Name }

// Filter narrows the store lookup. Near, when set, switches the ordering to
// distance and drops stores further than RadiusKm.
type Filter struct {
	City       *string
	Service    *string
	Is24h      *bool
	HasParking *bool
	Near       *geo.Point
	RadiusKm   float64
}

type Facets struct {
	Cities   []string
	Services []string
}

func (f Filter) Validate() error {
	if f.Near == nil {
		return nil
	}
	if !f.Near.Valid() {
		return listing.InvalidValue("lat/lng", "out of range")
	}
	if f.RadiusKm <= 0 {
		return listing.InvalidValue("radius", "must be positive")
	}
	return nil
}

// Matches applies the non-geographic predicates of f.
func (f Filter) Matches(s *Store) bool {
	if !s.IsActive {
		return false
	}
	if f.City != nil && !strings.EqualFold(s.City, *f.City) {
		return false
	}
	if f.Service != nil && !slices.Contains(s.Services, *f.Service) {
		return false
	}
	if f.Is24h != nil && s.Is24h != *f.Is24h {
		return false
	}
	if f.HasParking != nil && s.HasParking != *f.HasParking {
		return false
	}
	return true
}
