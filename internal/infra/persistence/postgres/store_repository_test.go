package postgres

import (
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/storefront/internal/domain/geo"
	domstore "example.com/storefront/internal/domain/store"
)

func TestBuildStoreFind(t *testing.T) {
	city, service := "москва", "Измерение давления"
	yes := true
	sql, args := buildStoreFind(domstore.Filter{
		City:       &city,
		Service:    &service,
		HasParking: &yes,
		Near:       &geo.Point{Lat: 55.7558, Lng: 37.6176},
		RadiusKm:   5,
	})
	sql = squash(sql)

	require.Contains(t, sql, "WHERE s.is_active = TRUE AND LOWER(s.city) = LOWER($1) AND $2 = ANY(s.services) "+
		"AND s.has_parking = $3 AND s.latitude IS NOT NULL AND s.longitude IS NOT NULL")
	require.Contains(t, sql, "ORDER BY s.name ASC, s.id ASC")
	require.Equal(t, []any{city, service, true}, args)
}

func TestBuildStoreFindWithoutOptions(t *testing.T) {
	sql, args := buildStoreFind(domstore.Filter{})
	require.Contains(t, squash(sql), "FROM stores s WHERE s.is_active = TRUE ORDER BY")
	require.Empty(t, args)
}
