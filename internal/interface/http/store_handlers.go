package http

import (
	"net/http"

	"example.com/storefront/internal/domain/geo"
	"example.com/storefront/internal/domain/listing"
	domstore "example.com/storefront/internal/domain/store"
)

type storeGeoQuery struct {
	Lat    *float64 `query:"lat" validate:"omitnil,gte=-90,lte=90"`
	Lng    *float64 `query:"lng" validate:"omitnil,gte=-180,lte=180"`
	Radius float64  `query:"radius" validate:"gt=0"`
}

func (a *API) handleListStores(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r.URL.Query())
	filter := domstore.Filter{
		City:       q.String("city"),
		Service:    q.String("service"),
		Is24h:      q.Bool("is24h"),
		HasParking: q.Bool("hasParking"),
	}
	gq := storeGeoQuery{Lat: q.Float("lat"), Lng: q.Float("lng"), Radius: geo.DefaultRadiusKm}
	if radius := q.Float("radius"); radius != nil {
		gq.Radius = *radius
	}
	if err := q.Err(); err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	if (gq.Lat == nil) != (gq.Lng == nil) {
		a.handleDomainError(w, r, listing.InvalidValue("lat/lng", "must be given together"))
		return
	}
	if err := a.validateQuery(gq); err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	if gq.Lat != nil {
		filter.Near = &geo.Point{Lat: *gq.Lat, Lng: *gq.Lng}
		filter.RadiusKm = gq.Radius
	}

	res, err := a.storeSvc.Find(r.Context(), filter)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}

	stores := make([]storeView, 0, len(res.Stores))
	for _, s := range res.Stores {
		stores = append(stores, mapStore(s))
	}

	applied := map[string]any{}
	putIf(applied, "city", filter.City)
	putIf(applied, "service", filter.Service)
	putIf(applied, "is24h", filter.Is24h)
	putIf(applied, "hasParking", filter.HasParking)
	if filter.Near != nil {
		applied["lat"] = filter.Near.Lat
		applied["lng"] = filter.Near.Lng
		applied["radius"] = filter.RadiusKm
	}

	respondData(w, http.StatusOK, map[string]any{
		"stores": stores,
		"total":  len(stores),
		"filters": map[string][]string{
			"cities":   orEmpty(res.Facets.Cities),
			"services": orEmpty(res.Facets.Services),
		},
		"appliedFilters": applied,
	})
}
