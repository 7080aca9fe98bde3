package http

import (
	"net/http"

	"example.com/storefront/internal/domain/listing"
	domtour "example.com/storefront/internal/domain/tour"
)

func (a *API) handleListTours(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r.URL.Query())
	filter := domtour.Filter{
		Query:         q.String("q"),
		Location:      q.String("location"),
		TourType:      q.String("tourType"),
		MealType:      q.String("mealType"),
		MinRating:     q.Float("rating"),
		MinPrice:      q.Float("minPrice"),
		MaxPrice:      q.Float("maxPrice"),
		Guests:        q.IntPtr("guests"),
		DepartureDate: q.Date("departureDate"),
		SortBy:        domtour.ParseSortField(r.URL.Query().Get("sortBy")),
		Page: listing.Request{
			Page:  q.Int("page", 1),
			Limit: q.Int("limit", a.tourPage),
		},
	}
	duration := q.String("duration")
	if err := q.Err(); err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	if duration != nil {
		d, err := domtour.ParseDuration(*duration)
		if err != nil {
			a.handleDomainError(w, r, err)
			return
		}
		filter.Duration = &d
	}
	order, err := listing.ParseSortOrder(r.URL.Query().Get("sortOrder"))
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	filter.SortOrder = order

	res, err := a.tourSvc.List(r.Context(), filter)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}

	tours := make([]tourView, 0, len(res.Tours))
	for _, t := range res.Tours {
		tours = append(tours, mapTour(t))
	}

	applied := map[string]any{
		"page":      filter.Page.Page,
		"limit":     filter.Page.Limit,
		"sortBy":    filter.SortBy,
		"sortOrder": filter.SortOrder,
	}
	putIf(applied, "q", filter.Query)
	putIf(applied, "location", filter.Location)
	putIf(applied, "tourType", filter.TourType)
	putIf(applied, "mealType", filter.MealType)
	putIf(applied, "duration", duration)
	putIf(applied, "rating", filter.MinRating)
	putIf(applied, "minPrice", filter.MinPrice)
	putIf(applied, "maxPrice", filter.MaxPrice)
	putIf(applied, "guests", filter.Guests)
	putIf(applied, "departureDate", formatDate(filter.DepartureDate))

	respondData(w, http.StatusOK, map[string]any{
		"tours":          tours,
		"pagination":     res.Page,
		"filters":        mapTourFacets(res.Facets),
		"appliedFilters": applied,
	})
}
