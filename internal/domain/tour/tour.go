package tour

import (
	"time"

	"example.com/storefront/internal/domain/pricing"
)

type Tour struct {
	ID            int64
	Title         string
	Slug          string
	Location      string
	Price         float64
	OriginalPrice *float64
	Image         string
	Rating        float64
	ReviewsCount  int
	DurationDays  int
	TourType      string
	MealType      string
	MaxGuests     int
	AvailableFrom *time.Time
	AvailableTo   *time.Time
	CreatedAt     time.Time
}

func (t *Tour) IsDiscounted() bool {
	_, ok := pricing.Discount(t.Price, t.OriginalPrice)
	return ok
}

func (t *Tour) DiscountPercent() int {
	pct, _ := pricing.Discount(t.Price, t.OriginalPrice)
	return pct
}

// AvailableOn reports whether day falls inside the departure window. Missing
// bounds are open.
func (t *Tour) AvailableOn(day time.Time) bool {
	if t.AvailableFrom != nil && day.Before(*t.AvailableFrom) {
		return false
	}
	if t.AvailableTo != nil && day.After(*t.AvailableTo) {
		return false
	}
	return true
}

type Facets struct {
	Locations  []string
	TourTypes  []string
	MealTypes  []string
	PriceRange pricing.Range
}
