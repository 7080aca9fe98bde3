package tour

import (
	"sort"
	"strings"
	"time"

	"example.com/storefront/internal/domain/listing"
)

type SortField string

const (
	SortByTitle  SortField = "title"
	SortByPrice  SortField = "price"
	SortByRating SortField = "rating"
	SortByDate   SortField = "date"
)

const (
	DefaultPageSize = 8
	MaxPageSize     = 100
)

func ParseSortField(s string) SortField {
	switch f := SortField(strings.ToLower(s)); f {
	case SortByPrice, SortByRating, SortByDate:
		return f
	default:
		return SortByTitle
	}
}

type Filter struct {
	Query         *string
	Location      *string
	TourType      *string
	MealType      *string
	Duration      *DurationRange
	MinRating     *float64
	MinPrice      *float64
	MaxPrice      *float64
	Guests        *int
	DepartureDate *time.Time
	SortBy        SortField
	SortOrder     listing.SortOrder
	Page          listing.Request
}

func (f Filter) Validate() error {
	if f.MinPrice != nil && *f.MinPrice < 0 {
		return listing.InvalidValue("minPrice", "must not be negative")
	}
	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		return listing.InvalidValue("maxPrice", "must not be negative")
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return listing.InvalidValue("minPrice", "must not exceed maxPrice")
	}
	if f.MinRating != nil && (*f.MinRating < 0 || *f.MinRating > 5) {
		return listing.InvalidValue("rating", "must be between 0 and 5")
	}
	if f.Guests != nil && *f.Guests < 1 {
		return listing.InvalidValue("guests", "must be at least 1")
	}
	if f.Page.Page < 1 {
		return listing.InvalidValue("page", "must be at least 1")
	}
	if f.Page.Limit < 1 || f.Page.Limit > MaxPageSize {
		return listing.InvalidValue("limit", "must be between 1 and 100")
	}
	return nil
}

func (f Filter) Matches(t *Tour) bool {
	if f.Query != nil {
		q := strings.ToLower(*f.Query)
		if !strings.Contains(strings.ToLower(t.Title), q) && !strings.Contains(strings.ToLower(t.Location), q) {
			return false
		}
	}
	if f.Location != nil && !strings.EqualFold(t.Location, *f.Location) {
		return false
	}
	if f.TourType != nil && t.TourType != *f.TourType {
		return false
	}
	if f.MealType != nil && t.MealType != *f.MealType {
		return false
	}
	if f.Duration != nil && !f.Duration.Contains(t.DurationDays) {
		return false
	}
	if f.MinRating != nil && t.Rating < *f.MinRating {
		return false
	}
	if f.MinPrice != nil && t.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && t.Price > *f.MaxPrice {
		return false
	}
	if f.Guests != nil && t.MaxGuests < *f.Guests {
		return false
	}
	if f.DepartureDate != nil && !t.AvailableOn(*f.DepartureDate) {
		return false
	}
	return true
}

func Sort(items []*Tour, by SortField, order listing.SortOrder) {
	cmp := func(a, b *Tour) int {
		switch by {
		case SortByPrice:
			return cmpFloat(a.Price, b.Price)
		case SortByRating:
			return cmpFloat(a.Rating, b.Rating)
		case SortByDate:
			return a.CreatedAt.Compare(b.CreatedAt)
		default:
			return strings.Compare(a.Title, b.Title)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		c := cmp(items[i], items[j])
		if order == listing.SortDesc {
			c = -c
		}
		if c == 0 {
			return items[i].ID < items[j].ID
		}
		return c < 0
	})
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
