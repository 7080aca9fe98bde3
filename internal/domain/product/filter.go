package product

import (
	"sort"
	"strings"

	"example.com/storefront/internal/domain/listing"
)

type SortField string

const (
	SortByName   SortField = "name"
	SortByPrice  SortField = "price"
	SortByRating SortField = "rating"
	SortByDate   SortField = "date"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// ParseSortField maps a requested sort key; anything unrecognised sorts by name.
func ParseSortField(s string) SortField {
	switch f := SortField(strings.ToLower(s)); f {
	case SortByPrice, SortByRating, SortByDate:
		return f
	default:
		return SortByName
	}
}

// Filter is a catalog listing request. Nil fields apply no constraint; a
// non-nil false is a constraint of its own.
type Filter struct {
	CategorySlug         *string
	Brand                *string
	Form                 *string
	MinPrice             *float64
	MaxPrice             *float64
	InStock              *bool
	PrescriptionRequired *bool
	IsDiscounted         *bool
	MinRating            *float64
	SortBy               SortField
	SortOrder            listing.SortOrder
	Page                 listing.Request
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
	if f.Page.Page < 1 {
		return listing.InvalidValue("page", "must be at least 1")
	}
	if f.Page.Limit < 1 || f.Page.Limit > MaxPageSize {
		return listing.InvalidValue("limit", "must be between 1 and 100")
	}
	return nil
}

// Matches reports whether p satisfies every predicate present in f.
func (f Filter) Matches(p *Product) bool {
	if f.CategorySlug != nil && p.Category.Slug != *f.CategorySlug {
		return false
	}
	if f.Brand != nil && (p.Brand == nil || *p.Brand != *f.Brand) {
		return false
	}
	if f.Form != nil && (p.Form == nil || *p.Form != *f.Form) {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.InStock != nil && p.InStock != *f.InStock {
		return false
	}
	if f.PrescriptionRequired != nil && p.PrescriptionRequired != *f.PrescriptionRequired {
		return false
	}
	if f.IsDiscounted != nil && p.IsDiscounted() != *f.IsDiscounted {
		return false
	}
	if f.MinRating != nil && p.Rating < *f.MinRating {
		return false
	}
	return true
}

// Sort orders items the same way the SQL listing does, id breaking ties.
func Sort(items []*Product, by SortField, order listing.SortOrder) {
	less := func(a, b *Product) int {
		switch by {
		case SortByPrice:
			return cmpFloat(a.Price, b.Price)
		case SortByRating:
			return cmpFloat(a.Rating, b.Rating)
		case SortByDate:
			return a.CreatedAt.Compare(b.CreatedAt)
		default:
			return strings.Compare(a.Name, b.Name)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		c := less(items[i], items[j])
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
