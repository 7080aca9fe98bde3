package product

import (
	"time"

	"example.com/storefront/internal/domain/pricing"
)

type CategoryRef struct {
	ID   int64
	Name string
	Slug string
}

type Product struct {
	ID                   int64
	Name                 string
	Slug                 string
	Description          *string
	Price                float64
	OldPrice             *float64
	Category             CategoryRef
	Brand                *string
	Form                 *string
	PrescriptionRequired bool
	InStock              bool
	Images               []string
	Rating               float64
	ReviewsCount         int
	CreatedAt            time.Time
}

func (p *Product) IsDiscounted() bool {
	_, ok := pricing.Discount(p.Price, p.OldPrice)
	return ok
}

func (p *Product) DiscountPercent() (int, bool) {
	return pricing.Discount(p.Price, p.OldPrice)
}

// Facets are the sidebar refinement options computed over the whole active
// catalog, independent of the filters applied to the listing.
type Facets struct {
	Brands     []string
	Forms      []string
	PriceRange pricing.Range
}
