package http

import (
	"encoding/json"
	"time"

	domappointment "example.com/storefront/internal/domain/appointment"
	domproduct "example.com/storefront/internal/domain/product"
	"example.com/storefront/internal/domain/pricing"
	domtour "example.com/storefront/internal/domain/tour"
	categoryuc "example.com/storefront/internal/usecase/category"
	storeuc "example.com/storefront/internal/usecase/store"
)

type categoryRefView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type productView struct {
	ID                   int64           `json:"id"`
	Name                 string          `json:"name"`
	Slug                 string          `json:"slug"`
	Description          *string         `json:"description,omitempty"`
	Price                float64         `json:"price"`
	OldPrice             *float64        `json:"oldPrice,omitempty"`
	Category             categoryRefView `json:"category"`
	Brand                *string         `json:"brand,omitempty"`
	Form                 *string         `json:"form,omitempty"`
	PrescriptionRequired bool            `json:"prescriptionRequired"`
	InStock              bool            `json:"inStock"`
	Images               []string        `json:"images"`
	Rating               float64         `json:"rating"`
	ReviewsCount         int             `json:"reviewsCount"`
	IsDiscounted         bool            `json:"isDiscounted"`
	DiscountPercent      *int            `json:"discountPercent,omitempty"`
}

func mapProduct(p *domproduct.Product) productView {
	v := productView{
		ID:                   p.ID,
		Name:                 p.Name,
		Slug:                 p.Slug,
		Description:          p.Description,
		Price:                p.Price,
		OldPrice:             p.OldPrice,
		Category:             categoryRefView{ID: p.Category.ID, Name: p.Category.Name, Slug: p.Category.Slug},
		Brand:                p.Brand,
		Form:                 p.Form,
		PrescriptionRequired: p.PrescriptionRequired,
		InStock:              p.InStock,
		Images:               p.Images,
		Rating:               p.Rating,
		ReviewsCount:         p.ReviewsCount,
	}
	if v.Images == nil {
		v.Images = []string{}
	}
	if pct, ok := p.DiscountPercent(); ok {
		v.IsDiscounted = true
		v.DiscountPercent = &pct
	}
	return v
}

func mapProducts(items []*domproduct.Product) []productView {
	out := make([]productView, 0, len(items))
	for _, p := range items {
		out = append(out, mapProduct(p))
	}
	return out
}

type productFacetsView struct {
	Brands     []string      `json:"brands"`
	Forms      []string      `json:"forms"`
	PriceRange pricing.Range `json:"priceRange"`
}

func mapProductFacets(f domproduct.Facets) productFacetsView {
	return productFacetsView{Brands: orEmpty(f.Brands), Forms: orEmpty(f.Forms), PriceRange: f.PriceRange}
}

type coordinatesView struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type storeView struct {
	ID           int64            `json:"id"`
	Name         string           `json:"name"`
	Address      string           `json:"address"`
	City         string           `json:"city"`
	Phone        *string          `json:"phone,omitempty"`
	Email        *string          `json:"email,omitempty"`
	Coordinates  *coordinatesView `json:"coordinates,omitempty"`
	WorkingHours json.RawMessage  `json:"workingHours"`
	Services     []string         `json:"services"`
	HasParking   bool             `json:"hasParking"`
	Is24h        bool             `json:"is24h"`
	IsActive     bool             `json:"isActive"`
	Distance     *float64         `json:"distance,omitempty"`
}

var emptyObject = json.RawMessage(`{}`)

func mapStore(l storeuc.Located) storeView {
	s := l.Store
	v := storeView{
		ID:           s.ID,
		Name:         s.Name,
		Address:      s.Address,
		City:         s.City,
		Phone:        s.Phone,
		Email:        s.Email,
		WorkingHours: s.WorkingHours,
		Services:     orEmpty(s.Services),
		HasParking:   s.HasParking,
		Is24h:        s.Is24h,
		IsActive:     s.IsActive,
		Distance:     l.DistanceKm,
	}
	if pos, ok := s.Position(); ok {
		v.Coordinates = &coordinatesView{Lat: pos.Lat, Lng: pos.Lng}
	}
	if len(v.WorkingHours) == 0 || !json.Valid(v.WorkingHours) {
		v.WorkingHours = emptyObject
	}
	return v
}

type tourView struct {
	ID              int64    `json:"id"`
	Title           string   `json:"title"`
	Slug            string   `json:"slug"`
	Location        string   `json:"location"`
	Price           float64  `json:"price"`
	OriginalPrice   *float64 `json:"originalPrice,omitempty"`
	Image           string   `json:"image"`
	DurationDays    int      `json:"durationDays"`
	TourType        string   `json:"type"`
	Rating          float64  `json:"rating"`
	ReviewsCount    int      `json:"reviews"`
	MealType        string   `json:"mealType"`
	MaxGuests       int      `json:"maxGuests"`
	AvailableFrom   *string  `json:"availableFrom,omitempty"`
	AvailableTo     *string  `json:"availableTo,omitempty"`
	IsDiscounted    bool     `json:"isDiscounted"`
	DiscountPercent *int     `json:"discountPercent,omitempty"`
}

func mapTour(t *domtour.Tour) tourView {
	v := tourView{
		ID:            t.ID,
		Title:         t.Title,
		Slug:          t.Slug,
		Location:      t.Location,
		Price:         t.Price,
		OriginalPrice: t.OriginalPrice,
		Image:         t.Image,
		DurationDays:  t.DurationDays,
		TourType:      t.TourType,
		Rating:        t.Rating,
		ReviewsCount:  t.ReviewsCount,
		MealType:      t.MealType,
		MaxGuests:     t.MaxGuests,
		AvailableFrom: formatDate(t.AvailableFrom),
		AvailableTo:   formatDate(t.AvailableTo),
	}
	if t.IsDiscounted() {
		pct := t.DiscountPercent()
		v.IsDiscounted = true
		v.DiscountPercent = &pct
	}
	return v
}

type tourFacetsView struct {
	Locations  []string      `json:"locations"`
	TourTypes  []string      `json:"tourTypes"`
	MealTypes  []string      `json:"mealTypes"`
	PriceRange pricing.Range `json:"priceRange"`
}

func mapTourFacets(f domtour.Facets) tourFacetsView {
	return tourFacetsView{
		Locations:  orEmpty(f.Locations),
		TourTypes:  orEmpty(f.TourTypes),
		MealTypes:  orEmpty(f.MealTypes),
		PriceRange: f.PriceRange,
	}
}

type appointmentView struct {
	ID            int64     `json:"id"`
	CustomerName  string    `json:"customerName"`
	CustomerPhone string    `json:"customerPhone"`
	CustomerEmail *string   `json:"customerEmail,omitempty"`
	StoreID       int64     `json:"storeId"`
	StoreName     string    `json:"storeName"`
	StoreAddress  string    `json:"storeAddress"`
	ServiceType   string    `json:"serviceType"`
	Date          string    `json:"date"`
	TimeSlot      string    `json:"timeSlot"`
	Status        string    `json:"status"`
	Notes         *string   `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

func mapAppointment(a *domappointment.Appointment) appointmentView {
	return appointmentView{
		ID:            a.ID,
		CustomerName:  a.CustomerName,
		CustomerPhone: a.CustomerPhone,
		CustomerEmail: a.CustomerEmail,
		StoreID:       a.StoreID,
		StoreName:     a.StoreName,
		StoreAddress:  a.StoreAddress,
		ServiceType:   a.ServiceType,
		Date:          a.Date,
		TimeSlot:      a.TimeSlot,
		Status:        string(a.Status),
		Notes:         a.Notes,
		CreatedAt:     a.CreatedAt,
	}
}

type categoryView struct {
	ID       int64          `json:"id"`
	Name     string         `json:"name"`
	Slug     string         `json:"slug"`
	ParentID *int64         `json:"parentId,omitempty"`
	Children []categoryView `json:"children"`
}

func mapCategoryTree(nodes []*categoryuc.Node) []categoryView {
	out := make([]categoryView, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, categoryView{
			ID:       n.ID,
			Name:     n.Name,
			Slug:     n.Slug,
			ParentID: n.ParentID,
			Children: mapCategoryTree(n.Children),
		})
	}
	return out
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}
