package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"

	"example.com/storefront/internal/domain/pricing"
	domtour "example.com/storefront/internal/domain/tour"
)

var tourSortColumns = map[domtour.SortField]string{
	domtour.SortByTitle:  "t.title %s",
	domtour.SortByPrice:  "t.price %s",
	domtour.SortByRating: "t.rating %s NULLS LAST",
	domtour.SortByDate:   "t.created_at %s",
}

type tourRow struct {
	ID            int64      `db:"id"`
	Title         string     `db:"title"`
	Slug          string     `db:"slug"`
	Location      string     `db:"location"`
	Price         float64    `db:"price"`
	OriginalPrice *float64   `db:"original_price"`
	Image         string     `db:"image"`
	Rating        *float64   `db:"rating"`
	ReviewsCount  int        `db:"reviews_count"`
	DurationDays  int        `db:"duration_days"`
	TourType      string     `db:"tour_type"`
	MealType      string     `db:"meal_type"`
	MaxGuests     int        `db:"max_guests"`
	AvailableFrom *time.Time `db:"available_from"`
	AvailableTo   *time.Time `db:"available_to"`
	CreatedAt     time.Time  `db:"created_at"`
	TotalCount    int        `db:"total_count"`
}

func (r tourRow) toDomain() *domtour.Tour {
	t := &domtour.Tour{
		ID:            r.ID,
		Title:         r.Title,
		Slug:          r.Slug,
		Location:      r.Location,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		Image:         r.Image,
		ReviewsCount:  r.ReviewsCount,
		DurationDays:  r.DurationDays,
		TourType:      r.TourType,
		MealType:      r.MealType,
		MaxGuests:     r.MaxGuests,
		AvailableFrom: r.AvailableFrom,
		AvailableTo:   r.AvailableTo,
		CreatedAt:     r.CreatedAt,
	}
	if r.Rating != nil {
		t.Rating = *r.Rating
	}
	return t
}

type TourRepository struct {
	db *DB
}

func NewTourRepository(db *DB) *TourRepository {
	return &TourRepository{db: db}
}

func (r *TourRepository) List(ctx context.Context, filter domtour.Filter) ([]*domtour.Tour, int, error) {
	query, args := buildTourList(filter)

	var rows []tourRow
	if err := r.db.Select(ctx, &rows, query, args...); err != nil {
		return nil, 0, err
	}
	tours := make([]*domtour.Tour, 0, len(rows))
	for _, row := range rows {
		tours = append(tours, row.toDomain())
	}
	if len(rows) > 0 {
		return tours, rows[0].TotalCount, nil
	}
	if filter.Page.Offset() == 0 {
		return tours, 0, nil
	}

	var q Query
	q.Where(tourPredicates(filter)...)
	var total int
	if err := r.db.Get(ctx, &total, `SELECT COUNT(*) FROM tours t `+q.WhereSQL(), q.Args()...); err != nil {
		return nil, 0, err
	}
	return tours, total, nil
}

func (r *TourRepository) Facets(ctx context.Context) (domtour.Facets, error) {
	var row struct {
		Locations pq.StringArray `db:"locations"`
		TourTypes pq.StringArray `db:"tour_types"`
		MealTypes pq.StringArray `db:"meal_types"`
		MinPrice  float64        `db:"min_price"`
		MaxPrice  float64        `db:"max_price"`
	}
	err := r.db.Get(ctx, &row, `
        SELECT
            COALESCE(array_agg(DISTINCT location), '{}') AS locations,
            COALESCE(array_agg(DISTINCT tour_type), '{}') AS tour_types,
            COALESCE(array_agg(DISTINCT meal_type), '{}') AS meal_types,
            COALESCE(MIN(price), 0) AS min_price,
            COALESCE(MAX(price), 0) AS max_price
        FROM tours
        WHERE is_active = TRUE
    `)
	if err != nil {
		return domtour.Facets{}, err
	}
	return domtour.Facets{
		Locations:  nonNil(row.Locations),
		TourTypes:  nonNil(row.TourTypes),
		MealTypes:  nonNil(row.MealTypes),
		PriceRange: pricing.Range{Min: row.MinPrice, Max: row.MaxPrice},
	}, nil
}

func tourPredicates(f domtour.Filter) []Predicate {
	preds := []Predicate{Expr("t.is_active = TRUE")}
	if f.Query != nil {
		preds = append(preds, Or(Contains("t.title", *f.Query), Contains("t.location", *f.Query)))
	}
	if f.Location != nil {
		preds = append(preds, EqualFold("t.location", *f.Location))
	}
	if f.TourType != nil {
		preds = append(preds, Eq("t.tour_type", *f.TourType))
	}
	if f.MealType != nil {
		preds = append(preds, Eq("t.meal_type", *f.MealType))
	}
	if f.Duration != nil {
		preds = append(preds, Gte("t.duration_days", f.Duration.Min))
		if f.Duration.Max > 0 {
			preds = append(preds, Lte("t.duration_days", f.Duration.Max))
		}
	}
	if f.MinRating != nil {
		preds = append(preds, Gte("t.rating", *f.MinRating))
	}
	if f.MinPrice != nil {
		preds = append(preds, Gte("t.price", *f.MinPrice))
	}
	if f.MaxPrice != nil {
		preds = append(preds, Lte("t.price", *f.MaxPrice))
	}
	if f.Guests != nil {
		preds = append(preds, Gte("t.max_guests", *f.Guests))
	}
	if f.DepartureDate != nil {
		day := f.DepartureDate.Format(time.DateOnly)
		preds = append(preds,
			Expr("(t.available_from IS NULL OR t.available_from <= ?::text::date)", day),
			Expr("(t.available_to IS NULL OR t.available_to >= ?::text::date)", day),
		)
	}
	return preds
}

func buildTourList(f domtour.Filter) (string, []any) {
	var q Query
	q.Where(tourPredicates(f)...)
	where := q.WhereSQL()
	limit := q.Bind(f.Page.Limit)
	offset := q.Bind(f.Page.Offset())

	format, ok := tourSortColumns[f.SortBy]
	if !ok {
		format = tourSortColumns[domtour.SortByTitle]
	}
	return fmt.Sprintf(`
        SELECT
            t.id, t.title, t.slug, t.location, t.price, t.original_price, t.image, t.rating,
            t.reviews_count, t.duration_days, t.tour_type, t.meal_type, t.max_guests,
            t.available_from, t.available_to, t.created_at,
            COUNT(*) OVER() AS total_count
        FROM tours t
        %s
        ORDER BY %s, t.id ASC
        LIMIT %s OFFSET %s
    `, where, fmt.Sprintf(format, f.SortOrder.SQL()), limit, offset), q.Args()
}
