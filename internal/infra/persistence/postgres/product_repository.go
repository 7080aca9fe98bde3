package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"

	domproduct "example.com/storefront/internal/domain/product"
	"example.com/storefront/internal/domain/pricing"
)

const productColumns = `
        p.id, p.name, p.slug, p.description, p.price, p.old_price, p.brand, p.form,
        p.prescription_required, p.in_stock, p.images, p.rating, p.reviews_count, p.created_at,
        c.id AS category_id, c.name AS category_name, c.slug AS category_slug`

var productSortColumns = map[domproduct.SortField]string{
	domproduct.SortByName:   "p.name %s",
	domproduct.SortByPrice:  "p.price %s",
	domproduct.SortByRating: "p.rating %s NULLS LAST",
	domproduct.SortByDate:   "p.created_at %s",
}

type productRow struct {
	ID                   int64          `db:"id"`
	Name                 string         `db:"name"`
	Slug                 string         `db:"slug"`
	Description          *string        `db:"description"`
	Price                float64        `db:"price"`
	OldPrice             *float64       `db:"old_price"`
	Brand                *string        `db:"brand"`
	Form                 *string        `db:"form"`
	PrescriptionRequired bool           `db:"prescription_required"`
	InStock              bool           `db:"in_stock"`
	Images               pq.StringArray `db:"images"`
	Rating               *float64       `db:"rating"`
	ReviewsCount         int            `db:"reviews_count"`
	CreatedAt            time.Time      `db:"created_at"`
	CategoryID           *int64         `db:"category_id"`
	CategoryName         *string        `db:"category_name"`
	CategorySlug         *string        `db:"category_slug"`
	TotalCount           int            `db:"total_count"`
	Rank                 float64        `db:"rank"`
}

func (r productRow) toDomain() *domproduct.Product {
	p := &domproduct.Product{
		ID:                   r.ID,
		Name:                 r.Name,
		Slug:                 r.Slug,
		Description:          r.Description,
		Price:                r.Price,
		OldPrice:             r.OldPrice,
		Brand:                r.Brand,
		Form:                 r.Form,
		PrescriptionRequired: r.PrescriptionRequired,
		InStock:              r.InStock,
		Images:               []string(r.Images),
		ReviewsCount:         r.ReviewsCount,
		CreatedAt:            r.CreatedAt,
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if r.Rating != nil {
		p.Rating = *r.Rating
	}
	if r.CategoryID != nil {
		p.Category.ID = *r.CategoryID
	}
	if r.CategoryName != nil {
		p.Category.Name = *r.CategoryName
	}
	if r.CategorySlug != nil {
		p.Category.Slug = *r.CategorySlug
	}
	return p
}

type ProductRepository struct {
	db *DB
}

func NewProductRepository(db *DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) List(ctx context.Context, filter domproduct.Filter) ([]*domproduct.Product, int, error) {
	listSQL, args := buildProductList(filter)

	var rows []productRow
	if err := r.db.Select(ctx, &rows, listSQL, args...); err != nil {
		return nil, 0, err
	}

	products := make([]*domproduct.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toDomain())
	}
	if len(rows) > 0 {
		return products, rows[0].TotalCount, nil
	}
	if filter.Page.Offset() == 0 {
		return products, 0, nil
	}

	// Past the last page the window count has no row to ride on.
	countSQL, countArgs := buildProductCount(filter)
	var total int
	if err := r.db.Get(ctx, &total, countSQL, countArgs...); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *ProductRepository) Facets(ctx context.Context) (domproduct.Facets, error) {
	var row struct {
		Brands   pq.StringArray `db:"brands"`
		Forms    pq.StringArray `db:"forms"`
		MinPrice float64        `db:"min_price"`
		MaxPrice float64        `db:"max_price"`
	}
	err := r.db.Get(ctx, &row, `
        SELECT
            COALESCE(array_agg(DISTINCT brand) FILTER (WHERE brand IS NOT NULL), '{}') AS brands,
            COALESCE(array_agg(DISTINCT form) FILTER (WHERE form IS NOT NULL), '{}') AS forms,
            COALESCE(MIN(price), 0) AS min_price,
            COALESCE(MAX(price), 0) AS max_price
        FROM products
        WHERE is_active = TRUE
    `)
	if err != nil {
		return domproduct.Facets{}, err
	}
	return domproduct.Facets{
		Brands:     nonNil(row.Brands),
		Forms:      nonNil(row.Forms),
		PriceRange: pricing.Range{Min: row.MinPrice, Max: row.MaxPrice},
	}, nil
}

func (r *ProductRepository) Search(ctx context.Context, q domproduct.SearchQuery) ([]*domproduct.Product, error) {
	query, args := buildProductSearch(q)

	var rows []productRow
	if err := r.db.Select(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	products := make([]*domproduct.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toDomain())
	}
	return products, nil
}

func (r *ProductRepository) Suggest(ctx context.Context, text string, limit int) ([]string, error) {
	var q Query
	q.Where(Expr("is_active = TRUE"), Contains("name", text))
	query := fmt.Sprintf(`
        SELECT DISTINCT name
        FROM products
        %s
        ORDER BY name ASC
        LIMIT %s
    `, q.WhereSQL(), q.Bind(limit))

	var names []string
	if err := r.db.Select(ctx, &names, query, q.Args()...); err != nil {
		return nil, err
	}
	return nonNil(names), nil
}

func productPredicates(f domproduct.Filter) []Predicate {
	preds := []Predicate{Expr("p.is_active = TRUE")}
	if f.CategorySlug != nil {
		preds = append(preds, Eq("c.slug", *f.CategorySlug))
	}
	if f.Brand != nil {
		preds = append(preds, Eq("p.brand", *f.Brand))
	}
	if f.Form != nil {
		preds = append(preds, Eq("p.form", *f.Form))
	}
	if f.MinPrice != nil {
		preds = append(preds, Gte("p.price", *f.MinPrice))
	}
	if f.MaxPrice != nil {
		preds = append(preds, Lte("p.price", *f.MaxPrice))
	}
	if f.InStock != nil {
		preds = append(preds, Eq("p.in_stock", *f.InStock))
	}
	if f.PrescriptionRequired != nil {
		preds = append(preds, Eq("p.prescription_required", *f.PrescriptionRequired))
	}
	if f.IsDiscounted != nil {
		if *f.IsDiscounted {
			preds = append(preds, Expr("(p.old_price IS NOT NULL AND p.old_price > p.price)"))
		} else {
			preds = append(preds, Expr("(p.old_price IS NULL OR p.old_price <= p.price)"))
		}
	}
	if f.MinRating != nil {
		preds = append(preds, Gte("p.rating", *f.MinRating))
	}
	return preds
}

func productOrderBy(by domproduct.SortField, order string) string {
	format, ok := productSortColumns[by]
	if !ok {
		format = productSortColumns[domproduct.SortByName]
	}
	return fmt.Sprintf(format, order) + ", p.id ASC"
}

func buildProductList(f domproduct.Filter) (string, []any) {
	var q Query
	q.Where(productPredicates(f)...)
	where := q.WhereSQL()
	limit := q.Bind(f.Page.Limit)
	offset := q.Bind(f.Page.Offset())

	return fmt.Sprintf(`
        SELECT %s, COUNT(*) OVER() AS total_count
        FROM products p
        LEFT JOIN categories c ON c.id = p.category_id
        %s
        ORDER BY %s
        LIMIT %s OFFSET %s
    `, productColumns, where, productOrderBy(f.SortBy, f.SortOrder.SQL()), limit, offset), q.Args()
}

func buildProductCount(f domproduct.Filter) (string, []any) {
	var q Query
	q.Where(productPredicates(f)...)
	return fmt.Sprintf(`
        SELECT COUNT(*)
        FROM products p
        LEFT JOIN categories c ON c.id = p.category_id
        %s
    `, q.WhereSQL()), q.Args()
}

func buildProductSearch(s domproduct.SearchQuery) (string, []any) {
	var q Query
	tsQuery := "plainto_tsquery('russian', " + q.Bind(s.Text) + ")"

	q.Where(
		Expr("p.is_active = TRUE"),
		Or(
			Expr("p.search_vector @@ plainto_tsquery('russian', ?)", s.Text),
			Contains("p.name", s.Text),
			Contains("p.brand", s.Text),
			Contains("p.description", s.Text),
		),
	)
	if s.CategorySlug != nil {
		q.Where(Eq("c.slug", *s.CategorySlug))
	}
	where := q.WhereSQL()
	limit := q.Bind(s.Limit)

	return fmt.Sprintf(`
        SELECT %s, ts_rank(p.search_vector, %s) AS rank
        FROM products p
        LEFT JOIN categories c ON c.id = p.category_id
        %s
        ORDER BY rank DESC, p.name ASC, p.id ASC
        LIMIT %s
    `, productColumns, tsQuery, where, limit), q.Args()
}

func nonNil[S ~[]string](s S) []string {
	if s == nil {
		return []string{}
	}
	return []string(s)
}
