package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	domstore "example.com/storefront/internal/domain/store"
)

const storeColumns = `
        s.id, s.name, s.address, s.city, s.phone, s.email, s.latitude, s.longitude,
        s.working_hours, s.services, s.has_parking, s.is_24h, s.is_active`

type storeRow struct {
	ID           int64          `db:"id"`
	Name         string         `db:"name"`
	Address      string         `db:"address"`
	City         string         `db:"city"`
	Phone        *string        `db:"phone"`
	Email        *string        `db:"email"`
	Latitude     *float64       `db:"latitude"`
	Longitude    *float64       `db:"longitude"`
	WorkingHours []byte         `db:"working_hours"`
	Services     pq.StringArray `db:"services"`
	HasParking   bool           `db:"has_parking"`
	Is24h        bool           `db:"is_24h"`
	IsActive     bool           `db:"is_active"`
}

func (r storeRow) toDomain() *domstore.Store {
	return &domstore.Store{
		ID:           r.ID,
		Name:         r.Name,
		Address:      r.Address,
		City:         r.City,
		Phone:        r.Phone,
		Email:        r.Email,
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		WorkingHours: r.WorkingHours,
		Services:     nonNil(r.Services),
		HasParking:   r.HasParking,
		Is24h:        r.Is24h,
		IsActive:     r.IsActive,
	}
}

type StoreRepository struct {
	db *DB
}

func NewStoreRepository(db *DB) *StoreRepository {
	return &StoreRepository{db: db}
}

func (r *StoreRepository) Find(ctx context.Context, filter domstore.Filter) ([]*domstore.Store, error) {
	query, args := buildStoreFind(filter)

	var rows []storeRow
	if err := r.db.Select(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	stores := make([]*domstore.Store, 0, len(rows))
	for _, row := range rows {
		stores = append(stores, row.toDomain())
	}
	return stores, nil
}

func (r *StoreRepository) GetActiveByID(ctx context.Context, id int64) (*domstore.Store, error) {
	var row storeRow
	err := r.db.Get(ctx, &row, `SELECT `+storeColumns+` FROM stores s WHERE s.id = $1 AND s.is_active = TRUE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domstore.ErrStoreNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *StoreRepository) Facets(ctx context.Context) (domstore.Facets, error) {
	var row struct {
		Cities   pq.StringArray `db:"cities"`
		Services pq.StringArray `db:"services"`
	}
	err := r.db.Get(ctx, &row, `
        SELECT
            COALESCE((SELECT array_agg(DISTINCT city) FROM stores WHERE is_active = TRUE), '{}') AS cities,
            COALESCE((SELECT array_agg(DISTINCT svc)
                      FROM stores, unnest(services) AS svc
                      WHERE is_active = TRUE), '{}') AS services
    `)
	if err != nil {
		return domstore.Facets{}, err
	}
	return domstore.Facets{Cities: nonNil(row.Cities), Services: nonNil(row.Services)}, nil
}

// buildStoreFind renders the attribute predicates only; distance filtering
// and ordering happen after the rows are loaded.
func buildStoreFind(f domstore.Filter) (string, []any) {
	var q Query
	q.Where(Expr("s.is_active = TRUE"))
	if f.City != nil {
		q.Where(EqualFold("s.city", *f.City))
	}
	if f.Service != nil {
		q.Where(InArray("s.services", *f.Service))
	}
	if f.Is24h != nil {
		q.Where(Eq("s.is_24h", *f.Is24h))
	}
	if f.HasParking != nil {
		q.Where(Eq("s.has_parking", *f.HasParking))
	}
	if f.Near != nil {
		q.Where(Expr("s.latitude IS NOT NULL AND s.longitude IS NOT NULL"))
	}
	return fmt.Sprintf(`
        SELECT %s
        FROM stores s
        %s
        ORDER BY s.name ASC, s.id ASC
    `, storeColumns, q.WhereSQL()), q.Args()
}
