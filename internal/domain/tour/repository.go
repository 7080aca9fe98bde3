package tour

import "context"

type Repository interface {
	List(ctx context.Context, filter Filter) ([]*Tour, int, error)
	Facets(ctx context.Context) (Facets, error)
}
