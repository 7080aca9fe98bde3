package store

import "context"

type Repository interface {
	// Find returns the active stores matching every non-geographic predicate
	// of filter, ordered by name.
	Find(ctx context.Context, filter Filter) ([]*Store, error)
	GetActiveByID(ctx context.Context, id int64) (*Store, error)
	Facets(ctx context.Context) (Facets, error)
}
