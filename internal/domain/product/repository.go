package product

import "context"

type Repository interface {
	List(ctx context.Context, filter Filter) ([]*Product, int, error)
	Facets(ctx context.Context) (Facets, error)
	Search(ctx context.Context, q SearchQuery) ([]*Product, error)
	Suggest(ctx context.Context, text string, limit int) ([]string, error)
}
