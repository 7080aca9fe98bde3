package category

import "context"

type Repository interface {
	GetBySlug(ctx context.Context, slug string) (*Category, error)
	List(ctx context.Context, filter ListFilter) ([]*Category, error)
}
