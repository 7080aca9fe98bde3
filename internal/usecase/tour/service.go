package tour

import (
	"context"

	"golang.org/x/sync/errgroup"

	"example.com/storefront/internal/domain/listing"
	dom "example.com/storefront/internal/domain/tour"
)

type Service struct {
	repo dom.Repository
}

func NewService(repo dom.Repository) *Service {
	return &Service{repo: repo}
}

type ListResult struct {
	Tours  []*dom.Tour
	Page   listing.Page
	Facets dom.Facets
}

func (s *Service) List(ctx context.Context, filter dom.Filter) (*ListResult, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	var (
		tours  []*dom.Tour
		total  int
		facets dom.Facets
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tours, total, err = s.repo.List(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		facets, err = s.repo.Facets(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ListResult{
		Tours:  tours,
		Page:   listing.NewPage(filter.Page, total),
		Facets: facets,
	}, nil
}
