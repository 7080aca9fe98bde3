package product

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	domcategory "example.com/storefront/internal/domain/category"
	"example.com/storefront/internal/domain/listing"
	dom "example.com/storefront/internal/domain/product"
)

type FacetsCache interface {
	GetProductFacets(ctx context.Context) (dom.Facets, bool, error)
	SetProductFacets(ctx context.Context, f dom.Facets) error
}

type FallbackCatalog interface {
	Search(q dom.SearchQuery) []*dom.Product
	Suggest(text string, limit int) []string
}

type Service struct {
	repo       dom.Repository
	categories domcategory.Repository
	fallback   FallbackCatalog
	cache      FacetsCache
	logger     *zap.Logger
}

type Dependencies struct {
	Repository dom.Repository
	Categories domcategory.Repository
	Fallback   FallbackCatalog
	Cache      FacetsCache
	Logger     *zap.Logger
}

func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:       deps.Repository,
		categories: deps.Categories,
		fallback:   deps.Fallback,
		cache:      deps.Cache,
		logger:     logger,
	}
}

type ListResult struct {
	Products []*dom.Product
	Page     listing.Page
	Facets   dom.Facets
}

// List returns one page of the filtered catalog together with the facets of
// the whole active catalog. Both queries run concurrently.
func (s *Service) List(ctx context.Context, filter dom.Filter) (*ListResult, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if filter.CategorySlug != nil {
		if _, err := s.categories.GetBySlug(ctx, *filter.CategorySlug); err != nil {
			return nil, err
		}
	}

	var (
		products []*dom.Product
		total    int
		facets   dom.Facets
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, total, err = s.repo.List(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		facets, err = s.facets(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ListResult{
		Products: products,
		Page:     listing.NewPage(filter.Page, total),
		Facets:   facets,
	}, nil
}

func (s *Service) facets(ctx context.Context) (dom.Facets, error) {
	if s.cache != nil {
		f, ok, err := s.cache.GetProductFacets(ctx)
		if err != nil {
			s.logger.Warn("facets cache read failed", zap.Error(err))
		}
		if ok {
			return f, nil
		}
	}

	f, err := s.repo.Facets(ctx)
	if err != nil {
		return dom.Facets{}, err
	}
	if s.cache != nil {
		if err := s.cache.SetProductFacets(ctx, f); err != nil {
			s.logger.Warn("facets cache write failed", zap.Error(err))
		}
	}
	return f, nil
}
