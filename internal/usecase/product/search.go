package product

import (
	"context"
	"errors"

	"go.uber.org/zap"

	domcategory "example.com/storefront/internal/domain/category"
	dom "example.com/storefront/internal/domain/product"
)

type RankMode int

const (
	RankModeIndexed RankMode = iota
	RankModeFallback
)

func (m RankMode) String() string {
	if m == RankModeFallback {
		return "fallback"
	}
	return "indexed"
}

type SearchResult struct {
	Products    []*dom.Product
	Suggestions []string
	Total       int
	Mode        RankMode
}

// Search ranks products with the full-text index. If the database cannot
// answer, the built-in catalog is matched by substring instead and the
// result is marked RankModeFallback. Cancellation by the caller and unknown
// categories are returned as errors.
func (s *Service) Search(ctx context.Context, q dom.SearchQuery) (*SearchResult, error) {
	res, err := s.searchIndexed(ctx, q)
	if err == nil {
		return res, nil
	}
	if errors.Is(err, domcategory.ErrCategoryNotFound) || ctx.Err() != nil || s.fallback == nil {
		return nil, err
	}

	s.logger.Warn("indexed search failed, serving fallback catalog",
		zap.String("query", q.Text),
		zap.Error(err),
	)
	products := s.fallback.Search(q)
	return &SearchResult{
		Products:    products,
		Suggestions: s.fallback.Suggest(q.Text, dom.SuggestionLimit),
		Total:       len(products),
		Mode:        RankModeFallback,
	}, nil
}

func (s *Service) searchIndexed(ctx context.Context, q dom.SearchQuery) (*SearchResult, error) {
	if q.CategorySlug != nil {
		if _, err := s.categories.GetBySlug(ctx, *q.CategorySlug); err != nil {
			return nil, err
		}
	}

	products, err := s.repo.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	suggestions, err := s.repo.Suggest(ctx, q.Text, dom.SuggestionLimit)
	if err != nil {
		return nil, err
	}
	return &SearchResult{
		Products:    products,
		Suggestions: suggestions,
		Total:       len(products),
		Mode:        RankModeIndexed,
	}, nil
}
