package product

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	domcategory "example.com/storefront/internal/domain/category"
	dom "example.com/storefront/internal/domain/product"
)

func TestSearchIndexed(t *testing.T) {
	svc := newTestService(&mockProductRepository{products: catalog()}, nil)

	q, err := dom.NewSearchQuery("омега", nil, 0)
	require.NoError(t, err)
	res, err := svc.Search(context.Background(), q)
	require.NoError(t, err)
	require.Equal(t, RankModeIndexed, res.Mode)
	require.Equal(t, 1, res.Total)
	require.Equal(t, []string{"Омега-3"}, res.Suggestions)
}

func TestSearchWithoutMatches(t *testing.T) {
	svc := newTestService(&mockProductRepository{products: catalog()}, nil)

	res, err := svc.Search(context.Background(), dom.SearchQuery{Text: "zzz", Limit: 10})
	require.NoError(t, err)
	require.Empty(t, res.Products)
	require.Empty(t, res.Suggestions)
	require.Zero(t, res.Total)
}

func TestSearchFallsBackOnStorageError(t *testing.T) {
	repo := &mockProductRepository{products: catalog(), searchErr: errors.New("relation does not exist")}
	svc := newTestService(repo, nil)

	res, err := svc.Search(context.Background(), dom.SearchQuery{Text: "парацетамол", Limit: 10})
	require.NoError(t, err)
	require.Equal(t, RankModeFallback, res.Mode)
	require.Equal(t, "fallback", res.Mode.String())
	require.Len(t, res.Products, 1)
}

func TestSearchFallsBackWhenCategoryLookupFails(t *testing.T) {
	svc := NewService(Dependencies{
		Repository: &mockProductRepository{products: catalog()},
		Categories: &mockCategoryRepository{err: errors.New("timeout")},
		Fallback:   &mockFallback{products: catalog()},
	})

	res, err := svc.Search(context.Background(), dom.SearchQuery{Text: "витамин", CategorySlug: strPtr("vitamins"), Limit: 10})
	require.NoError(t, err)
	require.Equal(t, RankModeFallback, res.Mode)
}

func TestSearchUnknownCategoryIsNotFound(t *testing.T) {
	svc := newTestService(&mockProductRepository{products: catalog()}, nil)

	_, err := svc.Search(context.Background(), dom.SearchQuery{Text: "витамин", CategorySlug: strPtr("nope"), Limit: 10})
	require.ErrorIs(t, err, domcategory.ErrCategoryNotFound)
}

func TestSearchDoesNotFallBackOnCancellation(t *testing.T) {
	repo := &mockProductRepository{products: catalog(), searchErr: context.Canceled}
	svc := newTestService(repo, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Search(ctx, dom.SearchQuery{Text: "парацетамол", Limit: 10})
	require.ErrorIs(t, err, context.Canceled)
}
