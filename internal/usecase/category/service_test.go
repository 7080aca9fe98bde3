package category

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	dom "example.com/storefront/internal/domain/category"
)

type mockCategoryRepository struct {
	categories []*dom.Category
	listErr    error
}

func (m *mockCategoryRepository) GetBySlug(ctx context.Context, slug string) (*dom.Category, error) {
	for _, c := range m.categories {
		if c.Slug == slug && c.IsActive {
			cloned := *c
			return &cloned, nil
		}
	}
	return nil, dom.ErrCategoryNotFound
}

func (m *mockCategoryRepository) List(ctx context.Context, filter dom.ListFilter) ([]*dom.Category, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*dom.Category
	for _, c := range m.categories {
		if filter.OnlyActive && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func int64Ptr(v int64) *int64 { return &v }

func TestTreeNestsChildren(t *testing.T) {
	repo := &mockCategoryRepository{categories: []*dom.Category{
		{ID: 1, Name: "Лекарственные препараты", Slug: "medicines", IsActive: true},
		{ID: 2, Name: "Обезболивающие", Slug: "painkillers", ParentID: int64Ptr(1), IsActive: true},
		{ID: 3, Name: "Витамины и БАДы", Slug: "vitamins", IsActive: true},
		{ID: 4, Name: "Архив", Slug: "archive", IsActive: false},
		{ID: 5, Name: "Сироты", Slug: "orphans", ParentID: int64Ptr(4), IsActive: true},
	}}
	svc := NewService(repo)

	tree, err := svc.Tree(context.Background())
	require.NoError(t, err)
	require.Len(t, tree, 3)
	require.Equal(t, "medicines", tree[0].Slug)
	require.Len(t, tree[0].Children, 1)
	require.Equal(t, "painkillers", tree[0].Children[0].Slug)
	require.Equal(t, "orphans", tree[2].Slug)
}

func TestTreePropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewService(&mockCategoryRepository{listErr: boom}).Tree(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestGetBySlug(t *testing.T) {
	svc := NewService(&mockCategoryRepository{categories: []*dom.Category{
		{ID: 1, Slug: "medicines", IsActive: true},
		{ID: 2, Slug: "archive", IsActive: false},
	}})

	c, err := svc.GetBySlug(context.Background(), "medicines")
	require.NoError(t, err)
	require.Equal(t, int64(1), c.ID)

	_, err = svc.GetBySlug(context.Background(), "archive")
	require.ErrorIs(t, err, dom.ErrCategoryNotFound)
}
