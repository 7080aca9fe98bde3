package fallback

import (
	"testing"

	"github.com/stretchr/testify/require"

	domproduct "example.com/storefront/internal/domain/product"
)

func names(ps []*domproduct.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}

func TestLoadEmbeddedCatalog(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8, c.Len())
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	got := c.Search(domproduct.SearchQuery{Text: "ПАРАЦЕТ", Limit: 10})
	require.Equal(t, []string{"Парацетамол 500мг"}, names(got))
}

func TestSearchMatchesBrandAndDescription(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	require.Equal(t, []string{"Витамин D3 2000 МЕ"}, names(c.Search(domproduct.SearchQuery{Text: "solgar", Limit: 10})))
	require.Equal(t,
		[]string{"Ибупрофен 400мг", "Парацетамол 500мг"},
		names(c.Search(domproduct.SearchQuery{Text: "обезболива", Limit: 10})))
}

func TestSearchHonoursCategoryAndLimit(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	vitamins := "vitamins"
	got := c.Search(domproduct.SearchQuery{Text: "ка", CategorySlug: &vitamins, Limit: 10})
	for _, p := range got {
		require.Equal(t, "vitamins", p.Category.Slug)
	}

	require.Len(t, c.Search(domproduct.SearchQuery{Text: "ро", Limit: 1}), 1)
}

func TestSearchWithoutMatches(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	require.Empty(t, c.Search(domproduct.SearchQuery{Text: "zzzz", Limit: 10}))
	require.Empty(t, c.Suggest("zzzz", 5))
}

func TestSuggest(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, []string{"Витамин D3 2000 МЕ"}, c.Suggest("витамин", 5))
}
