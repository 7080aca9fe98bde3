package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

type productListData struct {
	Products   []map[string]any `json:"products"`
	Pagination struct {
		Page        int  `json:"page"`
		Limit       int  `json:"limit"`
		Total       int  `json:"total"`
		TotalPages  int  `json:"totalPages"`
		HasNextPage bool `json:"hasNextPage"`
		HasPrevPage bool `json:"hasPrevPage"`
	} `json:"pagination"`
	Filters struct {
		Brands     []string `json:"brands"`
		Forms      []string `json:"forms"`
		PriceRange struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		} `json:"priceRange"`
	} `json:"filters"`
	AppliedFilters map[string]any `json:"appliedFilters"`
}

func productIDs(items []map[string]any) []float64 {
	ids := make([]float64, 0, len(items))
	for _, p := range items {
		ids = append(ids, p["id"].(float64))
	}
	return ids
}

func TestListProductsDiscounted(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/api/products?isDiscounted=true")
	require.Equal(t, http.StatusOK, rec.Code)

	var data productListData
	resp := decodeEnvelope(t, rec, &data)
	require.True(t, resp.Success)

	require.Equal(t, []float64{1, 3}, productIDs(data.Products))
	for _, p := range data.Products {
		require.Equal(t, true, p["isDiscounted"])
	}
	require.Equal(t, float64(25), data.Products[0]["discountPercent"])
	require.Equal(t, float64(57), data.Products[1]["discountPercent"])

	require.Equal(t, 2, data.Pagination.Total)
	require.Equal(t, 1, data.Pagination.TotalPages)
	require.Equal(t, 12, data.Pagination.Limit)

	// facets describe the whole catalog, not the filtered page
	require.ElementsMatch(t, []string{"Фармстандарт", "Solgar", "Omron"}, data.Filters.Brands)
	require.Equal(t, 89.5, data.Filters.PriceRange.Min)
	require.Equal(t, 100000.0, data.Filters.PriceRange.Max)

	require.Equal(t, map[string]any{
		"isDiscounted": true,
		"page":         float64(1),
		"limit":        float64(12),
		"sortBy":       "name",
		"sortOrder":    "asc",
	}, data.AppliedFilters)
}

func TestListProductsOmitsAbsentFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/api/products?inStock=false")
	require.Equal(t, http.StatusOK, rec.Code)

	var data productListData
	decodeEnvelope(t, rec, &data)
	require.Len(t, data.Products, 1)

	p := data.Products[0]
	require.Equal(t, "Тонометр", p["name"])
	require.NotContains(t, p, "form")
	require.NotContains(t, p, "description")
	require.Equal(t, []any{}, p["images"])

	var solgar productListData
	decodeEnvelope(t, env.get(t, "/api/products?brand=Solgar"), &solgar)
	require.Len(t, solgar.Products, 1)
	require.Equal(t, false, solgar.Products[0]["isDiscounted"])
	require.NotContains(t, solgar.Products[0], "discountPercent")
	require.NotContains(t, solgar.Products[0], "oldPrice")
}

func TestListProductsEqualOldPriceIsNotDiscounted(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/api/products?prescriptionRequired=true")
	var data productListData
	decodeEnvelope(t, rec, &data)
	require.Len(t, data.Products, 1)
	require.Equal(t, false, data.Products[0]["isDiscounted"])
	require.Equal(t, float64(125), data.Products[0]["oldPrice"])
}

func TestListProductsPastLastPage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/api/products?page=5&limit=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var data productListData
	decodeEnvelope(t, rec, &data)
	require.Empty(t, data.Products)
	require.NotNil(t, data.Products)
	require.Equal(t, 4, data.Pagination.Total)
	require.Equal(t, 2, data.Pagination.TotalPages)
	require.False(t, data.Pagination.HasNextPage)
	require.True(t, data.Pagination.HasPrevPage)
}

func TestListProductsOrderingIsStable(t *testing.T) {
	env := newTestEnv(t)

	var first, second productListData
	decodeEnvelope(t, env.get(t, "/api/products?sortBy=price&sortOrder=desc"), &first)
	decodeEnvelope(t, env.get(t, "/api/products?sortBy=price&sortOrder=desc"), &second)
	require.Equal(t, []float64{3, 2, 4, 1}, productIDs(first.Products))
	require.Equal(t, productIDs(first.Products), productIDs(second.Products))

	var fallbackSort productListData
	decodeEnvelope(t, env.get(t, "/api/products?sortBy=popularity"), &fallbackSort)
	require.Equal(t, "name", fallbackSort.AppliedFilters["sortBy"])
}

func TestListProductsRejectsInvalidOptions(t *testing.T) {
	env := newTestEnv(t)

	for _, target := range []string{
		"/api/products?limit=0",
		"/api/products?limit=101",
		"/api/products?page=0",
		"/api/products?minPrice=abc",
		"/api/products?inStock=maybe",
		"/api/products?sortOrder=up",
		"/api/products?rating=6",
		"/api/products?minPrice=500&maxPrice=100",
		"/api/products?maxPrice=-1",
		"/api/products?minPrice=NaN",
		"/api/products?rating=NaN",
		"/api/products?maxPrice=Inf",
		"/api/products?minPrice=-Inf",
	} {
		rec := env.get(t, target)
		require.Equal(t, http.StatusBadRequest, rec.Code, target)
		resp := decodeEnvelope(t, rec, nil)
		require.False(t, resp.Success, target)
		require.NotEmpty(t, resp.Message, target)
	}
}

func TestListProductsUnknownCategory(t *testing.T) {
	env := newTestEnv(t)

	for _, slug := range []string{"unknown", "archive"} {
		rec := env.get(t, "/api/products?category="+slug)
		require.Equal(t, http.StatusNotFound, rec.Code, slug)
	}

	rec := env.get(t, "/api/products?category=medicines")
	require.Equal(t, http.StatusOK, rec.Code)
	var data productListData
	decodeEnvelope(t, rec, &data)
	require.Equal(t, []float64{4, 1, 3}, productIDs(data.Products))
}

type searchData struct {
	Products    []map[string]any `json:"products"`
	Suggestions []string         `json:"suggestions"`
	Total       int              `json:"total"`
	Query       string           `json:"query"`
	Degraded    bool             `json:"degraded"`
}

func TestSearchQueryTooShort(t *testing.T) {
	env := newTestEnv(t)

	for _, q := range []string{"", "а", "a"} {
		rec := env.get(t, "/api/search?q="+url.QueryEscape(q))
		require.Equal(t, http.StatusBadRequest, rec.Code, q)
	}

	rec := env.get(t, "/api/search?q="+url.QueryEscape("аб"))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSearchNoMatches(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/api/search?q=zzzz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t,
		`{"success":true,"data":{"products":[],"suggestions":[],"total":0,"query":"zzzz"}}`,
		rec.Body.String())
}

func TestSearchFallsBackWhenStorageFails(t *testing.T) {
	env := newTestEnv(t)
	env.products.searchErr = errors.New("dial tcp: connection refused")

	rec := env.get(t, "/api/search?q="+url.QueryEscape("парацетамол"))
	require.Equal(t, http.StatusOK, rec.Code)

	var data searchData
	resp := decodeEnvelope(t, rec, &data)
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.Message)
	require.True(t, data.Degraded)
	require.Equal(t, 1, data.Total)
	require.Equal(t, "Парацетамол 500мг", data.Products[0]["name"])
	require.Equal(t, []string{"Парацетамол 500мг"}, data.Suggestions)
}

func TestSearchRejectsLimitAboveMaximum(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/api/search?limit=51&q="+url.QueryEscape("вита"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchRateLimited(t *testing.T) {
	env := newTestEnv(t, withSearchRate(0.001, 1))

	require.Equal(t, http.StatusOK, env.get(t, "/api/search?q=vita").Code)

	rec := env.get(t, "/api/search?q=vita")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))

	// other endpoints are not limited
	require.Equal(t, http.StatusOK, env.get(t, "/api/products").Code)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusOK, env.get(t, "/health").Code)
	require.Equal(t, http.StatusOK, env.get(t, "/health/db").Code)

	down := newTestEnv(t, func(d *Dependencies) { d.DB = mockPinger{err: errors.New("down")} })
	rec := down.get(t, "/health/db")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, false, body["success"])
}
