package http

import (
	"net/http"

	"example.com/storefront/internal/domain/listing"
	domproduct "example.com/storefront/internal/domain/product"
	productuc "example.com/storefront/internal/usecase/product"
)

const degradedSearchMessage = "search is temporarily running in limited mode"

func (a *API) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r.URL.Query())
	filter := domproduct.Filter{
		CategorySlug:         q.String("category"),
		Brand:                q.String("brand"),
		Form:                 q.String("form"),
		MinPrice:             q.Float("minPrice"),
		MaxPrice:             q.Float("maxPrice"),
		InStock:              q.Bool("inStock"),
		PrescriptionRequired: q.Bool("prescriptionRequired"),
		IsDiscounted:         q.Bool("isDiscounted"),
		MinRating:            q.Float("rating"),
		SortBy:               domproduct.ParseSortField(r.URL.Query().Get("sortBy")),
		Page: listing.Request{
			Page:  q.Int("page", 1),
			Limit: q.Int("limit", a.productPage),
		},
	}
	if err := q.Err(); err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	order, err := listing.ParseSortOrder(r.URL.Query().Get("sortOrder"))
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	filter.SortOrder = order

	res, err := a.productSvc.List(r.Context(), filter)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, map[string]any{
		"products":       mapProducts(res.Products),
		"pagination":     res.Page,
		"filters":        mapProductFacets(res.Facets),
		"appliedFilters": appliedProductFilters(filter),
	})
}

func appliedProductFilters(f domproduct.Filter) map[string]any {
	applied := map[string]any{
		"page":      f.Page.Page,
		"limit":     f.Page.Limit,
		"sortBy":    f.SortBy,
		"sortOrder": f.SortOrder,
	}
	putIf(applied, "category", f.CategorySlug)
	putIf(applied, "brand", f.Brand)
	putIf(applied, "form", f.Form)
	putIf(applied, "minPrice", f.MinPrice)
	putIf(applied, "maxPrice", f.MaxPrice)
	putIf(applied, "inStock", f.InStock)
	putIf(applied, "prescriptionRequired", f.PrescriptionRequired)
	putIf(applied, "isDiscounted", f.IsDiscounted)
	putIf(applied, "rating", f.MinRating)
	return applied
}

func putIf[T any](m map[string]any, key string, v *T) {
	if v != nil {
		m[key] = *v
	}
}

type searchResponse struct {
	Products    []productView `json:"products"`
	Suggestions []string      `json:"suggestions"`
	Total       int           `json:"total"`
	Query       string        `json:"query"`
	Degraded    bool          `json:"degraded,omitempty"`
}

func (a *API) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r.URL.Query())
	category := q.String("category")
	limit := q.Int("limit", 0)
	if err := q.Err(); err != nil {
		a.handleDomainError(w, r, err)
		return
	}

	text := r.URL.Query().Get("q")
	query, err := domproduct.NewSearchQuery(text, category, limit)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}

	res, err := a.productSvc.Search(r.Context(), query)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}

	body := searchResponse{
		Products:    mapProducts(res.Products),
		Suggestions: orEmpty(res.Suggestions),
		Total:       res.Total,
		Query:       text,
	}
	if res.Mode == productuc.RankModeFallback {
		body.Degraded = true
		writeJSON(w, http.StatusOK, envelope{Success: true, Data: body, Message: degradedSearchMessage})
		return
	}
	respondData(w, http.StatusOK, body)
}
