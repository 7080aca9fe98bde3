// Package fallback holds the built-in product list served when the database
// cannot answer a search.
package fallback

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	domproduct "example.com/storefront/internal/domain/product"
)

//go:embed products.json
var productsJSON []byte

type Catalog struct {
	products []*domproduct.Product
	folded   []string
}

// Load parses the embedded product list.
func Load() (*Catalog, error) {
	var items []struct {
		ID          int64                  `json:"id"`
		Name        string                 `json:"name"`
		Slug        string                 `json:"slug"`
		Description *string                `json:"description"`
		Price       float64                `json:"price"`
		OldPrice    *float64               `json:"oldPrice"`
		Category    domproduct.CategoryRef `json:"category"`
		Brand       *string                `json:"brand"`
		Form        *string                `json:"form"`
		Rx          bool                   `json:"prescriptionRequired"`
		InStock     bool                   `json:"inStock"`
		Images      []string               `json:"images"`
		Rating      float64                `json:"rating"`
		Reviews     int                    `json:"reviewsCount"`
	}
	if err := json.Unmarshal(productsJSON, &items); err != nil {
		return nil, fmt.Errorf("parse fallback catalog: %w", err)
	}

	products := make([]*domproduct.Product, 0, len(items))
	for _, it := range items {
		products = append(products, &domproduct.Product{
			ID:                   it.ID,
			Name:                 it.Name,
			Slug:                 it.Slug,
			Description:          it.Description,
			Price:                it.Price,
			OldPrice:             it.OldPrice,
			Category:             it.Category,
			Brand:                it.Brand,
			Form:                 it.Form,
			PrescriptionRequired: it.Rx,
			InStock:              it.InStock,
			Images:               it.Images,
			Rating:               it.Rating,
			ReviewsCount:         it.Reviews,
		})
	}
	return New(products), nil
}

// New builds a catalog over products, ordered by name.
func New(products []*domproduct.Product) *Catalog {
	sorted := append([]*domproduct.Product(nil), products...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].ID < sorted[j].ID
	})

	folded := make([]string, len(sorted))
	for i, p := range sorted {
		folded[i] = fold(p.Name + "\x00" + deref(p.Brand) + "\x00" + deref(p.Description))
	}
	return &Catalog{products: sorted, folded: folded}
}

// Search returns products whose name, brand or description contains the
// query text regardless of case, ordered by name.
func (c *Catalog) Search(q domproduct.SearchQuery) []*domproduct.Product {
	needle := fold(q.Text)
	out := make([]*domproduct.Product, 0)
	for i, p := range c.products {
		if q.CategorySlug != nil && p.Category.Slug != *q.CategorySlug {
			continue
		}
		if !strings.Contains(c.folded[i], needle) {
			continue
		}
		out = append(out, p)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out
}

// Suggest returns up to limit distinct names containing text.
func (c *Catalog) Suggest(text string, limit int) []string {
	needle := fold(text)
	seen := make(map[string]struct{})
	out := make([]string, 0, limit)
	for _, p := range c.products {
		if len(out) == limit {
			break
		}
		if _, dup := seen[p.Name]; dup || !strings.Contains(fold(p.Name), needle) {
			continue
		}
		seen[p.Name] = struct{}{}
		out = append(out, p.Name)
	}
	return out
}

func (c *Catalog) Len() int { return len(c.products) }

func fold(s string) string {
	return cases.Fold().String(s)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
