package store

import (
	"context"
	"sort"
	"strings"

	"example.com/storefront/internal/domain/geo"
	dom "example.com/storefront/internal/domain/store"
)

type Service struct {
	repo dom.Repository
}

func NewService(repo dom.Repository) *Service {
	return &Service{repo: repo}
}

// Located is a store with its distance from the requested point, when one
// was given.
type Located struct {
	Store      *dom.Store
	DistanceKm *float64
}

type FindResult struct {
	Stores []Located
	Facets dom.Facets
}

// Find applies the attribute filters in storage and then, if a reference
// point is set, keeps the stores within the radius, nearest first. Without a
// point stores are ordered by name.
func (s *Service) Find(ctx context.Context, filter dom.Filter) (*FindResult, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	candidates, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	facets, err := s.repo.Facets(ctx)
	if err != nil {
		return nil, err
	}

	var located []Located
	if filter.Near != nil {
		ranked := geo.WithinRadius(candidates, *filter.Near, filter.RadiusKm)
		located = make([]Located, 0, len(ranked))
		for _, r := range ranked {
			d := geo.RoundKm(r.DistanceKm)
			located = append(located, Located{Store: r.Item, DistanceKm: &d})
		}
	} else {
		sorted := append([]*dom.Store(nil), candidates...)
		sort.SliceStable(sorted, func(i, j int) bool {
			if c := strings.Compare(sorted[i].Name, sorted[j].Name); c != 0 {
				return c < 0
			}
			return sorted[i].ID < sorted[j].ID
		})
		located = make([]Located, 0, len(sorted))
		for _, st := range sorted {
			located = append(located, Located{Store: st})
		}
	}

	return &FindResult{Stores: located, Facets: facets}, nil
}

func (s *Service) GetActiveByID(ctx context.Context, id int64) (*dom.Store, error) {
	return s.repo.GetActiveByID(ctx, id)
}
