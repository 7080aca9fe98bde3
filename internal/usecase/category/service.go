package category

import (
	"context"

	dom "example.com/storefront/internal/domain/category"
)

type Service struct {
	repo dom.Repository
}

func NewService(repo dom.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*dom.Category, error) {
	return s.repo.GetBySlug(ctx, slug)
}

type Node struct {
	*dom.Category
	Children []*Node
}

// Tree returns the active categories nested under their parents. A category
// whose parent is inactive or missing is placed at the root.
func (s *Service) Tree(ctx context.Context) ([]*Node, error) {
	categories, err := s.repo.List(ctx, dom.ListFilter{OnlyActive: true})
	if err != nil {
		return nil, err
	}

	nodes := make(map[int64]*Node, len(categories))
	for _, c := range categories {
		nodes[c.ID] = &Node{Category: c, Children: []*Node{}}
	}

	roots := make([]*Node, 0, len(categories))
	for _, c := range categories {
		n := nodes[c.ID]
		if c.ParentID != nil {
			if parent, ok := nodes[*c.ParentID]; ok && parent != n {
				parent.Children = append(parent.Children, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	return roots, nil
}
