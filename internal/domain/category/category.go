package category

type Category struct {
	ID       int64
	Name     string
	Slug     string
	ParentID *int64
	IsActive bool
}

type ListFilter struct {
	OnlyActive bool
}
