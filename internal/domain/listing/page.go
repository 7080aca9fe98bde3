package listing

// Request is the one-based pagination cursor of a listing request.
type Request struct {
	Page  int
	Limit int
}

func (r Request) Offset() int {
	if r.Page < 1 {
		return 0
	}
	return (r.Page - 1) * r.Limit
}

type Page struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// NewPage computes page metadata for total matching records. A page past the
// end is not an error; it simply has no items.
func NewPage(req Request, total int) Page {
	totalPages := 0
	if req.Limit > 0 {
		totalPages = (total + req.Limit - 1) / req.Limit
	}
	return Page{
		Page:        req.Page,
		Limit:       req.Limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNextPage: req.Page < totalPages,
		HasPrevPage: req.Page > 1,
	}
}

// Slice returns the items that fall on the requested page.
func Slice[T any](items []T, req Request) []T {
	start := req.Offset()
	if start >= len(items) || req.Limit < 1 {
		return []T{}
	}
	end := start + req.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
