package listing

import "strings"

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(s)) {
	case "", SortAsc:
		return SortAsc, nil
	case SortDesc:
		return SortDesc, nil
	default:
		return "", InvalidValue("sortOrder", "must be asc or desc")
	}
}

func (o SortOrder) SQL() string {
	if o == SortDesc {
		return "DESC"
	}
	return "ASC"
}
