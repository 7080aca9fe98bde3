package product

import (
	"unicode/utf8"

	"example.com/storefront/internal/domain/listing"
)

const (
	MinQueryLength     = 2
	DefaultSearchLimit = 10
	MaxSearchLimit     = 50
	SuggestionLimit    = 5
)

type SearchQuery struct {
	Text         string
	CategorySlug *string
	Limit        int
}

// NewSearchQuery enforces the minimum query length, counted in characters.
// A zero limit selects DefaultSearchLimit.
func NewSearchQuery(text string, categorySlug *string, limit int) (SearchQuery, error) {
	if utf8.RuneCountInString(text) < MinQueryLength {
		return SearchQuery{}, ErrQueryTooShort
	}
	if limit < 0 || limit > MaxSearchLimit {
		return SearchQuery{}, listing.InvalidValue("limit", "must be between 1 and 50")
	}
	if limit == 0 {
		limit = DefaultSearchLimit
	}
	return SearchQuery{Text: text, CategorySlug: categorySlug, Limit: limit}, nil
}
