package tour

import (
	"strconv"
	"strings"

	"example.com/storefront/internal/domain/listing"
)

// DurationRange bounds a tour length in days. Max of zero means unbounded.
type DurationRange struct {
	Min int
	Max int
}

func (r DurationRange) Contains(days int) bool {
	if days < r.Min {
		return false
	}
	return r.Max == 0 || days <= r.Max
}

// ParseDuration accepts "N", "N-M" and "N+" (the sidebar buckets are "3-5",
// "6-10" and "11+").
func ParseDuration(s string) (DurationRange, error) {
	invalid := listing.InvalidValue("duration", "must look like 7, 3-5 or 11+")
	s = strings.TrimSpace(s)

	if rest, ok := strings.CutSuffix(s, "+"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 {
			return DurationRange{}, invalid
		}
		return DurationRange{Min: n}, nil
	}
	if lo, hi, ok := strings.Cut(s, "-"); ok {
		a, err1 := strconv.Atoi(lo)
		b, err2 := strconv.Atoi(hi)
		if err1 != nil || err2 != nil || a < 1 || b < a {
			return DurationRange{}, invalid
		}
		return DurationRange{Min: a, Max: b}, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return DurationRange{}, invalid
	}
	return DurationRange{Min: n, Max: n}, nil
}
