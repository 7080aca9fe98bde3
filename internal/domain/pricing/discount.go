package pricing

import "math"

// Discount reports whether oldPrice marks price down and by how many whole
// percent. A missing or non-greater old price is not a discount.
func Discount(price float64, oldPrice *float64) (int, bool) {
	if oldPrice == nil || *oldPrice <= price || *oldPrice <= 0 {
		return 0, false
	}
	return int(math.Round((*oldPrice - price) / *oldPrice * 100)), true
}

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}
