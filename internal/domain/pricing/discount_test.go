package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestDiscount(t *testing.T) {
	tests := []struct {
		name       string
		price      float64
		oldPrice   *float64
		wantPct    int
		discounted bool
	}{
		{name: "tour markdown", price: 100000, oldPrice: ptr(230000), wantPct: 57, discounted: true},
		{name: "pharmacy markdown", price: 89.50, oldPrice: ptr(120), wantPct: 25, discounted: true},
		{name: "no old price", price: 450, oldPrice: nil},
		{name: "old price equal", price: 450, oldPrice: ptr(450)},
		{name: "old price lower", price: 450, oldPrice: ptr(300)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pct, ok := Discount(tt.price, tt.oldPrice)
			require.Equal(t, tt.discounted, ok)
			require.Equal(t, tt.wantPct, pct)
		})
	}
}
