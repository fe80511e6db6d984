package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		stock int
		want  Status
	}{
		{-3, StatusOutOfStock},
		{0, StatusOutOfStock},
		{1, StatusLowStock},
		{5, StatusLowStock},
		{10, StatusLowStock},
		{11, StatusInStock},
		{250, StatusInStock},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, DeriveStatus(tc.stock), "stock=%d", tc.stock)
	}
}

func TestDeriveStatusIsDeterministic(t *testing.T) {
	for s := 0; s <= 500; s++ {
		first := DeriveStatus(s)
		assert.True(t, first.Valid())
		assert.Equal(t, first, DeriveStatus(s))
	}
}

func TestThresholdsAreExplicit(t *testing.T) {
	strict := Thresholds{LowStockMax: 20}
	assert.Equal(t, StatusLowStock, strict.Derive(15))
	assert.Equal(t, StatusInStock, DefaultThresholds.Derive(15))
}

func TestApplySale(t *testing.T) {
	stock, sales := ApplySale(5, 2, 10)
	assert.Equal(t, 0, stock)
	assert.Equal(t, 12, sales)

	for s := 0; s <= 30; s++ {
		for q := 0; q <= 30; q++ {
			got, _ := ApplySale(s, 0, q)
			want := s - q
			if want < 0 {
				want = 0
			}
			assert.Equal(t, want, got)
		}
	}
}

func TestStatusValid(t *testing.T) {
	assert.False(t, Status("discontinued").Valid())
	assert.Len(t, Statuses(), 3)
}
