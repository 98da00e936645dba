package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrossedBelowThreshold(t *testing.T) {
	tests := []struct {
		name      string
		previous  int64
		current   int64
		threshold int64
		want      bool
	}{
		{"drops from above to below", 10, 4, 5, true},
		{"drops from exactly threshold to below", 5, 4, 5, true},
		{"already below stays below", 4, 2, 5, false},
		{"stays above", 10, 6, 5, false},
		{"lands exactly on threshold", 10, 5, 5, false},
		{"rises from below", 2, 10, 5, false},
		{"no movement below threshold", 3, 3, 5, false},
		{"no movement above threshold", 8, 8, 5, false},
		{"zero threshold needs negative current", 5, 0, 0, false},
		{"drops below zero threshold", 5, -1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CrossedBelowThreshold(tt.previous, tt.current, tt.threshold))
		})
	}
}

func TestBelowThreshold(t *testing.T) {
	assert.True(t, BelowThreshold(4, 5))
	assert.False(t, BelowThreshold(5, 5))
	assert.False(t, BelowThreshold(6, 5))
	assert.False(t, BelowThreshold(0, 0))
}

func TestStock_Sellable(t *testing.T) {
	s := Stock{AvailableQuantity: 10, ReservedQuantity: 3}
	assert.Equal(t, int64(7), s.Sellable())

	s = Stock{AvailableQuantity: 5, ReservedQuantity: 5}
	assert.Equal(t, int64(0), s.Sellable())
}
