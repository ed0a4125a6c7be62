package attribution

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundToBucket(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-50, 0},
		{0, 0},
		{6.67, 0},
		{12.5, 0},
		{12.51, 25},
		{13.33, 25},
		{37.5, 25},
		{37.51, 50},
		{50, 50},
		{62.5, 50},
		{62.51, 75},
		{87.5, 75},
		{87.51, 100},
		{100, 100},
		{250, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundToBucket(tt.in), "in=%v", tt.in)
	}
}

func TestRoundToBucket_Idempotent(t *testing.T) {
	for x := -200.0; x <= 200.0; x += 0.37 {
		once := RoundToBucket(x)
		assert.Equal(t, once, RoundToBucket(once), "x=%v", x)
	}
}

func TestRoundToBucket_TotalOverAllInputs(t *testing.T) {
	buckets := map[float64]bool{0: true, 25: true, 50: true, 75: true, 100: true}

	inputs := []float64{math.Inf(-1), math.Inf(1), math.NaN(), -1e300, 1e300, 0, 99.999}
	for _, x := range inputs {
		assert.True(t, buckets[RoundToBucket(x)], "x=%v", x)
	}
}
