package attribution

import "math"

// RoundToBucket snaps a continuous percentage onto the coarse payroll scale
// {0, 25, 50, 75, 100}. Total over all real inputs and idempotent: an
// already-bucketed value maps to itself.
func RoundToBucket(percent float64) float64 {
	switch {
	case math.IsNaN(percent):
		return 0
	case percent <= 12.5:
		return 0
	case percent <= 37.5:
		return 25
	case percent <= 62.5:
		return 50
	case percent <= 87.5:
		return 75
	default:
		return 100
	}
}
