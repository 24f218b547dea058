package rules

import (
	"github.com/evidfuse/evidfuse/internal/domain"
)

// Conflict computes the conflict coefficient between two assignments:
// K = Σ m1(A)·m2(B) over all focal pairs with A ∩ B = ∅.
// K is clamped into [0, 1]; K = 1 signals total conflict, where no focal
// elements of the operands intersect.
func Conflict(m1, m2 domain.BPA) float64 {
	var k float64
	for _, a := range m1.Focal() {
		ma := m1.Mass(a)
		for _, b := range m2.Focal() {
			if !a.Intersects(b) {
				k += ma * m2.Mass(b)
			}
		}
	}

	// Accumulated products can stray just outside the unit interval.
	if k < 0 {
		return 0
	}
	if k > 1 {
		return 1
	}
	return k
}
