package mathutil

import "math"

// SolveQuadratic returns the roots of a·t² + b·t + c = 0 as
// ((-b + √disc) / 2a, (-b - √disc) / 2a).
// A negative discriminant yields (+Inf, -Inf) so that neither root can win a
// smallest-valid-root search.
func SolveQuadratic(a, b, c float64) (float64, float64) {
	disc := b*b - 4*a*c
	if disc < 0 {
		return math.Inf(1), math.Inf(-1)
	}
	sq := math.Sqrt(disc)
	return (-b + sq) / (2 * a), (-b - sq) / (2 * a)
}
