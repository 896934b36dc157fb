package mathutil

import "math"

// Vec3 is a 3-component vector (value type, stack-allocated).
// Components are x, y, z in that order; +z points away from the camera.
type Vec3 [3]float64

// V3 builds a Vec3 from its components.
func V3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

func (a Vec3) X() float64 { return a[0] }
func (a Vec3) Y() float64 { return a[1] }
func (a Vec3) Z() float64 { return a[2] }

func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

func (a Vec3) Dot(b Vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.Dot(v))
}
