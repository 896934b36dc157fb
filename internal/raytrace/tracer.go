package raytrace

import (
	"math"

	"soft-render/internal/mathutil"
	"soft-render/internal/raster"
)

// Camera sits at the origin looking down +z through a 1x1 viewport one unit away.
const (
	ViewportWidth  = 1.0
	ViewportHeight = 1.0
	ProjectionDist = 1.0
)

// TMin is the near clip. Roots in [TMin, TMax) are valid.
const TMin = 1.0

// TMax is the far clip; there is none.
var TMax = math.Inf(1)

// Ray starts at the world origin.
type Ray struct {
	Direction mathutil.Vec3
}

// DeriveRay maps a centered pixel coordinate (cx = x - width/2,
// cy = height/2 - y) onto the viewport.
func DeriveRay(cx, cy, width, height int) Ray {
	return Ray{Direction: mathutil.V3(
		float64(cx)*ViewportWidth/float64(width),
		float64(cy)*ViewportHeight/float64(height),
		ProjectionDist,
	)}
}

// Intersect returns both roots of |t·D - C|² = r². A miss yields
// (+Inf, -Inf); the roots are not ordered.
func Intersect(r Ray, s Sphere) (float64, float64) {
	oc := mathutil.Vec3{}.Sub(s.Center)
	d := r.Direction
	k1 := d.Dot(d)
	k2 := 2 * oc.Dot(d)
	k3 := oc.Dot(oc) - s.Radius*s.Radius
	return mathutil.SolveQuadratic(k1, k2, k3)
}

// ClosestHit returns the index of the sphere with the smallest valid root and
// that root, or (-1, +Inf) when nothing is hit.
func ClosestHit(r Ray, spheres []Sphere) (int, float64) {
	best, closest := -1, math.Inf(1)
	for i, s := range spheres {
		t0, t1 := Intersect(r, s)
		if valid(t0) && t0 < closest {
			best, closest = i, t0
		}
		if valid(t1) && t1 < closest {
			best, closest = i, t1
		}
	}
	return best, closest
}

// Trace resolves the flat color seen along r, black when nothing is hit.
func Trace(r Ray, spheres []Sphere) raster.Color {
	i, _ := ClosestHit(r, spheres)
	if i < 0 {
		return raster.Black
	}
	return spheres[i].Color
}

func valid(t float64) bool {
	return t >= TMin && t < TMax
}
