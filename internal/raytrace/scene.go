package raytrace

import (
	"fmt"

	"soft-render/internal/mathutil"
	"soft-render/internal/raster"
)

// Sphere is a flat-colored sphere in world space.
type Sphere struct {
	Center mathutil.Vec3
	Radius float64
	Color  raster.Color
}

// Scene is an ordered set of spheres. Order breaks ties between hits at the
// same distance: the earlier sphere wins.
type Scene struct {
	Spheres []Sphere
}

// NewScene validates and copies spheres.
func NewScene(spheres ...Sphere) (*Scene, error) {
	for i, s := range spheres {
		if !(s.Radius > 0) {
			return nil, fmt.Errorf("raytrace: sphere %d: radius must be > 0, got %g", i, s.Radius)
		}
	}
	return &Scene{Spheres: append([]Sphere(nil), spheres...)}, nil
}

// DefaultScene returns the three-sphere scene: red below the view axis, blue
// to the right, green to the left.
func DefaultScene() *Scene {
	return &Scene{Spheres: []Sphere{
		{Center: mathutil.V3(0, -1, 3), Radius: 1, Color: raster.Color{R: 255}},
		{Center: mathutil.V3(2, 0, 4), Radius: 1, Color: raster.Color{B: 255}},
		{Center: mathutil.V3(-2, 0, 4), Radius: 1, Color: raster.Color{G: 255}},
	}}
}

// Draw traces one ray per pixel and writes the resulting colors.
// Pixel coordinates are centered on (width/2, height/2) and y is flipped:
// rows grow downward, world y grows upward.
func (sc *Scene) Draw(s *raster.Surface) error {
	w, h := s.Width(), s.Height()
	for y := 0; y < h; y++ {
		cy := h/2 - y
		for x := 0; x < w; x++ {
			ray := DeriveRay(x-w/2, cy, w, h)
			if err := s.SetPixel(x, y, Trace(ray, sc.Spheres)); err != nil {
				return err
			}
		}
	}
	return nil
}
