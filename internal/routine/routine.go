// Package routine holds the full-frame draw routines selectable at runtime.
package routine

import (
	"soft-render/internal/dispatch"
	"soft-render/internal/raytrace"
)

// Names of the built-in routines, in registration order.
const (
	NameScene  = "scene"
	NameGrid   = "grid"
	NameShapes = "shapes"
)

// RegisterAll registers the raytraced scene, the grid and the shape composite.
func RegisterAll(d *dispatch.Dispatcher, sc *raytrace.Scene) error {
	if err := d.Register(NameScene, sc); err != nil {
		return err
	}
	if err := d.Register(NameGrid, dispatch.RoutineFunc(Grid)); err != nil {
		return err
	}
	return d.Register(NameShapes, &Shapes{})
}
