package dispatch

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"soft-render/internal/raster"
)

var (
	ErrUnknownRoutine = errors.New("dispatch: unknown routine")
	ErrDuplicate      = errors.New("dispatch: routine already registered")
	ErrEmpty          = errors.New("dispatch: no routines registered")
)

// Routine fills a whole surface.
type Routine interface {
	Draw(s *raster.Surface) error
}

// RoutineFunc adapts a plain function to Routine.
type RoutineFunc func(s *raster.Surface) error

func (f RoutineFunc) Draw(s *raster.Surface) error { return f(s) }

// Dispatcher is an ordered registry of draw routines with one active entry.
type Dispatcher struct {
	names    []string
	routines []Routine
	index    map[string]int
	active   int
	log      zerolog.Logger
}

// New returns an empty dispatcher.
func New(log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		index: make(map[string]int),
		log:   log,
	}
}

// Register appends r under name. The first routine registered is active.
func (d *Dispatcher) Register(name string, r Routine) error {
	if name == "" || r == nil {
		return fmt.Errorf("dispatch: register %q: name and routine are required", name)
	}
	if _, dup := d.index[name]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	d.index[name] = len(d.routines)
	d.names = append(d.names, name)
	d.routines = append(d.routines, r)
	return nil
}

// Select makes name the active routine.
func (d *Dispatcher) Select(name string) error {
	i, ok := d.index[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRoutine, name)
	}
	d.active = i
	d.log.Info().Str("routine", name).Msg("routine selected")
	return nil
}

// Next advances the selection modulo the number of routines and returns the
// new active name.
func (d *Dispatcher) Next() string {
	if len(d.routines) == 0 {
		return ""
	}
	d.active = (d.active + 1) % len(d.routines)
	d.log.Info().Str("routine", d.names[d.active]).Msg("routine selected")
	return d.names[d.active]
}

// Active returns the name of the active routine.
func (d *Dispatcher) Active() string {
	if len(d.routines) == 0 {
		return ""
	}
	return d.names[d.active]
}

// Names lists routines in registration order.
func (d *Dispatcher) Names() []string { return append([]string(nil), d.names...) }

// Has reports whether name is registered.
func (d *Dispatcher) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Draw runs the active routine against s.
func (d *Dispatcher) Draw(s *raster.Surface) error {
	if len(d.routines) == 0 {
		return ErrEmpty
	}
	if err := d.routines[d.active].Draw(s); err != nil {
		return fmt.Errorf("dispatch: %s: %w", d.names[d.active], err)
	}
	return nil
}
