package prof

import (
	"errors"
	"fmt"
)

// MaxNameLen bounds block names so they fit the record's length byte.
const MaxNameLen = 255

var ErrUnknownBlock = errors.New("prof: unknown block")

// Name identifies a block by its position in a Registry.
type Name int

// Blocks of the default registry.
const (
	Loop Name = iota
	Draw
	Pixel
)

// DefaultNames returns the default registry names in record order.
func DefaultNames() []string {
	return []string{"loop", "draw", "pixel"}
}

// Registry is the ordered set of block names shared by the profiler, the
// record writer and the record reader.
type Registry struct {
	names []string
	index map[string]Name
}

// NewRegistry validates names: non-empty, unique, at most MaxNameLen bytes.
func NewRegistry(names ...string) (*Registry, error) {
	r := &Registry{
		names: make([]string, 0, len(names)),
		index: make(map[string]Name, len(names)),
	}
	for i, n := range names {
		if n == "" {
			return nil, fmt.Errorf("prof: block %d has an empty name", i)
		}
		if len(n) > MaxNameLen {
			return nil, fmt.Errorf("prof: block %q longer than %d bytes", n, MaxNameLen)
		}
		if _, dup := r.index[n]; dup {
			return nil, fmt.Errorf("prof: duplicate block %q", n)
		}
		r.index[n] = Name(i)
		r.names = append(r.names, n)
	}
	return r, nil
}

// DefaultRegistry returns loop, draw and pixel.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultNames()...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Len() int { return len(r.names) }

// Names returns a copy of the names in order.
func (r *Registry) Names() []string { return append([]string(nil), r.names...) }

// Lookup finds a block by name.
func (r *Registry) Lookup(name string) (Name, bool) {
	n, ok := r.index[name]
	return n, ok
}

// String returns the name of n, or "" when n is out of range.
func (r *Registry) String(n Name) string {
	if !r.has(n) {
		return ""
	}
	return r.names[n]
}

func (r *Registry) has(n Name) bool {
	return n >= 0 && int(n) < len(r.names)
}
