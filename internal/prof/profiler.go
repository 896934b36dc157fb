package prof

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrAlreadyActive = errors.New("prof: block already active")
	ErrNotActive     = errors.New("prof: block not active")
	ErrActiveAtReset = errors.New("prof: block still active at frame reset")
)

// Block accumulates invocation counts and elapsed seconds for one measured
// operation.
type Block struct {
	Name string

	CountLastFrame    uint32
	CountCurrentFrame uint32
	CountTotal        uint32

	ClockLastFrame    float64
	ClockCurrentFrame float64
	ClockTotal        float64

	Active bool

	started time.Time
}

// Profiler is a fixed table of blocks. It is not safe for concurrent use;
// the frame loop owns it.
type Profiler struct {
	reg    *Registry
	blocks []Block
	now    func() time.Time
}

// Option configures a Profiler.
type Option func(*Profiler)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Profiler) { p.now = now }
}

// New creates a zeroed table with one block per registry entry.
func New(reg *Registry, opts ...Option) *Profiler {
	p := &Profiler{
		reg:    reg,
		blocks: make([]Block, reg.Len()),
		now:    time.Now,
	}
	for i := range p.blocks {
		p.blocks[i].Name = reg.names[i]
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Profiler) Registry() *Registry { return p.reg }

func (p *Profiler) block(n Name) (*Block, error) {
	if !p.reg.has(n) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBlock, n)
	}
	return &p.blocks[n], nil
}

// Start opens a measurement. Blocks do not nest.
func (p *Profiler) Start(n Name) error {
	b, err := p.block(n)
	if err != nil {
		return err
	}
	if b.Active {
		return fmt.Errorf("%w: %s", ErrAlreadyActive, b.Name)
	}
	b.Active = true
	b.CountCurrentFrame++
	b.CountTotal++
	b.started = p.now()
	return nil
}

// End closes the measurement opened by Start.
func (p *Profiler) End(n Name) error {
	b, err := p.block(n)
	if err != nil {
		return err
	}
	if !b.Active {
		return fmt.Errorf("%w: %s", ErrNotActive, b.Name)
	}
	elapsed := p.now().Sub(b.started).Seconds()
	b.ClockCurrentFrame += elapsed
	b.ClockTotal += elapsed
	b.Active = false
	b.started = time.Time{}
	return nil
}

// FrameReset rotates current-frame stats into last-frame stats and zeroes the
// current accumulators. It refuses to run while any block is active.
func (p *Profiler) FrameReset() error {
	for i := range p.blocks {
		if p.blocks[i].Active {
			return fmt.Errorf("%w: %s", ErrActiveAtReset, p.blocks[i].Name)
		}
	}
	for i := range p.blocks {
		b := &p.blocks[i]
		b.ClockLastFrame = b.ClockCurrentFrame
		b.CountLastFrame = b.CountCurrentFrame
		b.ClockCurrentFrame = 0
		b.CountCurrentFrame = 0
	}
	return nil
}

// Clear zeroes one block, run totals included.
func (p *Profiler) Clear(n Name) error {
	b, err := p.block(n)
	if err != nil {
		return err
	}
	*b = Block{Name: b.Name}
	return nil
}

// Derive clears dst and records a single sample in it worth src's
// current-frame time divided by divisor. A zero divisor yields +Inf or NaN.
func (p *Profiler) Derive(dst, src Name, divisor uint64) error {
	s, err := p.block(src)
	if err != nil {
		return err
	}
	if err := p.Clear(dst); err != nil {
		return err
	}
	d := &p.blocks[dst]
	per := s.ClockCurrentFrame / float64(divisor)
	d.CountCurrentFrame = 1
	d.CountTotal = 1
	d.ClockCurrentFrame = per
	d.ClockTotal = per
	return nil
}

// Block returns a copy of block n.
func (p *Profiler) Block(n Name) (Block, error) {
	b, err := p.block(n)
	if err != nil {
		return Block{}, err
	}
	return *b, nil
}

// Blocks returns a copy of the whole table.
func (p *Profiler) Blocks() []Block {
	return append([]Block(nil), p.blocks...)
}

// Table snapshots the profiler for reporting or persisting.
func (p *Profiler) Table(source string) Table {
	return Table{Source: source, Blocks: p.Blocks()}
}
