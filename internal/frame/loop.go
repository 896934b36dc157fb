package frame

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"soft-render/internal/dispatch"
	"soft-render/internal/prof"
	"soft-render/internal/raster"
)

// Sink supplies the surface for one frame and presents it afterwards.
// The surface returned by Acquire must not be written after Release.
type Sink interface {
	Acquire() (*raster.Surface, error)
	Release() error
}

// Loop runs one frame at a time: draw the active routine into the sink's
// surface and account for it in the profiler.
type Loop struct {
	prof *prof.Profiler
	disp *dispatch.Dispatcher
	log  zerolog.Logger

	loopBlock  prof.Name
	drawBlock  prof.Name
	pixelBlock prof.Name

	frames uint64
}

// NewLoop requires the profiler registry to contain loop, draw and pixel.
func NewLoop(p *prof.Profiler, d *dispatch.Dispatcher, log zerolog.Logger) (*Loop, error) {
	l := &Loop{prof: p, disp: d, log: log}
	for name, dst := range map[string]*prof.Name{
		"loop":  &l.loopBlock,
		"draw":  &l.drawBlock,
		"pixel": &l.pixelBlock,
	} {
		n, ok := p.Registry().Lookup(name)
		if !ok {
			return nil, fmt.Errorf("frame: profiler has no %q block", name)
		}
		*dst = n
	}
	return l, nil
}

// Frames returns the number of completed frames.
func (l *Loop) Frames() uint64 { return l.frames }

// Profiler returns the profiler the loop records into.
func (l *Loop) Profiler() *prof.Profiler { return l.prof }

// Dispatcher returns the routine registry driven by the loop.
func (l *Loop) Dispatcher() *dispatch.Dispatcher { return l.disp }

// Report returns the report lines of the last completed frame.
func (l *Loop) Report() []string {
	return l.prof.Table("").Lines()
}

// Frame renders one frame into sink. Profiler errors indicate a defect in the
// loop itself; sink and routine errors abort only this frame. The loop block
// is closed and the frame rotated on every path so the next frame can start.
func (l *Loop) Frame(sink Sink) error {
	if err := l.prof.Start(l.loopBlock); err != nil {
		return err
	}
	frameErr := l.render(sink)
	if err := l.prof.End(l.loopBlock); err != nil {
		return err
	}
	if err := l.prof.FrameReset(); err != nil {
		return err
	}
	if frameErr != nil {
		l.log.Warn().Err(frameErr).Uint64("frame", l.frames+1).Msg("frame aborted")
		return frameErr
	}

	l.frames++
	if l.log.GetLevel() <= zerolog.DebugLevel {
		for _, line := range l.Report() {
			l.log.Debug().Uint64("frame", l.frames).Msg(line)
		}
	}
	return nil
}

// render holds the surface between Acquire and Release and times the draw.
// The surface is released whenever it was acquired.
func (l *Loop) render(sink Sink) error {
	s, err := sink.Acquire()
	if err != nil {
		return fmt.Errorf("frame: acquire surface: %w", err)
	}
	pixels := uint64(s.Width()) * uint64(s.Height())

	if err := l.prof.Start(l.drawBlock); err != nil {
		sink.Release()
		return err
	}
	drawErr := l.disp.Draw(s)
	endErr := l.prof.End(l.drawBlock)
	relErr := sink.Release()

	switch {
	case endErr != nil:
		return endErr
	case relErr != nil:
		return fmt.Errorf("frame: release surface: %w", relErr)
	case drawErr != nil:
		return drawErr
	}
	return l.prof.Derive(l.pixelBlock, l.drawBlock, pixels)
}

// Run renders n frames, sleeping delay between them, until n is reached or
// ctx is done.
func (l *Loop) Run(ctx context.Context, sink Sink, n int, delay time.Duration) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := l.Frame(sink); err != nil {
			return err
		}
		if delay > 0 && i+1 < n {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return nil
}
