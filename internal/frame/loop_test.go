package frame

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soft-render/internal/dispatch"
	"soft-render/internal/prof"
	"soft-render/internal/raster"
	"soft-render/internal/raytrace"
	"soft-render/internal/routine"
)

func newTestLoop(t *testing.T) *Loop {
	t.Helper()
	clk := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := prof.New(prof.DefaultRegistry(), prof.WithClock(func() time.Time {
		clk = clk.Add(time.Millisecond)
		return clk
	}))
	d := dispatch.New(zerolog.Nop())
	require.NoError(t, routine.RegisterAll(d, raytrace.DefaultScene()))
	l, err := NewLoop(p, d, zerolog.Nop())
	require.NoError(t, err)
	return l
}

func TestFrameProfilesAndDraws(t *testing.T) {
	l := newTestLoop(t)
	sink := NewBufferSink(32, 32)

	require.NoError(t, l.Frame(sink))
	require.NoError(t, l.Frame(sink))
	assert.Equal(t, uint64(2), l.Frames())
	assert.False(t, sink.FrameBuffer().Locked())

	p := l.Profiler()
	loop, err := p.Block(prof.Loop)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), loop.CountLastFrame)
	assert.Equal(t, uint32(2), loop.CountTotal)
	assert.Zero(t, loop.CountCurrentFrame)
	assert.Greater(t, loop.ClockLastFrame, 0.0)

	draw, err := p.Block(prof.Draw)
	require.NoError(t, err)
	assert.InDelta(t, 0.001, draw.ClockLastFrame, 1e-9)

	pixel, err := p.Block(prof.Pixel)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), pixel.CountTotal)
	assert.InDelta(t, 0.001/1024, pixel.ClockLastFrame, 1e-12)

	assert.Len(t, l.Report(), 3)
}

func TestFrameFillsSurface(t *testing.T) {
	l := newTestLoop(t)
	require.NoError(t, l.Dispatcher().Select(routine.NameGrid))
	sink := NewBufferSink(100, 10)
	require.NoError(t, l.Frame(sink))

	img := sink.FrameBuffer().Image()
	assert.Equal(t, uint8(128), img.RGBAAt(99, 5).R)
	assert.Equal(t, uint8(5), img.RGBAAt(99, 5).G)
}

type failingSink struct {
	*BufferSink
	acquireErr error
}

func (f *failingSink) Acquire() (*raster.Surface, error) {
	if f.acquireErr != nil {
		return nil, f.acquireErr
	}
	return f.BufferSink.Acquire()
}

func TestFrameAcquireFailure(t *testing.T) {
	l := newTestLoop(t)
	boom := errors.New("lock failed")
	err := l.Frame(&failingSink{BufferSink: NewBufferSink(4, 4), acquireErr: boom})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, l.Frames())
}

func TestFrameRecoversAfterAbort(t *testing.T) {
	l := newTestLoop(t)
	boom := errors.New("lock failed")
	require.ErrorIs(t, l.Frame(&failingSink{BufferSink: NewBufferSink(4, 4), acquireErr: boom}), boom)

	loop, err := l.Profiler().Block(prof.Loop)
	require.NoError(t, err)
	assert.False(t, loop.Active)
	assert.Greater(t, loop.ClockTotal, 0.0)

	require.NoError(t, l.Frame(NewBufferSink(4, 4)))
	assert.Equal(t, uint64(1), l.Frames())

	loop, err = l.Profiler().Block(prof.Loop)
	require.NoError(t, err)
	assert.False(t, loop.Active)
	assert.Equal(t, uint32(1), loop.CountLastFrame)
	assert.Equal(t, uint32(2), loop.CountTotal)
	for _, b := range l.Profiler().Blocks() {
		assert.False(t, b.Active, b.Name)
	}
}

type failingReleaseSink struct {
	*BufferSink
	releaseErr error
}

func (f *failingReleaseSink) Release() error {
	if err := f.BufferSink.Release(); err != nil {
		return err
	}
	return f.releaseErr
}

func TestFrameReleaseFailureKeepsLoopUsable(t *testing.T) {
	l := newTestLoop(t)
	boom := errors.New("unlock failed")
	sink := &failingReleaseSink{BufferSink: NewBufferSink(4, 4), releaseErr: boom}
	require.ErrorIs(t, l.Frame(sink), boom)
	assert.False(t, sink.FrameBuffer().Locked())

	sink.releaseErr = nil
	require.NoError(t, l.Frame(sink))
	draw, err := l.Profiler().Block(prof.Draw)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), draw.CountTotal)
	assert.False(t, draw.Active)
}

func TestFrameDrawFailureReleasesSurface(t *testing.T) {
	l := newTestLoop(t)
	boom := errors.New("routine failed")
	require.NoError(t, l.Dispatcher().Register("bad", dispatch.RoutineFunc(func(*raster.Surface) error { return boom })))
	require.NoError(t, l.Dispatcher().Select("bad"))

	sink := NewBufferSink(4, 4)
	assert.ErrorIs(t, l.Frame(sink), boom)
	assert.False(t, sink.FrameBuffer().Locked())

	require.NoError(t, l.Dispatcher().Select(routine.NameGrid))
	require.NoError(t, l.Frame(sink))
	assert.Equal(t, uint64(1), l.Frames())
}

func TestNewLoopNeedsBlocks(t *testing.T) {
	reg, err := prof.NewRegistry("loop", "draw")
	require.NoError(t, err)
	_, err = NewLoop(prof.New(reg), dispatch.New(zerolog.Nop()), zerolog.Nop())
	assert.Error(t, err)
}

func TestRunStopsOnCancel(t *testing.T) {
	l := newTestLoop(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, l.Run(ctx, NewBufferSink(4, 4), 5, 0), context.Canceled)

	require.NoError(t, l.Run(context.Background(), NewBufferSink(4, 4), 3, 0))
	assert.Equal(t, uint64(3), l.Frames())
}

func TestBufferSinkResize(t *testing.T) {
	sink := NewBufferSink(4, 4)
	changed, err := sink.Resize(4, 4)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = sink.Acquire()
	require.NoError(t, err)
	_, err = sink.Resize(8, 8)
	assert.ErrorIs(t, err, raster.ErrLocked)
	require.NoError(t, sink.Release())

	changed, err = sink.Resize(8, 6)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 8, sink.FrameBuffer().Width)
	assert.Equal(t, 6, sink.FrameBuffer().Height)
}
