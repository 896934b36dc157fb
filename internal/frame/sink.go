package frame

import "soft-render/internal/raster"

// BufferSink presents into an owned FrameBuffer. Headless runs and the
// window frontend both draw through it.
type BufferSink struct {
	fb *raster.FrameBuffer
}

// NewBufferSink allocates a w×h buffer.
func NewBufferSink(w, h int) *BufferSink {
	return &BufferSink{fb: raster.NewFrameBuffer(w, h)}
}

// Resize reallocates the buffer when the size changed and reports whether it
// did. Resizing a locked buffer is refused.
func (b *BufferSink) Resize(w, h int) (bool, error) {
	if b.fb.Width == w && b.fb.Height == h {
		return false, nil
	}
	if b.fb.Locked() {
		return false, raster.ErrLocked
	}
	b.fb = raster.NewFrameBuffer(w, h)
	return true, nil
}

func (b *BufferSink) Acquire() (*raster.Surface, error) { return b.fb.Lock() }

func (b *BufferSink) Release() error { return b.fb.Unlock() }

// FrameBuffer exposes the presented pixels.
func (b *BufferSink) FrameBuffer() *raster.FrameBuffer { return b.fb }
