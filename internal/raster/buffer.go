package raster

import (
	"errors"
	"image"
)

var (
	ErrLocked   = errors.New("raster: frame buffer already locked")
	ErrUnlocked = errors.New("raster: frame buffer not locked")
)

// rowAlign pads rows the way streaming textures usually do.
const rowAlign = 4

// FrameBuffer owns an RGB24 pixel store with padded rows. Pixels are written
// through the Surface handed out by Lock, which is invalidated by Unlock.
type FrameBuffer struct {
	Width  int
	Height int
	Stride int
	Pix    []uint8 // RGB interleaved, len = Stride*Height

	surface *Surface
}

// NewFrameBuffer allocates a zeroed (black) buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	stride := (w*BytesPerPixel + rowAlign - 1) / rowAlign * rowAlign
	return &FrameBuffer{
		Width:  w,
		Height: h,
		Stride: stride,
		Pix:    make([]uint8, stride*h),
	}
}

// Lock hands out a writable view over the pixels.
func (fb *FrameBuffer) Lock() (*Surface, error) {
	if fb.surface != nil {
		return nil, ErrLocked
	}
	s, err := NewSurface(fb.Width, fb.Height, fb.Stride, fb.Pix)
	if err != nil {
		return nil, err
	}
	fb.surface = s
	return s, nil
}

// Unlock releases the view returned by Lock; no writes are allowed after it.
func (fb *FrameBuffer) Unlock() error {
	if fb.surface == nil {
		return ErrUnlocked
	}
	fb.surface.Release()
	fb.surface = nil
	return nil
}

// Locked reports whether a Surface is outstanding.
func (fb *FrameBuffer) Locked() bool { return fb.surface != nil }

// Image converts the current contents to a new opaque RGBA image.
func (fb *FrameBuffer) Image() *image.RGBA {
	return fb.CopyTo(nil)
}

// CopyTo converts the current contents into dst, reallocating it when the
// size differs.
func (fb *FrameBuffer) CopyTo(dst *image.RGBA) *image.RGBA {
	view, _ := NewSurface(fb.Width, fb.Height, fb.Stride, fb.Pix)
	img, _ := view.CopyTo(dst)
	return img
}
