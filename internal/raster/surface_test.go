package raster

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSurfaceValidation(t *testing.T) {
	_, err := NewSurface(4, 2, 11, make([]byte, 24))
	require.Error(t, err, "stride below width*3")

	_, err = NewSurface(4, 2, 16, make([]byte, 20))
	require.Error(t, err, "buffer too short")

	s, err := NewSurface(4, 2, 16, make([]byte, 28))
	require.NoError(t, err, "last row needs no padding")
	assert.Equal(t, 4, s.Width())
	assert.Equal(t, 2, s.Height())
	assert.Equal(t, 16, s.Stride())
}

func TestSetPixelUsesStride(t *testing.T) {
	buf := make([]byte, 2*16)
	s, err := NewSurface(4, 2, 16, buf)
	require.NoError(t, err)

	require.NoError(t, s.SetPixel(1, 1, Color{10, 20, 30}))
	assert.Equal(t, []byte{10, 20, 30}, buf[16+3:16+6])

	c, err := s.Pixel(1, 1)
	require.NoError(t, err)
	assert.Equal(t, Color{10, 20, 30}, c)
}

func TestSetPixelOutOfBounds(t *testing.T) {
	s, err := NewSurface(2, 2, 6, make([]byte, 12))
	require.NoError(t, err)

	for _, p := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		err := s.SetPixel(p[0], p[1], Color{1, 1, 1})
		assert.ErrorIs(t, err, ErrOutOfBounds, "point %v", p)
	}
}

func TestReleaseBlocksWrites(t *testing.T) {
	s, err := NewSurface(1, 1, 3, make([]byte, 3))
	require.NoError(t, err)
	s.Release()

	assert.False(t, s.Valid())
	assert.ErrorIs(t, s.SetPixel(0, 0, Color{}), ErrReleased)
	assert.ErrorIs(t, s.Fill(Black), ErrReleased)
}

func TestSurfaceDrawImage(t *testing.T) {
	s, err := NewSurface(2, 1, 6, make([]byte, 6))
	require.NoError(t, err)

	s.Set(1, 0, color.RGBA{R: 1, G: 2, B: 3, A: 0xFF})
	s.Set(5, 5, color.White)
	assert.Equal(t, color.RGBA{R: 1, G: 2, B: 3, A: 0xFF}, s.At(1, 0))
	assert.Equal(t, color.RGBA{A: 0xFF}, s.At(9, 9))
}

func TestFillAndCopyTo(t *testing.T) {
	s, err := NewSurface(3, 2, 12, make([]byte, 24))
	require.NoError(t, err)
	require.NoError(t, s.Fill(Color{7, 8, 9}))

	img, err := s.CopyTo(nil)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, color.RGBA{7, 8, 9, 0xFF}, img.RGBAAt(2, 1))
}

func TestFrameBufferLockCycle(t *testing.T) {
	fb := NewFrameBuffer(5, 3)
	assert.Equal(t, 16, fb.Stride)
	assert.Len(t, fb.Pix, 48)

	s, err := fb.Lock()
	require.NoError(t, err)
	_, err = fb.Lock()
	assert.ErrorIs(t, err, ErrLocked)

	require.NoError(t, s.SetPixel(4, 2, Color{255, 0, 0}))
	require.NoError(t, fb.Unlock())
	assert.ErrorIs(t, s.SetPixel(0, 0, Color{}), ErrReleased)
	assert.ErrorIs(t, fb.Unlock(), ErrUnlocked)

	img := fb.Image()
	assert.Equal(t, color.RGBA{255, 0, 0, 0xFF}, img.RGBAAt(4, 2))
}
