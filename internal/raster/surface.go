package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// BytesPerPixel is the size of one RGB24 pixel.
const BytesPerPixel = 3

var (
	ErrOutOfBounds = errors.New("raster: pixel out of bounds")
	ErrReleased    = errors.New("raster: surface released")
)

// Color is a 24-bit RGB pixel value.
type Color struct {
	R, G, B uint8
}

// Black is the background color of every draw routine.
var Black = Color{}

// RGBA converts c to an opaque color.RGBA.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
}

// Surface is a non-owning view over a rectangular RGB24 buffer whose rows are
// stride bytes apart. The buffer belongs to whoever created the view; once
// Release is called every write fails with ErrReleased.
//
// Surface satisfies draw.Image so text and image helpers can render into it.
type Surface struct {
	width  int
	height int
	stride int
	buf    []byte
}

// NewSurface wraps buf. It requires stride >= width*3 and a buffer large
// enough to hold height rows.
func NewSurface(width, height, stride int, buf []byte) (*Surface, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("raster: negative size %dx%d", width, height)
	}
	if stride < width*BytesPerPixel {
		return nil, fmt.Errorf("raster: stride %d < row size %d", stride, width*BytesPerPixel)
	}
	if height > 0 {
		need := (height-1)*stride + width*BytesPerPixel
		if len(buf) < need {
			return nil, fmt.Errorf("raster: buffer holds %d bytes, need %d", len(buf), need)
		}
	}
	return &Surface{width: width, height: height, stride: stride, buf: buf}, nil
}

func (s *Surface) Width() int  { return s.width }
func (s *Surface) Height() int { return s.height }
func (s *Surface) Stride() int { return s.stride }

// Valid reports whether the surface may still be written.
func (s *Surface) Valid() bool { return s.buf != nil }

// Release detaches the view from its buffer.
func (s *Surface) Release() { s.buf = nil }

func (s *Surface) offset(x, y int) (int, error) {
	if s.buf == nil {
		return 0, ErrReleased
	}
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return 0, fmt.Errorf("%w: (%d,%d) on %dx%d", ErrOutOfBounds, x, y, s.width, s.height)
	}
	return y*s.stride + x*BytesPerPixel, nil
}

// SetPixel writes c at (x, y) as R, G, B bytes.
func (s *Surface) SetPixel(x, y int, c Color) error {
	i, err := s.offset(x, y)
	if err != nil {
		return err
	}
	s.buf[i] = c.R
	s.buf[i+1] = c.G
	s.buf[i+2] = c.B
	return nil
}

// Pixel reads the color at (x, y).
func (s *Surface) Pixel(x, y int) (Color, error) {
	i, err := s.offset(x, y)
	if err != nil {
		return Color{}, err
	}
	return Color{s.buf[i], s.buf[i+1], s.buf[i+2]}, nil
}

// Fill sets every pixel to c.
func (s *Surface) Fill(c Color) error {
	if s.buf == nil {
		return ErrReleased
	}
	for y := 0; y < s.height; y++ {
		row := s.buf[y*s.stride : y*s.stride+s.width*BytesPerPixel]
		for i := 0; i < len(row); i += BytesPerPixel {
			row[i], row[i+1], row[i+2] = c.R, c.G, c.B
		}
	}
	return nil
}

func (s *Surface) ColorModel() color.Model { return color.RGBAModel }

func (s *Surface) Bounds() image.Rectangle { return image.Rect(0, 0, s.width, s.height) }

// At returns opaque black for pixels outside the surface or after release.
func (s *Surface) At(x, y int) color.Color {
	c, err := s.Pixel(x, y)
	if err != nil {
		return color.RGBA{A: 0xFF}
	}
	return c.RGBA()
}

// Set drops writes outside the surface, as image.RGBA does.
func (s *Surface) Set(x, y int, c color.Color) {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	_ = s.SetPixel(x, y, Color{rgba.R, rgba.G, rgba.B})
}

// CopyTo expands the surface into dst as opaque RGBA, reallocating dst when
// its size differs. Returns the image written.
func (s *Surface) CopyTo(dst *image.RGBA) (*image.RGBA, error) {
	if s.buf == nil {
		return dst, ErrReleased
	}
	if dst == nil || dst.Rect.Dx() != s.width || dst.Rect.Dy() != s.height {
		dst = image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	}
	for y := 0; y < s.height; y++ {
		src := s.buf[y*s.stride:]
		out := dst.Pix[y*dst.Stride:]
		for x := 0; x < s.width; x++ {
			si, di := x*BytesPerPixel, x*4
			out[di] = src[si]
			out[di+1] = src[si+1]
			out[di+2] = src[si+2]
			out[di+3] = 0xFF
		}
	}
	return dst, nil
}
