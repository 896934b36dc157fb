package routine

import (
	"fmt"
	"image"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"

	"soft-render/internal/raster"
)

// Shapes draws a red square in the left half and a blue circle in the right
// half on white. The composite is rasterized once per surface size.
type Shapes struct {
	cache *image.RGBA
}

// Draw blits the cached composite, re-rendering it when the size changed.
func (sh *Shapes) Draw(s *raster.Surface) error {
	w, h := s.Width(), s.Height()
	if w == 0 || h == 0 {
		return nil
	}
	if sh.cache == nil || sh.cache.Rect.Dx() != w || sh.cache.Rect.Dy() != h {
		img, err := renderShapes(w, h)
		if err != nil {
			return err
		}
		sh.cache = img
	}

	pix, stride := sh.cache.Pix, sh.cache.Stride
	for y := 0; y < h; y++ {
		off := y * stride
		for x := 0; x < w; x++ {
			i := off + x*4
			if err := s.SetPixel(x, y, raster.Color{R: pix[i], G: pix[i+1], B: pix[i+2]}); err != nil {
				return err
			}
		}
	}
	return nil
}

func renderShapes(w, h int) (*image.RGBA, error) {
	dc := gg.NewContext(w, h)
	defer dc.Close()

	fw, fh := float64(w), float64(h)
	side := min(fw, fh) / 3

	dc.ClearWithColor(gg.White)

	dc.SetRGB(1, 0, 0)
	dc.DrawRectangle(fw/4-side/2, fh/2-side/2, side, side)
	if err := dc.Fill(); err != nil {
		return nil, fmt.Errorf("routine: shapes square: %w", err)
	}

	dc.SetRGB(0, 0, 1)
	dc.DrawCircle(3*fw/4, fh/2, side/2)
	if err := dc.Fill(); err != nil {
		return nil, fmt.Errorf("routine: shapes circle: %w", err)
	}

	if err := dc.FlushGPU(); err != nil {
		return nil, fmt.Errorf("routine: shapes flush: %w", err)
	}
	src := dc.Image()
	if rgba, ok := src.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst, nil
}
