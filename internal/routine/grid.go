package routine

import "soft-render/internal/raster"

// GridTile is the period of the green and blue ramps.
const GridTile = 64

// Grid draws 64-pixel blue/green ramps, with red added right of center.
func Grid(s *raster.Surface) error {
	w, h := s.Width(), s.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := raster.Color{G: uint8(y % GridTile), B: uint8(x % GridTile)}
			if x > w/2 {
				c.R = 128
			}
			if err := s.SetPixel(x, y, c); err != nil {
				return err
			}
		}
	}
	return nil
}
