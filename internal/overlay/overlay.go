// Package overlay draws profiler report lines on top of a rendered frame.
package overlay

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Style of the text block.
type Style struct {
	Text       color.Color
	Background color.Color // drawn with Over; nil skips the backdrop
	Margin     int
}

// DefaultStyle is white text on a translucent black backdrop.
var DefaultStyle = Style{
	Text:       color.White,
	Background: color.NRGBA{A: 0xA0},
	Margin:     4,
}

var face = basicfont.Face7x13

// Bounds returns the rectangle lines occupy when drawn at the top-left corner.
func Bounds(lines []string, st Style) image.Rectangle {
	if len(lines) == 0 {
		return image.Rectangle{}
	}
	d := font.Drawer{Face: face}
	w := 0
	for _, l := range lines {
		if adv := d.MeasureString(l).Ceil(); adv > w {
			w = adv
		}
	}
	h := len(lines) * face.Metrics().Height.Ceil()
	return image.Rect(0, 0, w+2*st.Margin, h+2*st.Margin)
}

// Draw renders lines into the top-left corner of dst.
func Draw(dst draw.Image, lines []string, st Style) {
	if len(lines) == 0 {
		return
	}
	box := Bounds(lines, st).Add(dst.Bounds().Min).Intersect(dst.Bounds())
	if st.Background != nil {
		draw.Draw(dst, box, image.NewUniform(st.Background), image.Point{}, draw.Over)
	}

	lineH := face.Metrics().Height.Ceil()
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(st.Text),
		Face: face,
	}
	for i, l := range lines {
		x := dst.Bounds().Min.X + st.Margin
		y := dst.Bounds().Min.Y + st.Margin + face.Metrics().Ascent.Ceil() + i*lineH
		d.Dot = fixed.P(x, y)
		d.DrawString(l)
	}
}
