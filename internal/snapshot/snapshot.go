// Package snapshot captures rendered frames to image files.
package snapshot

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"
)

// Options controls the captured image. Zero Width/Height keep the frame size.
type Options struct {
	Width  int
	Height int
}

// Format is an output encoding.
type Format string

const (
	WebP Format = "webp"
	TGA  Format = "tga"
	PNG  Format = "png"
)

// FormatFor picks the encoding from the file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		return WebP, nil
	case ".tga":
		return TGA, nil
	case ".png":
		return PNG, nil
	default:
		return "", fmt.Errorf("snapshot: unsupported extension %q", filepath.Ext(path))
	}
}

// Resize scales img to w×h with Catmull-Rom filtering. A zero dimension keeps
// the aspect ratio of the other; both zero returns img unchanged.
func Resize(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	if w <= 0 && h <= 0 || b.Dx() == 0 || b.Dy() == 0 {
		return img
	}
	if w <= 0 {
		w = b.Dx() * h / b.Dy()
	}
	if h <= 0 {
		h = b.Dy() * w / b.Dx()
	}
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Encode writes img to w in format f.
func Encode(w io.Writer, f Format, img image.Image, opts Options) error {
	img = Resize(img, opts.Width, opts.Height)
	switch f {
	case WebP:
		return nativewebp.Encode(w, img, nil)
	case TGA:
		return tga.Encode(w, img)
	case PNG:
		return png.Encode(w, img)
	default:
		return fmt.Errorf("snapshot: unsupported format %q", f)
	}
}

// Save encodes img to path, choosing the format from the extension.
func Save(path string, img image.Image, opts Options) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := Encode(out, f, img, opts); err != nil {
		out.Close()
		return fmt.Errorf("snapshot: encode %s: %w", path, err)
	}
	return out.Close()
}
