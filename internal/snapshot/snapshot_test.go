package snapshot

import (
	"bytes"
	"image"
	"image/color"
	_ "image/png"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/ftrvxmtrx/tga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 60), B: 10, A: 0xFF})
		}
	}
	return img
}

func TestFormatFor(t *testing.T) {
	tests := map[string]Format{
		"a.webp":    WebP,
		"dir/B.TGA": TGA,
		"c.png":     PNG,
	}
	for path, want := range tests {
		got, err := FormatFor(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
	_, err := FormatFor("frame.bmp")
	assert.Error(t, err)
}

func TestResize(t *testing.T) {
	img := testImage()
	assert.Same(t, img, Resize(img, 0, 0))
	assert.Same(t, img, Resize(img, 8, 4))

	out := Resize(img, 4, 0)
	assert.Equal(t, image.Rect(0, 0, 4, 2), out.Bounds())

	out = Resize(img, 0, 8)
	assert.Equal(t, image.Rect(0, 0, 16, 8), out.Bounds())
}

func TestSaveDecodable(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"frame.png", "frame.tga"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, "out", name)
			require.NoError(t, Save(path, testImage(), Options{}))

			f, err := os.Open(path)
			require.NoError(t, err)
			defer f.Close()

			img, _, err := image.Decode(f)
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 8, 4), img.Bounds())
			r, g, _, _ := img.At(3, 2).RGBA()
			assert.Equal(t, uint32(90), r>>8)
			assert.Equal(t, uint32(120), g>>8)
		})
	}
}

func TestEncodeWebP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, WebP, testImage(), Options{Width: 4}))
	raw := buf.Bytes()
	require.Greater(t, len(raw), 12)
	assert.Equal(t, "RIFF", string(raw[:4]))
	assert.Equal(t, "WEBP", string(raw[8:12]))
}

func TestSaveRejectsUnknownExtension(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "x.gif"), testImage(), Options{})
	assert.Error(t, err)
}
