package raytrace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soft-render/internal/mathutil"
	"soft-render/internal/raster"
)

func TestNewSceneRejectsBadRadius(t *testing.T) {
	_, err := NewScene(Sphere{Center: mathutil.V3(0, 0, 3), Radius: 0})
	require.Error(t, err)

	sc, err := NewScene(Sphere{Center: mathutil.V3(0, 0, 3), Radius: 1, Color: red})
	require.NoError(t, err)
	assert.Len(t, sc.Spheres, 1)
}

func TestDefaultSceneCenterPixelIsRed(t *testing.T) {
	fb := raster.NewFrameBuffer(256, 256)
	s, err := fb.Lock()
	require.NoError(t, err)

	require.NoError(t, DefaultScene().Draw(s))

	c, err := s.Pixel(128, 128)
	require.NoError(t, err)
	assert.Equal(t, red, c)

	// Below center the red sphere fills the view.
	c, err = s.Pixel(128, 200)
	require.NoError(t, err)
	assert.Equal(t, red, c)

	// Top-left corner sees nothing.
	c, err = s.Pixel(0, 0)
	require.NoError(t, err)
	assert.Equal(t, raster.Black, c)

	require.NoError(t, fb.Unlock())
}

func TestDefaultSceneSideSpheres(t *testing.T) {
	fb := raster.NewFrameBuffer(256, 256)
	s, err := fb.Lock()
	require.NoError(t, err)
	require.NoError(t, DefaultScene().Draw(s))

	// (2,0,4) projects to x = 0.5 on the viewport: the right edge at row 128.
	c, err := s.Pixel(250, 128)
	require.NoError(t, err)
	assert.Equal(t, blue, c)

	c, err = s.Pixel(6, 128)
	require.NoError(t, err)
	assert.Equal(t, green, c)
}

func TestDrawFailsOnReleasedSurface(t *testing.T) {
	fb := raster.NewFrameBuffer(4, 4)
	s, err := fb.Lock()
	require.NoError(t, err)
	require.NoError(t, fb.Unlock())

	assert.ErrorIs(t, DefaultScene().Draw(s), raster.ErrReleased)
}
