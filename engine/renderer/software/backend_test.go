package software

import (
	"image"
	"image/color"
	_ "image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "golang.org/x/image/bmp"

	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/math"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

var (
	black = color.RGBA{A: 255}
	red   = color.RGBA{R: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
)

func newRenderer(t *testing.T, config Config) *SoftwareRenderer {
	t.Helper()
	config.ClearColor = color.NRGBA{A: 255}
	sr := New(config)
	require.NoError(t, sr.Initialize("test", 4, 4))
	return sr
}

func TestTextureCreateValidates(t *testing.T) {
	sr := newRenderer(t, Config{MaxTextures: 1})

	_, err := sr.TextureCreate(metadata.ChannelLayoutRGB, 2, 2, make([]uint8, 11), metadata.TextureFilterModeNearest)
	assert.ErrorIs(t, err, core.ErrPixelBufferSize)

	_, err = sr.TextureCreate(metadata.ChannelLayout(2), 1, 1, make([]uint8, 2), metadata.TextureFilterModeNearest)
	assert.ErrorIs(t, err, core.ErrUnsupportedPixelFormat)

	h, err := sr.TextureCreate(metadata.ChannelLayoutRGB, 1, 1, make([]uint8, 3), metadata.TextureFilterModeNearest)
	require.NoError(t, err)
	assert.NotZero(t, h)

	_, err = sr.TextureCreate(metadata.ChannelLayoutRGB, 1, 1, make([]uint8, 3), metadata.TextureFilterModeNearest)
	assert.ErrorIs(t, err, core.ErrTextureLimit)

	require.NoError(t, sr.TextureDestroy(h))
	assert.ErrorIs(t, sr.TextureDestroy(h), core.ErrTextureNotFound)
	assert.Equal(t, 0, sr.TextureCount())
}

func TestTextureCreateExpandsRGB(t *testing.T) {
	sr := newRenderer(t, Config{})
	h, err := sr.TextureCreate(metadata.ChannelLayoutRGB, 1, 1, []uint8{1, 2, 3}, metadata.TextureFilterModeLinear)
	require.NoError(t, err)

	tex, ok := sr.Texture(h)
	require.True(t, ok)
	assert.Equal(t, metadata.TextureFilterModeLinear, tex.Filter)
	assert.Equal(t, []uint8{1, 2, 3, 255}, tex.InternalData.(*image.NRGBA).Pix)
}

func TestDrawTexturedQuad(t *testing.T) {
	sr := newRenderer(t, Config{})
	h, err := sr.TextureCreate(metadata.ChannelLayoutRGB, 2, 2, []uint8{
		255, 0, 0, 255, 0, 0,
		255, 0, 0, 255, 0, 0,
	}, metadata.TextureFilterModeNearest)
	require.NoError(t, err)

	require.NoError(t, sr.BeginFrame(0))
	require.NoError(t, sr.DrawTexturedQuad(h, math.QuadTransform(1, 1, 2, 2, 0, math.NewVec2Zero()), math.NewVec4One()))
	require.NoError(t, sr.EndFrame(0))

	fb := sr.Frame()
	assert.Equal(t, red, fb.RGBAAt(1, 1))
	assert.Equal(t, red, fb.RGBAAt(2, 2))
	assert.Equal(t, black, fb.RGBAAt(0, 0))
	assert.Equal(t, black, fb.RGBAAt(3, 3))
	assert.Equal(t, uint64(1), sr.FrameNumber)

	// the next frame starts from the clear color
	require.NoError(t, sr.BeginFrame(0))
	assert.Equal(t, black, sr.Frame().RGBAAt(1, 1))
}

func TestDrawTexturedQuadTint(t *testing.T) {
	sr := newRenderer(t, Config{})
	h, err := sr.TextureCreate(metadata.ChannelLayoutRGBA, 1, 1, []uint8{255, 255, 255, 255}, metadata.TextureFilterModeNearest)
	require.NoError(t, err)

	require.NoError(t, sr.DrawTexturedQuad(h, math.QuadTransform(0, 0, 4, 4, 0, math.NewVec2Zero()), math.NewVec4(0, 0, 1, 1)))
	assert.Equal(t, blue, sr.Frame().RGBAAt(2, 2))
}

func TestDrawTexturedQuadRotated(t *testing.T) {
	sr := newRenderer(t, Config{})
	// left half red, right half green
	h, err := sr.TextureCreate(metadata.ChannelLayoutRGB, 2, 1, []uint8{255, 0, 0, 0, 255, 0}, metadata.TextureFilterModeNearest)
	require.NoError(t, err)

	pivot := math.RectRotationPoint(0, 0, 4, 4, math.AnchorCenter)
	require.NoError(t, sr.DrawTexturedQuad(h, math.QuadTransform(0, 0, 4, 4, 90, pivot), math.NewVec4One()))

	// a quarter turn with y pointing down moves the left half to the top
	fb := sr.Frame()
	assert.Equal(t, red, fb.RGBAAt(1, 0))
	assert.Equal(t, green, fb.RGBAAt(1, 3))
}

func TestDrawUnknownTexture(t *testing.T) {
	sr := newRenderer(t, Config{})
	err := sr.DrawTexturedQuad(42, math.QuadTransform(0, 0, 1, 1, 0, math.NewVec2Zero()), math.NewVec4One())
	assert.ErrorIs(t, err, core.ErrTextureNotFound)
}

func TestNotInitialized(t *testing.T) {
	sr := New(Config{})
	assert.Error(t, sr.BeginFrame(0))
	assert.Error(t, sr.Snapshot(filepath.Join(t.TempDir(), "frame.png")))
	assert.Error(t, sr.Initialize("test", 0, 10))
}

func TestResized(t *testing.T) {
	sr := newRenderer(t, Config{})
	require.NoError(t, sr.Resized(8, 2))
	assert.Equal(t, image.Rect(0, 0, 8, 2), sr.Frame().Bounds())

	require.NoError(t, sr.Resized(0, 0))
	assert.Equal(t, image.Rect(0, 0, 8, 2), sr.Frame().Bounds())
}

func TestSnapshot(t *testing.T) {
	sr := newRenderer(t, Config{})
	dir := t.TempDir()

	for _, name := range []string{"frame.png", "frame.bmp"} {
		path := filepath.Join(dir, name)
		require.NoError(t, sr.Snapshot(path))

		f, err := os.Open(path)
		require.NoError(t, err)
		img, _, err := image.Decode(f)
		f.Close()
		require.NoError(t, err, name)
		assert.Equal(t, image.Rect(0, 0, 4, 4), img.Bounds())
	}
}
