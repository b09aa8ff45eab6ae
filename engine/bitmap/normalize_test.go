package bitmap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

func syntheticPixels(n int) []uint8 {
	p := make([]uint8, n)
	for i := range p {
		p[i] = uint8(i*37 + 11)
	}
	return p
}

func TestNormalizeSwapsRedAndBlue(t *testing.T) {
	// 2x1 RGBA stored as B,G,R,A
	pixels := []uint8{10, 20, 30, 40, 50, 60, 70, 80}
	format := metadata.PixelFormat{BytesPerPixel: 4, BitsPerPixel: 32, Rmask: 0xFF0000, Gmask: 0xFF00, Bmask: 0xFF, Amask: 0xFF000000}

	layout, warning := Normalize(NewPixelView(pixels, 4), format)

	assert.Nil(t, warning)
	assert.Equal(t, metadata.ChannelLayoutRGBA, layout)
	assert.Equal(t, []uint8{30, 20, 10, 40, 70, 60, 50, 80}, pixels)
}

func TestNormalizeCanonicalInputUnchanged(t *testing.T) {
	for _, format := range []metadata.PixelFormat{metadata.PixelFormatRGB24, metadata.PixelFormatRGBA32} {
		n := 16 * 9 * int(format.BytesPerPixel)
		pixels := syntheticPixels(n)
		original := append([]uint8(nil), pixels...)

		Normalize(NewPixelView(pixels, int(format.BytesPerPixel)), format)

		assert.Equal(t, original, pixels, "bytes per pixel %d", format.BytesPerPixel)
	}
}

func TestNormalizeReversedFormats(t *testing.T) {
	tests := []struct {
		name   string
		format metadata.PixelFormat
		// position of R, G, B, A in the source pixel
		order []int
	}{
		{"BGR24", metadata.PixelFormatBGR24, []int{2, 1, 0}},
		{"BGRA32", metadata.PixelFormatBGRA32, []int{2, 1, 0, 3}},
		{"ABGR32", metadata.PixelFormatABGR32, []int{3, 2, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stride := int(tt.format.BytesPerPixel)
			pixels := syntheticPixels(7 * 5 * stride)
			source := append([]uint8(nil), pixels...)

			Normalize(NewPixelView(pixels, stride), tt.format)

			view := NewPixelView(pixels, stride)
			src := NewPixelView(source, stride)
			for i := 0; i < view.Len(); i++ {
				for channel, at := range tt.order {
					assert.Equal(t, src.Pixel(i)[at], view.Pixel(i)[channel], "pixel %d channel %d", i, channel)
				}
			}
		})
	}
}

func TestNormalizeGreenSwap(t *testing.T) {
	// Red in the upper half with green in the third byte: R,B,G
	format := metadata.PixelFormat{BytesPerPixel: 3, BitsPerPixel: 24, Rmask: 0x0000FF, Gmask: 0xFF0000, Bmask: 0x00FF00}
	pixels := []uint8{1, 2, 3}
	Normalize(NewPixelView(pixels, 3), format)
	assert.Equal(t, []uint8{1, 2, 3}, pixels, "no swap unless red sits in an upper byte")

	format = metadata.PixelFormat{BytesPerPixel: 4, BitsPerPixel: 32, Rmask: 0xFF000000, Gmask: 0xFF0000, Bmask: 0xFF, Amask: 0xFF00}
	pixels = []uint8{1, 2, 3, 4}
	Normalize(NewPixelView(pixels, 4), format)
	assert.Equal(t, []uint8{1, 3, 2, 4}, pixels)
}

func TestNormalizeLayout(t *testing.T) {
	layout, _ := Normalize(NewPixelView(make([]uint8, 12), 4), metadata.PixelFormat{BytesPerPixel: 4, BitsPerPixel: 32})
	assert.Equal(t, metadata.ChannelLayoutRGBA, layout)

	// Masks do not matter: three bytes is always RGB.
	layout, _ = Normalize(NewPixelView(make([]uint8, 12), 3), metadata.PixelFormat{BytesPerPixel: 3, BitsPerPixel: 24, Amask: 0xFF000000})
	assert.Equal(t, metadata.ChannelLayoutRGB, layout)
}

func TestNormalizeWarningThreshold(t *testing.T) {
	_, warning := Normalize(NewPixelView(make([]uint8, 6), 3), metadata.PixelFormat{BytesPerPixel: 3, BitsPerPixel: 15})
	if assert.NotNil(t, warning) {
		assert.Equal(t, 5, warning.BitsPerChannel)
	}

	_, warning = Normalize(NewPixelView(make([]uint8, 6), 3), metadata.PixelFormatRGB24)
	assert.Nil(t, warning)

	_, warning = Normalize(NewPixelView(make([]uint8, 8), 4), metadata.PixelFormatRGBA32)
	assert.Nil(t, warning)
}

func TestBitsPerChannel(t *testing.T) {
	assert.Equal(t, 8, BitsPerChannel(metadata.PixelFormatRGBA32))
	assert.Equal(t, 8, BitsPerChannel(metadata.PixelFormatRGB24))
	assert.Equal(t, 4, BitsPerChannel(metadata.PixelFormat{BitsPerPixel: 16, Amask: 0x8000}))
}

func TestPixelView(t *testing.T) {
	v := NewPixelView([]uint8{1, 2, 3, 4, 5, 6, 7}, 3)
	assert.Equal(t, 2, v.Len())
	assert.Equal(t, []uint8{4, 5, 6}, v.Pixel(1))

	v.Swap(1, 0, 2)
	assert.Equal(t, []uint8{1, 2, 3, 6, 5, 4, 7}, v.Bytes())

	assert.Equal(t, 0, NewPixelView(nil, 0).Len())
}
