package bitmap

import (
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

// PixelView indexes a packed pixel buffer by pixel instead of by byte.
type PixelView struct {
	data   []uint8
	stride int
}

// NewPixelView wraps data whose pixels are stride bytes wide.
func NewPixelView(data []uint8, stride int) PixelView {
	return PixelView{data: data, stride: stride}
}

// Len returns the number of whole pixels in the view.
func (v PixelView) Len() int {
	if v.stride <= 0 {
		return 0
	}
	return len(v.data) / v.stride
}

// Stride returns the number of bytes per pixel.
func (v PixelView) Stride() int {
	return v.stride
}

// Pixel returns the channel bytes of pixel i. Writes go to the underlying buffer.
func (v PixelView) Pixel(i int) []uint8 {
	o := i * v.stride
	return v.data[o : o+v.stride : o+v.stride]
}

// Swap exchanges channels a and b of pixel i.
func (v PixelView) Swap(i, a, b int) {
	p := v.Pixel(i)
	p[a], p[b] = p[b], p[a]
}

// Bytes returns the underlying buffer.
func (v PixelView) Bytes() []uint8 {
	return v.data
}

// channelSwaps says which byte exchanges turn a pixel of some source
// format into canonical red, green, blue, alpha order.
type channelSwaps struct {
	alpha bool
	green bool
	red   bool
}

func (s channelSwaps) any() bool {
	return s.alpha || s.green || s.red
}

func swapsFor(format metadata.PixelFormat) channelSwaps {
	r, g, a := format.Rmask, format.Gmask, format.Amask
	// Red stored in one of the upper bytes means the channels are reversed.
	if r&0xFF000000 == 0 && r&0x00FF0000 == 0 {
		return channelSwaps{}
	}
	return channelSwaps{
		alpha: format.BytesPerPixel == 4 && a&0x000000FF != 0,
		green: g&0x00FF0000 != 0,
		red:   r&0x00FF0000 != 0,
	}
}

// BitsPerChannel returns the color depth of a single channel of format.
func BitsPerChannel(format metadata.PixelFormat) int {
	channels := 3
	if format.Amask != 0 {
		channels = 4
	}
	return int(format.BitsPerPixel) / channels
}

// Normalize rewrites the pixels of view in place into canonical channel
// order and returns the layout the buffer has afterwards. The stride of
// view must equal format.BytesPerPixel, which must be 3 or 4; the result
// is undefined otherwise. A non-nil warning reports a color depth below
// 8 bits per channel and does not stop the caller.
func Normalize(view PixelView, format metadata.PixelFormat) (metadata.ChannelLayout, *FormatWarning) {
	layout := metadata.ChannelLayoutRGB
	if format.BytesPerPixel == 4 {
		layout = metadata.ChannelLayoutRGBA
	}

	var warning *FormatWarning
	if bits := BitsPerChannel(format); bits < 8 {
		warning = &FormatWarning{BitsPerChannel: bits}
	}

	swaps := swapsFor(format)
	if !swaps.any() {
		return layout, warning
	}

	for i := 0; i < view.Len(); i++ {
		if swaps.alpha {
			view.Swap(i, 0, 3)
		}
		if swaps.green {
			view.Swap(i, 1, 2)
		}
		if swaps.red {
			view.Swap(i, 0, 2)
		}
	}

	return layout, warning
}
