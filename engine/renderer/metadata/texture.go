package metadata

import "fmt"

/** @brief Opaque identifier of a texture living in GPU memory. */
type TextureHandle uint32

/**
 * @brief The in-memory order of color channels of a canonical pixel buffer.
 * Canonical buffers are always red, green, blue and, for RGBA, alpha.
 */
type ChannelLayout uint8

const (
	/** @brief Three bytes per pixel, no alpha. */
	ChannelLayoutRGB ChannelLayout = 3
	/** @brief Four bytes per pixel, straight alpha. */
	ChannelLayoutRGBA ChannelLayout = 4
)

// ChannelLayoutFromBytesPerPixel derives the layout from the pixel stride.
// Only 3 and 4 are valid strides.
func ChannelLayoutFromBytesPerPixel(bpp uint8) (ChannelLayout, bool) {
	switch bpp {
	case 3:
		return ChannelLayoutRGB, true
	case 4:
		return ChannelLayoutRGBA, true
	default:
		return 0, false
	}
}

/** @brief The number of bytes each pixel occupies. */
func (cl ChannelLayout) Stride() int {
	return int(cl)
}

func (cl ChannelLayout) HasAlpha() bool {
	return cl == ChannelLayoutRGBA
}

func (cl ChannelLayout) String() string {
	switch cl {
	case ChannelLayoutRGB:
		return "RGB"
	case ChannelLayoutRGBA:
		return "RGBA"
	default:
		return fmt.Sprintf("ChannelLayout(%d)", uint8(cl))
	}
}

/** @brief Represents supported texture filtering modes. */
type TextureFilter int

const (
	/** @brief Nearest-neighbor filtering. */
	TextureFilterModeNearest TextureFilter = 0x0
	/** @brief Linear (i.e. bilinear) filtering.*/
	TextureFilterModeLinear TextureFilter = 0x1
)

// ParseTextureFilter maps "nearest" and "linear" to a filter mode.
func ParseTextureFilter(name string) (TextureFilter, error) {
	switch name {
	case "", "nearest":
		return TextureFilterModeNearest, nil
	case "linear":
		return TextureFilterModeLinear, nil
	default:
		return TextureFilterModeNearest, fmt.Errorf("unknown texture filter %q", name)
	}
}

/**
 * @brief Represents a texture as the backend keeps track of it.
 */
type Texture struct {
	/** @brief The handle given out to the owner of the texture. */
	Handle TextureHandle
	/** @brief The texture Width. */
	Width uint32
	/** @brief The texture Height. */
	Height uint32
	/** @brief The channel layout of the uploaded pixels. */
	Layout ChannelLayout
	/** @brief The sampling mode used when drawing. */
	Filter TextureFilter
	/** @brief Backend specific data. */
	InternalData interface{}
}
