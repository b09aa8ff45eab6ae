package metadata

/**
 * @brief Describes how the bytes of a decoded pixel are laid out.
 * Masks follow the packed little-endian convention: the byte at
 * offset 0 of a pixel is selected by 0x000000FF.
 */
type PixelFormat struct {
	/** @brief The number of bytes each pixel occupies. */
	BytesPerPixel uint8
	/** @brief The number of significant bits per pixel. */
	BitsPerPixel uint8
	Rmask        uint32
	Gmask        uint32
	Bmask        uint32
	Amask        uint32
}

var (
	/** @brief Bytes ordered R,G,B. */
	PixelFormatRGB24 = PixelFormat{BytesPerPixel: 3, BitsPerPixel: 24, Rmask: 0x0000FF, Gmask: 0x00FF00, Bmask: 0xFF0000}
	/** @brief Bytes ordered B,G,R. */
	PixelFormatBGR24 = PixelFormat{BytesPerPixel: 3, BitsPerPixel: 24, Rmask: 0xFF0000, Gmask: 0x00FF00, Bmask: 0x0000FF}
	/** @brief Bytes ordered R,G,B,A. */
	PixelFormatRGBA32 = PixelFormat{BytesPerPixel: 4, BitsPerPixel: 32, Rmask: 0x000000FF, Gmask: 0x0000FF00, Bmask: 0x00FF0000, Amask: 0xFF000000}
	/** @brief Bytes ordered B,G,R,A. */
	PixelFormatBGRA32 = PixelFormat{BytesPerPixel: 4, BitsPerPixel: 32, Rmask: 0x00FF0000, Gmask: 0x0000FF00, Bmask: 0x000000FF, Amask: 0xFF000000}
	/** @brief Bytes ordered A,B,G,R. */
	PixelFormatABGR32 = PixelFormat{BytesPerPixel: 4, BitsPerPixel: 32, Rmask: 0xFF000000, Gmask: 0x00FF0000, Bmask: 0x0000FF00, Amask: 0x000000FF}
)

/**
 * @brief A structure to hold image resource data.
 */
type ImageResourceData struct {
	/** @brief The width of the image. */
	Width uint32
	/** @brief The height of the image. */
	Height uint32
	/** @brief The layout of each pixel in Pixels. */
	Format PixelFormat
	/** @brief The pixel data of the image, rows top to bottom. */
	Pixels []uint8
}

/** @brief Parameters used when loading an image. */
type ImageResourceParams struct {
	/** @brief Indicates if the image should be flipped on the y-axis when loaded. */
	FlipY bool
}
