package loaders

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/h2non/filetype"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

// filetype needs at most this many bytes to recognise a format.
const sniffLength = 262

// ImageLoader decodes compressed images (png, jpeg, gif, bmp, tiff, webp)
// into packed 8-bit RGB or RGBA pixels, rows top to bottom.
type ImageLoader struct{}

func (il *ImageLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	flipY := false
	if p, ok := params.(*metadata.ImageResourceParams); ok && p != nil {
		flipY = p.FlipY
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open image `%s`", path)
	}
	defer file.Close()

	head := make([]byte, sniffLength)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, errors.Wrapf(err, "failed to read image `%s`", path)
	}
	if !filetype.IsImage(head[:n]) {
		kind, _ := filetype.Match(head[:n])
		return nil, errors.Wrapf(core.ErrUnsupportedPixelFormat, "`%s` is not an image (detected %q)", path, kind.MIME.Value)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrapf(err, "failed to rewind image `%s`", path)
	}

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode image `%s`", path)
	}
	core.LogDebug("decoded `%s` as %s", path, format)

	data := packImage(img)
	if flipY {
		flipRows(data.Pixels, int(data.Width)*int(data.Format.BytesPerPixel), int(data.Height))
	}

	return &metadata.Resource{
		Name:     "image",
		FullPath: path,
		DataSize: uint64(len(data.Pixels)),
		Data:     data,
	}, nil
}

func (il *ImageLoader) Unload(*metadata.Resource) error {
	return nil
}

// packImage converts any decoded image to tightly packed 8-bit pixels.
// Opaque images drop the alpha channel.
func packImage(img image.Image) *metadata.ImageResourceData {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Stride != w*4 || nrgba.Rect.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}

	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		pixels := make([]uint8, w*h*3)
		for i, j := 0, 0; i < len(nrgba.Pix); i, j = i+4, j+3 {
			copy(pixels[j:j+3], nrgba.Pix[i:i+3])
		}
		return &metadata.ImageResourceData{
			Width:  uint32(w),
			Height: uint32(h),
			Format: metadata.PixelFormatRGB24,
			Pixels: pixels,
		}
	}

	pixels := nrgba.Pix
	if ok {
		// never hand out the decoder's own buffer, normalization writes into it
		pixels = append([]uint8(nil), pixels...)
	}
	return &metadata.ImageResourceData{
		Width:  uint32(w),
		Height: uint32(h),
		Format: metadata.PixelFormatRGBA32,
		Pixels: pixels,
	}
}

func flipRows(pixels []uint8, rowSize, rows int) {
	tmp := make([]uint8, rowSize)
	for top, bottom := 0, rows-1; top < bottom; top, bottom = top+1, bottom-1 {
		t := pixels[top*rowSize : (top+1)*rowSize]
		b := pixels[bottom*rowSize : (bottom+1)*rowSize]
		copy(tmp, t)
		copy(t, b)
		copy(b, tmp)
	}
}
