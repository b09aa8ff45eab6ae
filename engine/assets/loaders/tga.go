package loaders

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

const (
	tgaTypeTrueColor    uint8 = 2
	tgaTypeTrueColorRLE uint8 = 10

	tgaDescriptorAlphaBits   uint8 = 0x0F
	tgaDescriptorRightLeft   uint8 = 0x10
	tgaDescriptorTopToBottom uint8 = 0x20
)

type tgaHeader struct {
	IDLength        uint8
	ColorMapType    uint8
	ImageType       uint8
	ColorMapFirst   uint16
	ColorMapLength  uint16
	ColorMapEntry   uint8
	XOrigin         uint16
	YOrigin         uint16
	Width           uint16
	Height          uint16
	PixelDepth      uint8
	ImageDescriptor uint8
}

// TGALoader reads uncompressed and run-length encoded true-color Truevision
// files. Pixels keep the blue, green, red order of the file and the format
// masks say so; the image loader puts them into canonical order.
type TGALoader struct{}

func (tl *TGALoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	flipY := false
	if p, ok := params.(*metadata.ImageResourceParams); ok && p != nil {
		flipY = p.FlipY
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open texture `%s`", path)
	}
	defer file.Close()

	data, err := DecodeTGA(bufio.NewReader(file))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode texture `%s`", path)
	}
	if flipY {
		flipRows(data.Pixels, int(data.Width)*int(data.Format.BytesPerPixel), int(data.Height))
	}

	return &metadata.Resource{
		Name:     "texture",
		FullPath: path,
		DataSize: uint64(len(data.Pixels)),
		Data:     data,
	}, nil
}

func (tl *TGALoader) Unload(*metadata.Resource) error {
	return nil
}

// DecodeTGA reads a true-color TGA stream. 24 and 32 bit files keep their
// depth; 16 bit files are widened to 8 bits per channel but report their
// original 16 bits per pixel.
func DecodeTGA(r io.Reader) (*metadata.ImageResourceData, error) {
	var h tgaHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, errors.Wrap(err, "failed to read tga header")
	}
	if h.ImageType != tgaTypeTrueColor && h.ImageType != tgaTypeTrueColorRLE {
		return nil, errors.Wrapf(core.ErrUnsupportedPixelFormat, "tga image type %d", h.ImageType)
	}
	if h.Width == 0 || h.Height == 0 {
		return nil, errors.Wrapf(core.ErrPixelBufferSize, "tga size %dx%d", h.Width, h.Height)
	}

	// skip the image id and any color map that came along
	skip := int64(h.IDLength)
	if h.ColorMapType != 0 {
		skip += int64(h.ColorMapLength) * int64((int(h.ColorMapEntry)+7)/8)
	}
	if _, err := io.CopyN(io.Discard, r, skip); err != nil {
		return nil, errors.Wrap(err, "failed to skip tga id")
	}

	alphaBits := h.ImageDescriptor & tgaDescriptorAlphaBits
	var (
		srcSize int
		format  metadata.PixelFormat
	)
	switch h.PixelDepth {
	case 16:
		srcSize = 2
		if alphaBits > 0 {
			format = metadata.PixelFormat{BytesPerPixel: 4, BitsPerPixel: 16, Rmask: 0xFF0000, Gmask: 0xFF00, Bmask: 0xFF, Amask: 0xFF000000}
		} else {
			format = metadata.PixelFormat{BytesPerPixel: 3, BitsPerPixel: 16, Rmask: 0xFF0000, Gmask: 0xFF00, Bmask: 0xFF}
		}
	case 24:
		srcSize = 3
		format = metadata.PixelFormatBGR24
	case 32:
		srcSize = 4
		format = metadata.PixelFormatBGRA32
	default:
		return nil, errors.Wrapf(core.ErrUnsupportedPixelFormat, "tga pixel depth %d", h.PixelDepth)
	}

	width, height := int(h.Width), int(h.Height)
	bpp := int(format.BytesPerPixel)
	raw, err := readTGAPixels(r, h.ImageType == tgaTypeTrueColorRLE, width*height, srcSize)
	if err != nil {
		return nil, err
	}

	pixels := make([]uint8, width*height*bpp)
	for i := 0; i < width*height; i++ {
		src := raw[i*srcSize : (i+1)*srcSize]
		dst := pixels[i*bpp : (i+1)*bpp]
		switch srcSize {
		case 2:
			v := uint16(src[0]) | uint16(src[1])<<8
			dst[0] = widen5(uint8(v & 0x1F))
			dst[1] = widen5(uint8((v >> 5) & 0x1F))
			dst[2] = widen5(uint8((v >> 10) & 0x1F))
			if bpp == 4 {
				dst[3] = uint8(v>>15) * 0xFF
			}
		case 4:
			copy(dst, src)
			if alphaBits == 0 {
				dst[3] = 0xFF
			}
		default:
			copy(dst, src)
		}
	}

	rowSize := width * bpp
	if h.ImageDescriptor&tgaDescriptorTopToBottom == 0 {
		flipRows(pixels, rowSize, height)
	}
	if h.ImageDescriptor&tgaDescriptorRightLeft != 0 {
		mirrorRows(pixels, rowSize, height, bpp)
	}

	return &metadata.ImageResourceData{
		Width:  uint32(width),
		Height: uint32(height),
		Format: format,
		Pixels: pixels,
	}, nil
}

func readTGAPixels(r io.Reader, rle bool, count, size int) ([]uint8, error) {
	raw := make([]uint8, count*size)
	if !rle {
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, errors.Wrap(err, "truncated tga pixel data")
		}
		return raw, nil
	}

	var packet [1]uint8
	for n := 0; n < count; {
		if _, err := io.ReadFull(r, packet[:]); err != nil {
			return nil, errors.Wrap(err, "truncated tga rle packet")
		}
		run := int(packet[0]&0x7F) + 1
		if n+run > count {
			return nil, errors.Wrapf(core.ErrPixelBufferSize, "tga rle run overflows image by %d pixels", n+run-count)
		}
		if packet[0]&0x80 != 0 {
			px := raw[n*size : (n+1)*size]
			if _, err := io.ReadFull(r, px); err != nil {
				return nil, errors.Wrap(err, "truncated tga rle pixel")
			}
			for i := 1; i < run; i++ {
				copy(raw[(n+i)*size:(n+i+1)*size], px)
			}
		} else if _, err := io.ReadFull(r, raw[n*size:(n+run)*size]); err != nil {
			return nil, errors.Wrap(err, "truncated tga raw packet")
		}
		n += run
	}
	return raw, nil
}

func widen5(c uint8) uint8 {
	return c<<3 | c>>2
}

func mirrorRows(pixels []uint8, rowSize, rows, bpp int) {
	width := rowSize / bpp
	for y := 0; y < rows; y++ {
		row := pixels[y*rowSize : (y+1)*rowSize]
		for l, r := 0, width-1; l < r; l, r = l+1, r-1 {
			for c := 0; c < bpp; c++ {
				row[l*bpp+c], row[r*bpp+c] = row[r*bpp+c], row[l*bpp+c]
			}
		}
	}
}
