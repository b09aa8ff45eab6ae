package bitmap

import (
	"fmt"

	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

// Decoder turns a file into raw pixels plus a description of their layout.
type Decoder interface {
	Decode(path string) (*metadata.ImageResourceData, error)
}

type LoaderConfig struct {
	// Filter is the sampling mode every loaded image is uploaded with.
	Filter metadata.TextureFilter
}

// Loader creates images from files. Everything it depends on is handed in
// at construction.
type Loader struct {
	config      LoaderConfig
	decoder     Decoder
	diagnostics core.Diagnostics
}

func NewLoader(config LoaderConfig, decoder Decoder, diagnostics core.Diagnostics) *Loader {
	if diagnostics == nil {
		diagnostics = core.DiscardDiagnostics
	}
	return &Loader{
		config:      config,
		decoder:     decoder,
		diagnostics: diagnostics,
	}
}

// Load decodes path and returns an image holding its canonical pixels.
// Failures are reported to the diagnostics sink and returned as *LoadError.
func (l *Loader) Load(path string) (*Image, error) {
	data, err := l.decoder.Decode(path)
	if err != nil {
		return nil, l.fail(path, err)
	}
	return l.Create(path, data)
}

// Create builds an image from already decoded pixels. The image takes
// ownership of data.Pixels and normalizes them in place.
func (l *Loader) Create(path string, data *metadata.ImageResourceData) (*Image, error) {
	if data == nil {
		return nil, l.fail(path, core.ErrUnknown)
	}

	bpp := data.Format.BytesPerPixel
	if _, ok := metadata.ChannelLayoutFromBytesPerPixel(bpp); !ok {
		return nil, l.fail(path, fmt.Errorf("%w: %d bytes per pixel", core.ErrUnsupportedPixelFormat, bpp))
	}

	expected := uint64(data.Width) * uint64(data.Height) * uint64(bpp)
	if uint64(len(data.Pixels)) != expected {
		return nil, l.fail(path, fmt.Errorf("%w: got %d bytes, want %d", core.ErrPixelBufferSize, len(data.Pixels), expected))
	}

	layout, warning := Normalize(NewPixelView(data.Pixels, int(bpp)), data.Format)
	if warning != nil {
		warning.Path = path
		l.diagnostics.Warn("%s", warning.Error())
	}

	return newImage(path, data.Width, data.Height, layout, l.config.Filter, data.Pixels), nil
}

func (l *Loader) fail(path string, err error) error {
	loadErr := &LoadError{Path: path, Err: err}
	l.diagnostics.Error("Load", "%s", loadErr.Error())
	return loadErr
}
