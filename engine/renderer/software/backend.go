package software

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/tiff"

	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/math"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

type Config struct {
	// Maximum number of live textures, 0 means unlimited.
	MaxTextures int
	ClearColor  color.NRGBA
}

// SoftwareRenderer rasterizes textured quads into an in-memory framebuffer.
type SoftwareRenderer struct {
	FrameNumber uint64

	config      Config
	framebuffer *image.RGBA
	textures    map[metadata.TextureHandle]*metadata.Texture
	nextHandle  metadata.TextureHandle
}

func New(config Config) *SoftwareRenderer {
	return &SoftwareRenderer{
		config:     config,
		textures:   make(map[metadata.TextureHandle]*metadata.Texture),
		nextHandle: 1,
	}
}

func (sr *SoftwareRenderer) Initialize(appName string, appWidth, appHeight uint32) error {
	if appWidth == 0 || appHeight == 0 {
		return fmt.Errorf("invalid framebuffer size %dx%d", appWidth, appHeight)
	}
	sr.framebuffer = image.NewRGBA(image.Rect(0, 0, int(appWidth), int(appHeight)))
	sr.clear()
	core.LogInfo("%s: software renderer initialized (%dx%d)", appName, appWidth, appHeight)
	return nil
}

func (sr *SoftwareRenderer) Shutdown() error {
	if len(sr.textures) > 0 {
		core.LogWarn("software renderer shutting down with %d live textures", len(sr.textures))
	}
	sr.textures = make(map[metadata.TextureHandle]*metadata.Texture)
	sr.framebuffer = nil
	return nil
}

func (sr *SoftwareRenderer) Resized(width, height uint32) error {
	if width == 0 || height == 0 {
		// minimized, keep the old framebuffer
		return nil
	}
	sr.framebuffer = image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	sr.clear()
	return nil
}

func (sr *SoftwareRenderer) BeginFrame(deltaTime float64) error {
	if sr.framebuffer == nil {
		return fmt.Errorf("software renderer is not initialized")
	}
	sr.clear()
	return nil
}

func (sr *SoftwareRenderer) EndFrame(deltaTime float64) error {
	sr.FrameNumber++
	return nil
}

// TextureCreate copies pixels into a new texture. The buffer must hold
// width*height pixels of the given layout.
func (sr *SoftwareRenderer) TextureCreate(layout metadata.ChannelLayout, width, height uint32, pixels []uint8, filter metadata.TextureFilter) (metadata.TextureHandle, error) {
	if _, ok := metadata.ChannelLayoutFromBytesPerPixel(uint8(layout)); !ok {
		return 0, fmt.Errorf("%w: %s", core.ErrUnsupportedPixelFormat, layout)
	}
	if expected := int(width) * int(height) * layout.Stride(); len(pixels) != expected {
		return 0, fmt.Errorf("%w: got %d bytes, want %d", core.ErrPixelBufferSize, len(pixels), expected)
	}
	if sr.config.MaxTextures > 0 && len(sr.textures) >= sr.config.MaxTextures {
		return 0, fmt.Errorf("%w: %d textures", core.ErrTextureLimit, sr.config.MaxTextures)
	}

	img := image.NewNRGBA(image.Rect(0, 0, int(width), int(height)))
	if layout == metadata.ChannelLayoutRGBA {
		copy(img.Pix, pixels)
	} else {
		for i, j := 0, 0; i < len(pixels); i, j = i+3, j+4 {
			img.Pix[j] = pixels[i]
			img.Pix[j+1] = pixels[i+1]
			img.Pix[j+2] = pixels[i+2]
			img.Pix[j+3] = 0xFF
		}
	}

	handle := sr.nextHandle
	sr.nextHandle++
	sr.textures[handle] = &metadata.Texture{
		Handle:       handle,
		Width:        width,
		Height:       height,
		Layout:       layout,
		Filter:       filter,
		InternalData: img,
	}
	return handle, nil
}

func (sr *SoftwareRenderer) TextureDestroy(handle metadata.TextureHandle) error {
	if _, ok := sr.textures[handle]; !ok {
		return fmt.Errorf("%w: handle %d", core.ErrTextureNotFound, handle)
	}
	delete(sr.textures, handle)
	return nil
}

// Texture returns the texture behind handle.
func (sr *SoftwareRenderer) Texture(handle metadata.TextureHandle) (*metadata.Texture, bool) {
	t, ok := sr.textures[handle]
	return t, ok
}

func (sr *SoftwareRenderer) TextureCount() int {
	return len(sr.textures)
}

// DrawTexturedQuad maps the texture onto the quad that transform makes of
// the unit square and composites it over the framebuffer.
func (sr *SoftwareRenderer) DrawTexturedQuad(handle metadata.TextureHandle, transform mgl32.Mat3, tint math.Vec4) error {
	if sr.framebuffer == nil {
		return fmt.Errorf("software renderer is not initialized")
	}
	t, ok := sr.textures[handle]
	if !ok {
		return fmt.Errorf("%w: handle %d", core.ErrTextureNotFound, handle)
	}
	src := t.InternalData.(*image.NRGBA)
	if tint != math.NewVec4One() {
		src = tinted(src, tint)
	}

	// mgl32 matrices are column major.
	tw, th := float64(t.Width), float64(t.Height)
	aff := f64.Aff3{
		float64(transform[0]) / tw, float64(transform[3]) / th, float64(transform[6]),
		float64(transform[1]) / tw, float64(transform[4]) / th, float64(transform[7]),
	}

	interpolator(t.Filter).Transform(sr.framebuffer, aff, src, src.Bounds(), draw.Over, nil)
	return nil
}

// Frame returns the framebuffer the last frame was drawn into.
func (sr *SoftwareRenderer) Frame() *image.RGBA {
	return sr.framebuffer
}

// Snapshot writes the framebuffer to path. The extension picks the format:
// .bmp, .tif/.tiff or PNG for everything else.
func (sr *SoftwareRenderer) Snapshot(path string) error {
	if sr.framebuffer == nil {
		return fmt.Errorf("software renderer is not initialized")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		err = bmp.Encode(f, sr.framebuffer)
	case ".tif", ".tiff":
		err = tiff.Encode(f, sr.framebuffer, nil)
	default:
		err = png.Encode(f, sr.framebuffer)
	}
	if err != nil {
		return err
	}
	return f.Close()
}

func (sr *SoftwareRenderer) clear() {
	draw.Draw(sr.framebuffer, sr.framebuffer.Bounds(), image.NewUniform(sr.config.ClearColor), image.Point{}, draw.Src)
}

func interpolator(filter metadata.TextureFilter) draw.Interpolator {
	if filter == metadata.TextureFilterModeLinear {
		return draw.BiLinear
	}
	return draw.NearestNeighbor
}

func tinted(src *image.NRGBA, tint math.Vec4) *image.NRGBA {
	c := math.ClampColor(tint)
	factors := [4]float32{c.X, c.Y, c.Z, c.W}
	dst := image.NewNRGBA(src.Bounds())
	for i, v := range src.Pix {
		dst.Pix[i] = uint8(float32(v)*factors[i%4] + 0.5)
	}
	return dst
}
