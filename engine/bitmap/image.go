package bitmap

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/math"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

// Backend is the part of the renderer an image needs. Calls must happen on
// the thread that owns the graphics context.
type Backend interface {
	TextureCreate(layout metadata.ChannelLayout, width, height uint32, pixels []uint8, filter metadata.TextureFilter) (metadata.TextureHandle, error)
	TextureDestroy(handle metadata.TextureHandle) error
	DrawTexturedQuad(handle metadata.TextureHandle, transform mgl32.Mat3, tint math.Vec4) error
}

// Image is a single 2D bitmap. It is owned by one render loop and is not
// safe for concurrent use.
type Image struct {
	path      string
	residency residency

	width  uint32
	height uint32
	layout metadata.ChannelLayout
	filter metadata.TextureFilter

	displayWidth  float32
	displayHeight float32
	x             float32
	y             float32
	tint          math.Vec4

	angle float32
	pivot math.Vec2
}

func newImage(path string, width, height uint32, layout metadata.ChannelLayout, filter metadata.TextureFilter, pixels []uint8) *Image {
	return &Image{
		path:          path,
		residency:     cpuPixels{pixels: pixels},
		width:         width,
		height:        height,
		layout:        layout,
		filter:        filter,
		displayWidth:  float32(width),
		displayHeight: float32(height),
		tint:          math.NewVec4One(),
	}
}

func (img *Image) Path() string { return img.path }
func (img *Image) Width() uint32 { return img.width }
func (img *Image) Height() uint32 { return img.height }
func (img *Image) Layout() metadata.ChannelLayout { return img.layout }
func (img *Image) Filter() metadata.TextureFilter { return img.filter }
func (img *Image) DisplayWidth() float32 { return img.displayWidth }
func (img *Image) DisplayHeight() float32 { return img.displayHeight }
func (img *Image) Position() math.Vec2 { return math.NewVec2(img.x, img.y) }
func (img *Image) Tint() math.Vec4 { return img.tint }
func (img *Image) Rotation() (float32, math.Vec2) { return img.angle, img.pivot }

// SetPosition moves the top-left corner of the image. The rotation pivot
// does not follow; call SetRotation again if it should.
func (img *Image) SetPosition(x, y float32) {
	img.x = x
	img.y = y
}

// SetSize changes the size the image is drawn at. The pixel data keeps its
// original dimensions.
func (img *Image) SetSize(width, height float32) {
	img.displayWidth = width
	img.displayHeight = height
}

// SetTint sets the color multiplier, clamped to [0, 1] per channel.
func (img *Image) SetTint(c math.Vec4) {
	img.tint = math.ClampColor(c)
}

// SetRotation stores angle in degrees and resolves the pivot from the
// current position and display size.
func (img *Image) SetRotation(angle float32, anchor math.Anchor) {
	img.pivot = math.RectRotationPoint(img.x, img.y, img.displayWidth, img.displayHeight, anchor)
	img.angle = angle
}

// SetRotationPivot stores angle in degrees around an explicit pivot.
func (img *Image) SetRotationPivot(angle float32, pivot math.Vec2) {
	img.pivot = pivot
	img.angle = angle
}

// State reports where the pixels of the image currently live.
func (img *Image) State() UploadState {
	if img.residency == nil {
		return Freed
	}
	return img.residency.state()
}

func (img *Image) Uploaded() bool {
	return img.State() == Uploaded
}

// Pixels returns the canonical CPU buffer, or nil once it has been handed
// to the backend.
func (img *Image) Pixels() []uint8 {
	if p, ok := img.residency.(cpuPixels); ok {
		return p.pixels
	}
	return nil
}

// Handle returns the texture handle and whether the image is uploaded.
func (img *Image) Handle() (metadata.TextureHandle, bool) {
	if t, ok := img.residency.(gpuTexture); ok {
		return t.handle, true
	}
	return 0, false
}

// EnsureUploaded returns the texture of the image, creating it on the
// first call. Once created the CPU buffer is released and every later call
// returns the same handle without touching the backend. A failed upload
// leaves the image untouched so the next call tries again.
func (img *Image) EnsureUploaded(backend Backend) (metadata.TextureHandle, error) {
	switch r := img.residency.(type) {
	case gpuTexture:
		return r.handle, nil
	case cpuPixels:
		handle, err := backend.TextureCreate(img.layout, img.width, img.height, r.pixels, img.filter)
		if err != nil {
			return 0, &UploadError{Path: img.path, Err: err}
		}
		img.residency = gpuTexture{handle: handle}
		return handle, nil
	default:
		return 0, &UploadError{Path: img.path, Err: core.ErrImageFreed}
	}
}

// Transform maps the unit square onto the quad the image covers on screen.
func (img *Image) Transform() mgl32.Mat3 {
	return math.QuadTransform(img.x, img.y, img.displayWidth, img.displayHeight, img.angle, img.pivot)
}

// Corners returns the top-left, top-right, bottom-right and bottom-left
// corners of the drawn quad, rotated around the pivot.
func (img *Image) Corners() [4]math.Vec2 {
	x1, y1 := img.x, img.y
	x2, y2 := img.x+img.displayWidth, img.y+img.displayHeight
	corners := [4]math.Vec2{{X: x1, Y: y1}, {X: x2, Y: y1}, {X: x2, Y: y2}, {X: x1, Y: y2}}
	if img.angle != 0 {
		for i := range corners {
			corners[i] = math.RotatePoint(corners[i], img.angle, img.pivot)
		}
	}
	return corners
}

// Draw uploads the image if needed and draws it with its current
// placement, rotation and tint. Drawing a nil image does nothing.
func (img *Image) Draw(backend Backend) error {
	if img == nil {
		return nil
	}
	handle, err := img.EnsureUploaded(backend)
	if err != nil {
		return err
	}
	return backend.DrawTexturedQuad(handle, img.Transform(), img.tint)
}

// Free releases whatever the image holds: the CPU buffer, or the texture
// through the backend. Freeing a nil or already freed image is a no-op.
func (img *Image) Free(backend Backend) error {
	if img == nil || img.residency == nil {
		return nil
	}
	r := img.residency
	img.residency = nil
	if t, ok := r.(gpuTexture); ok {
		return backend.TextureDestroy(t.handle)
	}
	return nil
}
