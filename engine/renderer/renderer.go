package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/math"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

type RendererType uint8

const (
	Software RendererType = iota
)

// Renderer sits in front of a backend and keeps the upload and draw
// counters of the engine metrics up to date. It satisfies bitmap.Backend.
type Renderer struct {
	backend RendererBackend
	metrics *core.Metrics

	inFrame bool
}

func New(backend RendererBackend, metrics *core.Metrics) *Renderer {
	if metrics == nil {
		metrics = core.NewMetrics()
	}
	return &Renderer{
		backend: backend,
		metrics: metrics,
	}
}

func (r *Renderer) Initialize(appName string, appWidth, appHeight uint32) error {
	return r.backend.Initialize(appName, appWidth, appHeight)
}

func (r *Renderer) Shutdown() error {
	return r.backend.Shutdown()
}

func (r *Renderer) OnResized(width, height uint32) error {
	return r.backend.Resized(width, height)
}

func (r *Renderer) BeginFrame(deltaTime float64) error {
	if err := r.backend.BeginFrame(deltaTime); err != nil {
		return err
	}
	r.inFrame = true
	return nil
}

func (r *Renderer) EndFrame(deltaTime float64) error {
	r.inFrame = false
	return r.backend.EndFrame(deltaTime)
}

// InFrame reports whether BeginFrame was called without a matching EndFrame.
func (r *Renderer) InFrame() bool {
	return r.inFrame
}

func (r *Renderer) Metrics() *core.Metrics {
	return r.metrics
}

func (r *Renderer) TextureCreate(layout metadata.ChannelLayout, width, height uint32, pixels []uint8, filter metadata.TextureFilter) (metadata.TextureHandle, error) {
	handle, err := r.backend.TextureCreate(layout, width, height, pixels, filter)
	if err != nil {
		core.LogError("failed to create %dx%d %s texture: %s", width, height, layout, err)
		return 0, err
	}
	r.metrics.Uploads++
	return handle, nil
}

func (r *Renderer) TextureDestroy(handle metadata.TextureHandle) error {
	return r.backend.TextureDestroy(handle)
}

func (r *Renderer) DrawTexturedQuad(handle metadata.TextureHandle, transform mgl32.Mat3, tint math.Vec4) error {
	if err := r.backend.DrawTexturedQuad(handle, transform, tint); err != nil {
		return err
	}
	r.metrics.Draws++
	return nil
}
