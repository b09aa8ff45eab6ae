package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/anima2d/engine/math"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

type RendererBackend interface {
	Initialize(appName string, appWidth, appHeight uint32) error
	Shutdown() error
	Resized(width, height uint32) error
	BeginFrame(deltaTime float64) error
	EndFrame(deltaTime float64) error
	TextureCreate(layout metadata.ChannelLayout, width, height uint32, pixels []uint8, filter metadata.TextureFilter) (metadata.TextureHandle, error)
	TextureDestroy(handle metadata.TextureHandle) error
	DrawTexturedQuad(handle metadata.TextureHandle, transform mgl32.Mat3, tint math.Vec4) error
}
