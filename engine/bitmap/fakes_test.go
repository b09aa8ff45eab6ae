package bitmap

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/anima2d/engine/math"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

var errNoDevice = errors.New("no device memory")

type drawCall struct {
	handle    metadata.TextureHandle
	transform mgl32.Mat3
	tint      math.Vec4
}

type createCall struct {
	layout metadata.ChannelLayout
	width  uint32
	height uint32
	pixels []uint8
	filter metadata.TextureFilter
}

type fakeBackend struct {
	creates  []createCall
	destroys []metadata.TextureHandle
	draws    []drawCall
	failNext int
	nextID   metadata.TextureHandle
}

func (b *fakeBackend) TextureCreate(layout metadata.ChannelLayout, width, height uint32, pixels []uint8, filter metadata.TextureFilter) (metadata.TextureHandle, error) {
	b.creates = append(b.creates, createCall{layout, width, height, append([]uint8(nil), pixels...), filter})
	if b.failNext > 0 {
		b.failNext--
		return 0, errNoDevice
	}
	b.nextID++
	return b.nextID, nil
}

func (b *fakeBackend) TextureDestroy(handle metadata.TextureHandle) error {
	b.destroys = append(b.destroys, handle)
	return nil
}

func (b *fakeBackend) DrawTexturedQuad(handle metadata.TextureHandle, transform mgl32.Mat3, tint math.Vec4) error {
	b.draws = append(b.draws, drawCall{handle, transform, tint})
	return nil
}

type fakeDecoder struct {
	images map[string]*metadata.ImageResourceData
}

func (d *fakeDecoder) Decode(path string) (*metadata.ImageResourceData, error) {
	data, ok := d.images[path]
	if !ok {
		return nil, fmt.Errorf("image file `%s` not found", path)
	}
	return data, nil
}

type recordedDiagnostics struct {
	warnings []string
	errors   []string
}

func (r *recordedDiagnostics) Warn(msg string, args ...interface{}) {
	r.warnings = append(r.warnings, fmt.Sprintf(msg, args...))
}

func (r *recordedDiagnostics) Error(context, msg string, args ...interface{}) {
	r.errors = append(r.errors, context+": "+fmt.Sprintf(msg, args...))
}
