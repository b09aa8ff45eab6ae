package bitmap

import "github.com/spaghettifunk/anima2d/engine/renderer/metadata"

// residency says where the pixels of an image live. An image holds either
// its canonical CPU buffer or the handle of the uploaded texture, never
// both. A nil residency means the image has been freed.
type residency interface {
	state() UploadState
}

type cpuPixels struct {
	pixels []uint8
}

func (cpuPixels) state() UploadState { return NotUploaded }

type gpuTexture struct {
	handle metadata.TextureHandle
}

func (gpuTexture) state() UploadState { return Uploaded }

// UploadState is the position of an image in its upload lifecycle.
type UploadState uint8

const (
	// NotUploaded images still own their CPU pixel buffer.
	NotUploaded UploadState = iota
	// Uploaded images own a texture handle; the buffer is gone.
	Uploaded
	// Freed images own nothing.
	Freed
)

func (s UploadState) String() string {
	switch s {
	case NotUploaded:
		return "not-uploaded"
	case Uploaded:
		return "uploaded"
	default:
		return "freed"
	}
}
