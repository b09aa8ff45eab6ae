package core

import (
	"errors"
)

var (
	ErrImageFreed             = errors.New("image has been freed")
	ErrUnsupportedPixelFormat = errors.New("unsupported pixel format")
	ErrPixelBufferSize        = errors.New("pixel buffer size does not match image dimensions")
	ErrTextureNotFound        = errors.New("texture not found")
	ErrTextureLimit           = errors.New("texture limit reached")
	ErrImageLimit             = errors.New("image limit reached")
	ErrImageNotFound          = errors.New("image not found")
	ErrUnknownAssetType       = errors.New("unknown asset type")
	ErrAssetNotFound          = errors.New("asset not found")
	ErrUnknown                = errors.New("unknown")
)
