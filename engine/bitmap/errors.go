package bitmap

import (
	"fmt"
)

// LoadError reports an image that could not be created. The image is
// absent; the caller decides whether to skip it or abort.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load image `%s`: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// UploadError reports a texture the backend could not create. The image
// keeps its pixels and the next draw tries again.
type UploadError struct {
	Path string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload image `%s`: %v", e.Path, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// FormatWarning flags a source with fewer than 8 bits per color channel.
// Loading goes on; the result will likely look degraded.
type FormatWarning struct {
	Path           string
	BitsPerChannel int
}

func (w *FormatWarning) Error() string {
	return fmt.Sprintf("`%s` has less than 8 bits per color and will likely not render correctly (%d bits)", w.Path, w.BitsPerChannel)
}
