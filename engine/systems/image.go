package systems

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/spaghettifunk/anima2d/engine/bitmap"
	"github.com/spaghettifunk/anima2d/engine/core"
)

type ImageSystemConfig struct {
	/** @brief The maximum number of images that can be loaded at once. */
	MaxImageCount uint32
}

type imageReference struct {
	name  string
	image *bitmap.Image
}

// ImageSystem owns every image the game acquired and draws them in the
// order they were acquired.
type ImageSystem struct {
	Config *ImageSystemConfig
	// Hashtable for image lookups.
	RegisteredImageTable map[uuid.UUID]*imageReference
	order                []uuid.UUID
	// sub systems
	loader  *bitmap.Loader
	backend bitmap.Backend
}

func NewImageSystem(config *ImageSystemConfig, loader *bitmap.Loader, backend bitmap.Backend) (*ImageSystem, error) {
	if config.MaxImageCount == 0 {
		err := fmt.Errorf("func NewImageSystem - config.MaxImageCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}

	return &ImageSystem{
		Config:               config,
		RegisteredImageTable: make(map[uuid.UUID]*imageReference),
		loader:               loader,
		backend:              backend,
	}, nil
}

// Acquire loads the named image and registers it under a new id.
func (is *ImageSystem) Acquire(name string) (uuid.UUID, *bitmap.Image, error) {
	if uint32(len(is.RegisteredImageTable)) >= is.Config.MaxImageCount {
		err := fmt.Errorf("%w: cannot acquire `%s`, %d images loaded", core.ErrImageLimit, name, is.Config.MaxImageCount)
		core.LogError(err.Error())
		return uuid.Nil, nil, err
	}

	img, err := is.loader.Load(name)
	if err != nil {
		return uuid.Nil, nil, err
	}

	id := uuid.New()
	is.RegisteredImageTable[id] = &imageReference{name: name, image: img}
	is.order = append(is.order, id)
	return id, img, nil
}

func (is *ImageSystem) Get(id uuid.UUID) (*bitmap.Image, bool) {
	ref, ok := is.RegisteredImageTable[id]
	if !ok {
		return nil, false
	}
	return ref.image, true
}

func (is *ImageSystem) Count() int {
	return len(is.RegisteredImageTable)
}

// Draw draws every registered image. An image that fails to draw is
// reported and skipped; the errors of all failures are returned together.
func (is *ImageSystem) Draw() error {
	var errs []error
	for _, id := range is.order {
		ref := is.RegisteredImageTable[id]
		if err := ref.image.Draw(is.backend); err != nil {
			core.LogError("failed to draw image `%s`: %s", ref.name, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Release frees the image and forgets its id.
func (is *ImageSystem) Release(id uuid.UUID) error {
	ref, ok := is.RegisteredImageTable[id]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrImageNotFound, id)
	}
	delete(is.RegisteredImageTable, id)
	for i, o := range is.order {
		if o == id {
			is.order = append(is.order[:i], is.order[i+1:]...)
			break
		}
	}
	return ref.image.Free(is.backend)
}

// ProcessReloads replaces the images loaded from any of the changed files.
// The new image keeps the position, size, tint and rotation of the old one.
// When the file cannot be loaded the old image stays in place.
func (is *ImageSystem) ProcessReloads(changed []string) {
	if len(changed) == 0 {
		return
	}
	for _, id := range is.order {
		ref := is.RegisteredImageTable[id]
		if !matchesAny(ref.name, changed) {
			continue
		}

		img, err := is.loader.Load(ref.name)
		if err != nil {
			core.LogWarn("keeping previous version of `%s`: %s", ref.name, err)
			continue
		}
		old := ref.image
		pos := old.Position()
		img.SetPosition(pos.X, pos.Y)
		img.SetSize(old.DisplayWidth(), old.DisplayHeight())
		img.SetTint(old.Tint())
		img.SetRotationPivot(old.Rotation())

		if err := old.Free(is.backend); err != nil {
			core.LogWarn("failed to free previous version of `%s`: %s", ref.name, err)
		}
		ref.image = img
		core.LogInfo("reloaded image `%s`", ref.name)
	}
}

func (is *ImageSystem) Shutdown() error {
	var errs []error
	for _, id := range is.order {
		if err := is.RegisteredImageTable[id].image.Free(is.backend); err != nil {
			errs = append(errs, err)
		}
	}
	is.RegisteredImageTable = make(map[uuid.UUID]*imageReference)
	is.order = nil
	return errors.Join(errs...)
}

func matchesAny(name string, changed []string) bool {
	name = filepath.Clean(name)
	for _, c := range changed {
		c = filepath.Clean(c)
		if c == name || strings.HasSuffix(c, string(filepath.Separator)+name) {
			return true
		}
	}
	return false
}
