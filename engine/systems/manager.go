package systems

import (
	"github.com/spaghettifunk/anima2d/engine/assets"
	"github.com/spaghettifunk/anima2d/engine/bitmap"
	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/renderer"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

type SystemManagerConfig struct {
	AssetsDir     string
	HotReload     bool
	Filter        metadata.TextureFilter
	MaxImageCount uint32
}

type SystemManager struct {
	assetManager *assets.AssetManager
	imageSystem  *ImageSystem
	hotReload    bool
}

func NewSystemManager(config SystemManagerConfig, renderer *renderer.Renderer, diagnostics core.Diagnostics) (*SystemManager, error) {
	am, err := assets.NewAssetManager()
	if err != nil {
		return nil, err
	}
	if err := am.Initialize(config.AssetsDir, config.HotReload); err != nil {
		_ = am.Shutdown()
		return nil, err
	}

	loader := bitmap.NewLoader(bitmap.LoaderConfig{Filter: config.Filter}, am, diagnostics)
	is, err := NewImageSystem(&ImageSystemConfig{
		MaxImageCount: config.MaxImageCount,
	}, loader, renderer)
	if err != nil {
		_ = am.Shutdown()
		return nil, err
	}

	return &SystemManager{
		assetManager: am,
		imageSystem:  is,
		hotReload:    config.HotReload,
	}, nil
}

func (sm *SystemManager) Assets() *assets.AssetManager {
	return sm.assetManager
}

func (sm *SystemManager) Images() *ImageSystem {
	return sm.imageSystem
}

// Update swaps in the images whose files changed since the last frame.
func (sm *SystemManager) Update() {
	if !sm.hotReload {
		return
	}
	sm.imageSystem.ProcessReloads(sm.assetManager.DrainChanges())
}

func (sm *SystemManager) Shutdown() error {
	if err := sm.imageSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.assetManager.Shutdown(); err != nil {
		return err
	}
	return nil
}
