package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/anima2d/engine/assets/loaders"
	"github.com/spaghettifunk/anima2d/engine/containers"
	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

// Maximum number of changed files remembered between two drains.
const maxPendingChanges = 256

type AssetInfo struct {
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
}

// AssetManager indexes the files of an assets directory, decodes them with
// the loader registered for their type and, when watching, remembers which
// files changed on disk so the render loop can reload them.
type AssetManager struct {
	baseDir string
	assets  map[string]AssetInfo
	loaders map[metadata.ResourceType]Loader

	mutex sync.RWMutex

	changes *containers.RingQueue[string]
	pending map[string]struct{}

	done     chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
}

func NewAssetManager() (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &AssetManager{
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[metadata.ResourceType]Loader),
		changes:  containers.NewRingQueue[string](maxPendingChanges),
		pending:  make(map[string]struct{}),
		fsnotify: fsWatch,
		done:     make(chan struct{}),
	}, nil
}

// Initialize indexes assetsDir and registers the built-in loaders. With
// watch set, changes below assetsDir are tracked until Shutdown.
func (am *AssetManager) Initialize(assetsDir string, watch bool) error {
	am.baseDir = filepath.Clean(assetsDir)

	// Register loaders
	am.registerLoader(metadata.ResourceTypeImage, &loaders.ImageLoader{})
	am.registerLoader(metadata.ResourceTypeTexture, &loaders.TGALoader{})

	if !watch {
		return am.index(am.baseDir)
	}

	go am.start()

	if err := am.addRecursive(am.baseDir); err != nil {
		return err
	}
	return nil
}

func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	if am.isClosed {
		return nil
	}
	am.isClosed = true
	close(am.done)
	return am.fsnotify.Close()
}

// AddRecursive starts watching the named directory and all sub-directories.
func (am *AssetManager) addRecursive(name string) error {
	if am.isClosed {
		return errors.New("asset watcher already closed")
	}
	if err := am.watchRecursive(name, false); err != nil {
		return err
	}
	return nil
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType metadata.ResourceType, loader Loader) {
	am.loaders[assetType] = loader
}

// Assets returns the indexed paths of the given type, sorted.
func (am *AssetManager) Assets(resourceType metadata.ResourceType) []string {
	am.mutex.RLock()
	defer am.mutex.RUnlock()

	paths := make([]string, 0, len(am.assets))
	for p, a := range am.assets {
		if a.Type == resourceType {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths
}

// LoadAsset loads the named file using the loader registered for its type.
func (am *AssetManager) LoadAsset(filename string, params interface{}) (*metadata.Resource, error) {
	path, err := am.resolve(filename)
	if err != nil {
		return nil, err
	}

	am.mutex.Lock()
	asset, exists := am.assets[path]
	if !exists {
		asset = AssetInfo{Path: path, Type: determineAssetType(path)}
	}
	// Load or reload asset from disk if necessary
	asset.LastLoaded = time.Now()
	am.assets[path] = asset // Update the loaded time
	am.mutex.Unlock()

	loader, loaderExists := am.loaders[asset.Type]
	if !loaderExists {
		return nil, fmt.Errorf("%w: no loader registered for `%s`", core.ErrUnknownAssetType, path)
	}

	return loader.Load(path, asset.Type, params)
}

func (am *AssetManager) UnloadAsset(asset *metadata.Resource) error {
	if asset == nil {
		return nil
	}
	loader, ok := am.loaders[determineAssetType(asset.FullPath)]
	if !ok {
		return nil
	}
	return loader.Unload(asset)
}

// Decode loads an image file and hands back its raw pixels.
func (am *AssetManager) Decode(path string) (*metadata.ImageResourceData, error) {
	res, err := am.LoadAsset(path, &metadata.ImageResourceParams{FlipY: false})
	if err != nil {
		return nil, err
	}
	data, ok := res.Data.(*metadata.ImageResourceData)
	if !ok {
		return nil, fmt.Errorf("%w: `%s` does not hold pixels", core.ErrUnknownAssetType, path)
	}
	return data, nil
}

// DrainChanges returns the image files that changed since the last call.
func (am *AssetManager) DrainChanges() []string {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	var paths []string
	for !am.changes.IsEmpty() {
		p, _ := am.changes.Dequeue()
		delete(am.pending, p)
		paths = append(paths, p)
	}
	return paths
}

// resolve finds the file behind name, looking in the index first, then
// relative to the assets directory, then on disk as given.
func (am *AssetManager) resolve(name string) (string, error) {
	clean := filepath.Clean(name)
	joined := filepath.Join(am.baseDir, clean)

	am.mutex.RLock()
	_, inIndex := am.assets[clean]
	_, joinedInIndex := am.assets[joined]
	am.mutex.RUnlock()

	switch {
	case inIndex:
		return clean, nil
	case joinedInIndex:
		return joined, nil
	}

	for _, candidate := range []string{clean, joined} {
		if s, err := os.Stat(candidate); err == nil && !s.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: image file `%s` not found", core.ErrAssetNotFound, name)
}

func (am *AssetManager) start() {
	for {
		select {

		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := am.watchRecursive(e.Name, false); err != nil {
						core.LogError(err.Error())
					}
				}
				continue
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				if am.handleFileEvent(e.Name) {
					am.enqueueChange(e.Name)
				}
			}
			// Can't stat a deleted directory, so just pretend that it's always a directory and
			// try to remove from the watch list...  we really have no clue if it's a directory or not...
			if e.Op&fsnotify.Remove != 0 {
				am.removeAsset(e.Name)
				_ = am.fsnotify.Remove(e.Name)
			}

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(err.Error())

		case <-am.done:
			return
		}
	}
}

func (am *AssetManager) enqueueChange(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	if _, ok := am.pending[path]; ok {
		return
	}
	if err := am.changes.Enqueue(path); err != nil {
		core.LogWarn("dropping change of `%s`: %s", path, err)
		return
	}
	am.pending[path] = struct{}{}
}

// index adds every known asset below dir without watching it.
func (am *AssetManager) index(dir string) error {
	return filepath.Walk(dir, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fi.IsDir() {
			am.handleFileEvent(walkPath)
		}
		return nil
	})
}

// watchRecursive adds all directories under the given one to the watch list.
// this is probably a very racey process. What if a file is added to a folder before we get the watch added?
func (am *AssetManager) watchRecursive(path string, unWatch bool) error {
	err := filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if unWatch {
				if err = am.fsnotify.Remove(walkPath); err != nil {
					return err
				}
			} else {
				if err = am.fsnotify.Add(walkPath); err != nil {
					return err
				}
			}
		} else {
			am.handleFileEvent(walkPath)
		}
		return nil
	})
	return err
}

// Handle the creation or modification of a file. Returns false for files
// that are not assets.
func (am *AssetManager) handleFileEvent(path string) bool {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	path = filepath.Clean(path)
	assetType := determineAssetType(path)
	if assetType == metadata.ResourceTypeNone {
		return false
	}
	am.assets[path] = AssetInfo{
		Path:       path,
		Type:       assetType,
		LastLoaded: time.Now(),
	}
	return true
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	delete(am.assets, filepath.Clean(path))
}

func determineAssetType(path string) metadata.ResourceType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tga":
		return metadata.ResourceTypeTexture
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp":
		return metadata.ResourceTypeImage
	default:
		return metadata.ResourceTypeNone
	}
}
