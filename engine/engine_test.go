package engine

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

func TestLoadApplicationConfigDefaults(t *testing.T) {
	cfg, err := LoadApplicationConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultApplicationConfig().StartWidth, cfg.StartWidth)
	assert.Equal(t, "nearest", cfg.Filter)
}

func TestLoadApplicationConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anima.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
name = "bitmaps"
start_width = 320
start_height = 240
filter = "linear"
log_level = "debug"
headless = true
frame_limit = 10
clear_color = [1, 2, 3, 255]
`), 0o644))

	cfg, err := LoadApplicationConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "bitmaps", cfg.Name)
	assert.Equal(t, uint32(320), cfg.StartWidth)
	assert.Equal(t, uint32(240), cfg.StartHeight)
	assert.Equal(t, core.DebugLevel, cfg.LogLevel)
	assert.True(t, cfg.Headless)
	assert.Equal(t, uint64(10), cfg.FrameLimit)
	assert.Equal(t, [4]uint8{1, 2, 3, 255}, cfg.ClearColor)
	// untouched keys keep their defaults
	assert.Equal(t, uint32(256), cfg.MaxImageCount)

	filter, err := cfg.TextureFilter()
	require.NoError(t, err)
	assert.Equal(t, metadata.TextureFilterModeLinear, filter)
}

func TestLoadApplicationConfigInvalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte(`filter = "cubic"`), 0o644))
	_, err := LoadApplicationConfig(bad)
	assert.Error(t, err)

	broken := filepath.Join(dir, "broken.toml")
	require.NoError(t, os.WriteFile(broken, []byte(`name = `), 0o644))
	_, err = LoadApplicationConfig(broken)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("ANIMA_LOG_LEVEL=warn\nANIMA_ASSETS_DIR=from-file\n"), 0o644))
	t.Setenv(envAssetsDir, "from-env")

	env, err := envOverrides(envFile, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	cfg := DefaultApplicationConfig()
	cfg.applyEnv(env)
	assert.Equal(t, core.WarnLevel, cfg.LogLevel)
	assert.Equal(t, "from-env", cfg.AssetsDir)
}

func TestHeadlessRun(t *testing.T) {
	assets := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(filepath.Join(assets, "white.png"), buf.Bytes(), 0o644))

	cfg := DefaultApplicationConfig()
	cfg.StartWidth, cfg.StartHeight = 8, 8
	cfg.AssetsDir = assets
	cfg.Headless = true
	cfg.FrameLimit = 3
	cfg.ClearColor = [4]uint8{0, 0, 0, 255}
	cfg.SnapshotPath = filepath.Join(t.TempDir(), "frame.png")

	game := &Game{ApplicationConfig: cfg}
	resized := false
	game.FnOnResize = func(width, height uint32) error {
		resized = width == 8 && height == 8
		return nil
	}
	game.FnInitialize = func() error {
		_, white, err := game.SystemManager.Images().Acquire("white.png")
		if err != nil {
			return err
		}
		white.SetPosition(2, 2)
		return nil
	}
	game.FnRender = func(deltaTime float64) error {
		return game.SystemManager.Images().Draw()
	}

	e, err := New(game)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	require.NoError(t, e.Run())
	assert.True(t, resized)

	assert.Equal(t, uint64(1), e.Metrics().Uploads)
	assert.Equal(t, uint64(3), e.Metrics().Draws)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, e.backend.Frame().RGBAAt(3, 3))
	assert.Equal(t, color.RGBA{A: 255}, e.backend.Frame().RGBAAt(0, 0))

	require.NoError(t, e.Shutdown())
	_, err = os.Stat(cfg.SnapshotPath)
	assert.NoError(t, err)
}

func TestRunRequiresInitialize(t *testing.T) {
	cfg := DefaultApplicationConfig()
	cfg.AssetsDir = t.TempDir()
	cfg.Headless = true

	e, err := New(&Game{ApplicationConfig: cfg})
	require.NoError(t, err)
	assert.Error(t, e.Run())
	require.NoError(t, e.Shutdown())
}
