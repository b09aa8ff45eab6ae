package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

const (
	envLogLevel  = "ANIMA_LOG_LEVEL"
	envAssetsDir = "ANIMA_ASSETS_DIR"
)

type ApplicationConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32 `toml:"start_pos_x"`
	// Window starting position y axis, if applicable.
	StartPosY uint32 `toml:"start_pos_y"`
	// Window starting width, if applicable.
	StartWidth uint32 `toml:"start_width"`
	// Window starting height, if applicable.
	StartHeight uint32 `toml:"start_height"`
	// The application name used in windowing, if applicable.
	Name     string        `toml:"name"`
	LogLevel core.LogLevel `toml:"log_level"`

	AssetsDir string `toml:"assets_dir"`
	// Sampling mode of every image, "nearest" or "linear".
	Filter        string `toml:"filter"`
	MaxImageCount uint32 `toml:"max_image_count"`
	// Maximum number of live textures, 0 means unlimited.
	MaxTextures int      `toml:"max_textures"`
	ClearColor  [4]uint8 `toml:"clear_color"`
	HotReload   bool     `toml:"hot_reload"`

	// Run without a window. FrameLimit stops the loop after that many
	// frames, 0 runs until the window closes.
	Headless   bool   `toml:"headless"`
	FrameLimit uint64 `toml:"frame_limit"`
	// When set, the last frame is written there on shutdown.
	SnapshotPath string `toml:"snapshot_path"`
}

func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		StartPosX:     100,
		StartPosY:     100,
		StartWidth:    1280,
		StartHeight:   720,
		Name:          "Anima",
		LogLevel:      core.InfoLevel,
		AssetsDir:     "assets",
		Filter:        "nearest",
		MaxImageCount: 256,
		ClearColor:    [4]uint8{0x1E, 0x1E, 0x28, 0xFF},
	}
}

// LoadApplicationConfig reads the TOML file at path on top of the
// defaults. A missing file yields the defaults. Values from a `.env` file
// in the working directory, and then from the environment, override the
// log level and the assets directory.
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	cfg := DefaultApplicationConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			core.LogWarn("config file `%s` not found, using defaults", path)
		case err != nil:
			return nil, err
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file `%s`: %w", path, err)
			}
		}
	}

	env, err := envOverrides(".env")
	if err != nil {
		return nil, err
	}
	cfg.applyEnv(env)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envOverrides merges the existing env files with the process environment,
// the latter taking precedence.
func envOverrides(files ...string) (map[string]string, error) {
	vars := make(map[string]string)
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		read, err := godotenv.Read(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read env file `%s`: %w", f, err)
		}
		for k, v := range read {
			vars[k] = v
		}
	}
	for _, k := range []string{envLogLevel, envAssetsDir} {
		if v, ok := os.LookupEnv(k); ok {
			vars[k] = v
		}
	}
	return vars, nil
}

func (c *ApplicationConfig) applyEnv(env map[string]string) {
	if v := env[envLogLevel]; v != "" {
		c.LogLevel = core.LogLevel(v)
	}
	if v := env[envAssetsDir]; v != "" {
		c.AssetsDir = v
	}
}

func (c *ApplicationConfig) Validate() error {
	if c.StartWidth == 0 || c.StartHeight == 0 {
		return fmt.Errorf("invalid window size %dx%d", c.StartWidth, c.StartHeight)
	}
	if c.MaxImageCount == 0 {
		return fmt.Errorf("max_image_count must be > 0")
	}
	if _, err := c.TextureFilter(); err != nil {
		return err
	}
	switch c.LogLevel {
	case core.DebugLevel, core.InfoLevel, core.WarnLevel, core.ErrorLevel:
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return nil
}

func (c *ApplicationConfig) TextureFilter() (metadata.TextureFilter, error) {
	return metadata.ParseTextureFilter(c.Filter)
}
