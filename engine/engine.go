package engine

import (
	"fmt"
	"image/color"
	"sync/atomic"

	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/platform"
	"github.com/spaghettifunk/anima2d/engine/renderer"
	"github.com/spaghettifunk/anima2d/engine/renderer/software"
	"github.com/spaghettifunk/anima2d/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	isRunning     bool
	stopRequested atomic.Bool
	isSuspended   bool
	platform      *platform.Platform
	backend       *software.SoftwareRenderer
	renderer      *renderer.Renderer
	systemManager *systems.SystemManager
	metrics       *core.Metrics
	width         uint32
	height        uint32
	clock         *core.Clock
	lastTime      float64
	frameCount    uint64
}

func New(g *Game) (*Engine, error) {
	config := g.ApplicationConfig
	if config == nil {
		config = DefaultApplicationConfig()
		g.ApplicationConfig = config
	}
	if err := config.Validate(); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	if err := core.SetLogLevel(config.LogLevel); err != nil {
		return nil, err
	}
	filter, err := config.TextureFilter()
	if err != nil {
		return nil, err
	}

	metrics := core.NewMetrics()
	backend := software.New(software.Config{
		MaxTextures: config.MaxTextures,
		ClearColor:  color.NRGBA{R: config.ClearColor[0], G: config.ClearColor[1], B: config.ClearColor[2], A: config.ClearColor[3]},
	})
	r := renderer.New(backend, metrics)

	sm, err := systems.NewSystemManager(systems.SystemManagerConfig{
		AssetsDir:     config.AssetsDir,
		HotReload:     config.HotReload,
		Filter:        filter,
		MaxImageCount: config.MaxImageCount,
	}, r, core.DefaultLogger())
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	g.SystemManager = sm

	return &Engine{
		currentStage:  EngineStageUninitialized,
		gameInstance:  g,
		clock:         core.NewClock(),
		platform:      platform.New(config.Headless),
		backend:       backend,
		renderer:      r,
		systemManager: sm,
		metrics:       metrics,
		isRunning:     true,
		isSuspended:   false,
		width:         config.StartWidth,
		height:        config.StartHeight,
		lastTime:      0,
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	config := e.gameInstance.ApplicationConfig

	if err := e.platform.Startup(config.Name,
		config.StartPosX,
		config.StartPosY,
		config.StartWidth,
		config.StartHeight); err != nil {
		return err
	}

	if err := e.renderer.Initialize(config.Name, e.width, e.height); err != nil {
		return err
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}

	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
			return err
		}
	}
	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine must be initialized before running")
	}
	e.currentStage = EngineStageRunning

	e.clock.Start()
	e.clock.Update()

	e.lastTime = e.clock.Elapsed()

	frameLimit := e.gameInstance.ApplicationConfig.FrameLimit

	for e.isRunning {
		if e.stopRequested.Load() || !e.platform.PumpMessages() {
			e.isRunning = false
			break
		}
		if width, height, ok := e.platform.Resized(); ok {
			e.onResized(width, height)
		}

		if e.isSuspended {
			e.platform.Sleep(10)
			continue
		}

		// Update clock and get delta time.
		e.clock.Update()

		var currentTime float64 = e.clock.Elapsed()
		var delta float64 = (currentTime - e.lastTime)
		var frameStartTime float64 = platform.GetAbsoluteTime()

		if e.gameInstance.FnUpdate != nil {
			if err := e.gameInstance.FnUpdate(delta); err != nil {
				core.LogError("Game update failed, shutting down: %s", err)
				return err
			}
		}

		e.systemManager.Update()

		if err := e.renderer.BeginFrame(delta); err != nil {
			return err
		}
		// Call the game's render routine.
		if e.gameInstance.FnRender != nil {
			if err := e.gameInstance.FnRender(delta); err != nil {
				core.LogError("Game render failed, shutting down: %s", err)
				return err
			}
		}
		if err := e.renderer.EndFrame(delta); err != nil {
			return err
		}

		// Figure out how long the frame took
		var frameEndTime float64 = platform.GetAbsoluteTime()
		e.metrics.Update(frameEndTime - frameStartTime)
		e.frameCount++

		// Update last time
		e.lastTime = currentTime

		if frameLimit > 0 && e.frameCount >= frameLimit {
			e.isRunning = false
		}
	}

	fps, frameTime := e.metrics.Frame()
	core.LogDebug("ran %d frames, %.1f fps, %.3f ms/frame, %d uploads, %d draws", e.frameCount, fps, frameTime, e.metrics.Uploads, e.metrics.Draws)
	return nil
}

// Stop asks the loop to return after the current frame. It is safe to call
// from any goroutine.
func (e *Engine) Stop() {
	e.stopRequested.Store(true)
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown

	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError(err.Error())
		}
	}
	if path := e.gameInstance.ApplicationConfig.SnapshotPath; path != "" && e.backend.Frame() != nil {
		if err := e.backend.Snapshot(path); err != nil {
			core.LogError("failed to write snapshot `%s`: %s", path, err)
		} else {
			core.LogInfo("last frame written to `%s`", path)
		}
	}
	if err := e.systemManager.Shutdown(); err != nil {
		return err
	}
	if err := e.renderer.Shutdown(); err != nil {
		return err
	}
	if err := e.platform.Shutdown(); err != nil {
		return err
	}
	e.currentStage = EngineStageUninitialized
	return nil
}

// ApplicationGetFramebufferSize returns the width and height (in this order)
// of the application Framebuffer
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) Metrics() *core.Metrics {
	return e.metrics
}

func (e *Engine) onResized(width, height uint32) {
	// Check if different. If so, trigger a resize event.
	if width == e.width && height == e.height {
		return
	}
	e.width = width
	e.height = height

	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(width, height); err != nil {
			core.LogError(err.Error())
		}
	}
	if err := e.renderer.OnResized(width, height); err != nil {
		core.LogError(err.Error())
	}
}
