package testbed

import (
	"fmt"
	gomath "math"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"

	"github.com/spaghettifunk/anima2d/engine"
	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/math"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

// degrees per second
const spinSpeed float32 = 45.0

type TestGame struct {
	*engine.Game
}

type gameState struct {
	width  uint32
	height uint32

	rng     *rand.Rand
	images  []uuid.UUID
	spinner uuid.UUID
	angle   float32
	elapsed float64
}

func NewTestGame(config *engine.ApplicationConfig, seed uint64) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: config,
			State: &gameState{
				rng: rand.New(rand.NewSource(seed)),
			},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg
}

// Initialize acquires every image of the assets directory and scatters
// them over the window. The first one spins around its center.
func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")

	if g.SystemManager == nil {
		return fmt.Errorf("the engine is not yet initialized with all the system managers ")
	}

	state := g.State.(*gameState)
	config := g.ApplicationConfig

	paths := g.SystemManager.Assets().Assets(metadata.ResourceTypeImage)
	paths = append(paths, g.SystemManager.Assets().Assets(metadata.ResourceTypeTexture)...)
	if len(paths) == 0 {
		core.LogWarn("no images found in `%s`", config.AssetsDir)
	}

	for _, p := range paths {
		id, img, err := g.SystemManager.Images().Acquire(p)
		if err != nil {
			// already reported by the loader
			continue
		}
		maxX := gomath.Max(1, float64(config.StartWidth)-float64(img.Width()))
		maxY := gomath.Max(1, float64(config.StartHeight)-float64(img.Height()))
		img.SetPosition(state.rng.Float32()*float32(maxX), state.rng.Float32()*float32(maxY))
		state.images = append(state.images, id)
	}

	if len(state.images) > 0 {
		state.spinner = state.images[0]
		if img, ok := g.SystemManager.Images().Get(state.spinner); ok {
			img.SetPosition(float32(config.StartWidth)/2-img.DisplayWidth(), float32(config.StartHeight)/2-img.DisplayHeight())
			img.SetSize(img.DisplayWidth()*2, img.DisplayHeight()*2)
		}
	}
	core.LogInfo("testbed loaded %d images", len(state.images))
	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.State.(*gameState)
	state.elapsed += deltaTime

	img, ok := g.SystemManager.Images().Get(state.spinner)
	if !ok {
		return nil
	}
	state.angle += spinSpeed * float32(deltaTime)
	if state.angle >= 360 {
		state.angle -= 360
	}
	img.SetRotation(state.angle, math.AnchorCenter)

	// slow pulse on the green and blue channels
	pulse := float32(0.75 + 0.25*gomath.Sin(state.elapsed*2))
	img.SetTint(math.NewVec4(1, pulse, pulse, 1))
	return nil
}

func (g *TestGame) Render(deltaTime float64) error {
	// failures of single images are logged by the image system
	if err := g.SystemManager.Images().Draw(); err != nil {
		core.LogDebug("frame drawn with errors: %s", err)
	}
	return nil
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	state := g.State.(*gameState)

	state.width = width
	state.height = height

	return nil
}

func (g *TestGame) Shutdown() error {
	state := g.State.(*gameState)
	for _, id := range state.images {
		if err := g.SystemManager.Images().Release(id); err != nil {
			core.LogWarn("failed to release image %s: %s", id, err)
		}
	}
	state.images = nil
	return nil
}
