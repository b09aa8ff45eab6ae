package testbed

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anima2d/engine"
	"github.com/spaghettifunk/anima2d/engine/math"
)

func TestTestbedHeadless(t *testing.T) {
	config := engine.DefaultApplicationConfig()
	config.AssetsDir = filepath.Join("..", "assets")
	config.StartWidth, config.StartHeight = 320, 240
	config.Headless = true
	config.FrameLimit = 5
	config.SnapshotPath = filepath.Join(t.TempDir(), "snapshot.png")

	tg := NewTestGame(config, 42)
	e, err := engine.New(tg.Game)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())

	state := tg.State.(*gameState)
	require.Len(t, state.images, 4)

	require.NoError(t, e.Run())
	assert.Equal(t, uint64(4), e.Metrics().Uploads)
	assert.Equal(t, uint64(20), e.Metrics().Draws)

	spinner, ok := tg.SystemManager.Images().Get(state.spinner)
	require.True(t, ok)
	_, pivot := spinner.Rotation()
	expected := math.RectRotationPoint(spinner.Position().X, spinner.Position().Y, spinner.DisplayWidth(), spinner.DisplayHeight(), math.AnchorCenter)
	assert.Equal(t, expected, pivot)

	require.NoError(t, e.Shutdown())
	assert.Empty(t, state.images)
	assert.FileExists(t, config.SnapshotPath)
}
