package render

import (
	"context"
	"testing"
	"time"

	"github.com/lao-tseu-is-alive/go-flocking/pkg/flocking"
	"github.com/lao-tseu-is-alive/go-flocking/pkg/simulation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() flocking.Config {
	cfg := flocking.DefaultConfig()
	cfg.Width, cfg.Height, cfg.Count = 320, 240, 10
	cfg.TicksPerSecond = 100 // 10ms per tick
	return cfg
}

func newTestGame(t *testing.T, cfg flocking.Config) *Game {
	t.Helper()
	ctx := context.Background()

	flock, err := flocking.New(cfg, flocking.WithSeed(5))
	require.NoError(t, err)

	runner, err := simulation.NewRunner(ctx, flock, zap.NewNop(), simulation.WithFrameBuffer(32))
	require.NoError(t, err)
	t.Cleanup(func() { _ = runner.Stop(ctx) })

	return NewGame(ctx, runner, cfg, zap.NewNop())
}

// waitTick drains frames until the newest one reaches tick.
func waitTick(t *testing.T, g *Game, tick uint64) {
	t.Helper()
	require.Eventually(t, func() bool {
		g.drainFrames()
		return g.Frame().Tick >= tick
	}, 5*time.Second, 5*time.Millisecond)
	assert.Equal(t, tick, g.Frame().Tick)
}

// assertStillAt checks that no further frame shows up.
func assertStillAt(t *testing.T, g *Game, tick uint64) {
	t.Helper()
	time.Sleep(20 * time.Millisecond)
	g.drainFrames()
	assert.Equal(t, tick, g.Frame().Tick)
}

func TestGame_AdvanceFollowsElapsedTime(t *testing.T) {
	g := newTestGame(t, testConfig())

	for range 3 {
		require.NoError(t, g.advance(10*time.Millisecond))
	}
	waitTick(t, g, 3)
	assert.Len(t, g.Frame().Positions, 10)
	assert.False(t, g.step.Enabled, "step is only offered while paused")

	require.NoError(t, g.advance(25*time.Millisecond))
	waitTick(t, g, 5)
}

func TestGame_FractionalTickRate(t *testing.T) {
	cfg := testConfig()
	cfg.TicksPerSecond = 2.5 // 400ms per tick
	g := newTestGame(t, cfg)

	require.NoError(t, g.advance(time.Second))
	waitTick(t, g, 2)

	// 200ms carried over plus 200ms completes a third period
	require.NoError(t, g.advance(200*time.Millisecond))
	waitTick(t, g, 3)
}

func TestGame_PauseAndStep(t *testing.T) {
	g := newTestGame(t, testConfig())

	require.NoError(t, g.advance(10*time.Millisecond))
	waitTick(t, g, 1)

	g.handleKeys(true, false)
	require.True(t, g.Paused())
	for range 5 {
		require.NoError(t, g.advance(time.Second))
	}
	assertStillAt(t, g, 1)

	g.handleKeys(false, true)
	require.NoError(t, g.advance(0))
	waitTick(t, g, 2)

	// a step is consumed by a single advance
	require.NoError(t, g.advance(0))
	assertStillAt(t, g, 2)
}

func TestGame_PauseAndStepInOneFrame(t *testing.T) {
	g := newTestGame(t, testConfig())

	g.handleKeys(true, true)
	require.True(t, g.Paused())
	require.NoError(t, g.advance(time.Second))
	waitTick(t, g, 1)
	assertStillAt(t, g, 1)
}

func TestGame_Layout(t *testing.T) {
	g := newTestGame(t, testConfig())
	w, h := g.Layout(1920, 1080)
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)
}
