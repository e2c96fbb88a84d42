// Package render draws a running flock in an ebiten window.
package render

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-flocking/pkg/flocking"
	"github.com/lao-tseu-is-alive/go-flocking/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-flocking/pkg/ui"
	"go.uber.org/zap"
)

var (
	background   = color.RGBA{R: 18, G: 18, B: 24, A: 255}
	boidColor    = color.RGBA{R: 100, G: 200, B: 255, A: 255}
	headingColor = color.RGBA{R: 255, G: 200, B: 0, A: 255}
)

// Game implements ebiten.Game on top of a simulation.Runner.
// Each Update forwards the wall time elapsed since the previous one, so the
// flock keeps its configured tick rate whatever rate ebiten updates at.
type Game struct {
	ctx        context.Context
	runner     *simulation.Runner
	cfg        flocking.Config
	logger     *zap.Logger
	last       simulation.Frame
	lastUpdate time.Time

	panel       *ui.UIPanel
	pause       *ui.Checkbox
	stats       *ui.Checkbox
	headings    *ui.Checkbox
	step        *ui.Button
	stepPending bool

	// Timing instrumentation
	updateAvg float64 // rolling average in ms
	drawAvg   float64
}

// NewGame builds the window model. The runner's lifecycle stays with the caller.
func NewGame(ctx context.Context, runner *simulation.Runner, cfg flocking.Config, logger *zap.Logger) *Game {
	g := &Game{
		ctx:    ctx,
		runner: runner,
		cfg:    cfg,
		logger: logger,
	}
	g.lastUpdate = time.Now()

	g.panel = ui.NewUIPanel(10, 10, 200, "Flocking")
	g.panel.AddSection("Run")
	g.pause = g.panel.AddCheckbox("Pause [space]", false)
	g.step = g.panel.AddButton("Step [->]", func() { g.stepPending = true })
	g.panel.AddSection("Display")
	g.stats = g.panel.AddCheckbox("Stats", true)
	g.headings = g.panel.AddCheckbox("Headings", false)
	return g
}

// Paused reports whether ticking is suspended.
func (g *Game) Paused() bool {
	return g.pause.Value
}

// Frame returns the newest frame received so far.
func (g *Game) Frame() simulation.Frame {
	return g.last
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	g.handleKeys(inpututil.IsKeyJustPressed(ebiten.KeySpace), inpututil.IsKeyJustPressed(ebiten.KeyArrowRight))
	g.panel.Update()

	elapsed := start.Sub(g.lastUpdate)
	g.lastUpdate = start
	return g.advance(elapsed)
}

// handleKeys applies the pause toggle before the step key, so both in the
// same frame pause and then step once.
func (g *Game) handleKeys(togglePause, step bool) {
	if togglePause {
		g.pause.Toggle()
	}
	g.step.Enabled = g.Paused()
	if step {
		g.step.Click()
	}
}

// advance forwards elapsed to the runner, or a single tick on a step request
// while paused, then keeps the newest published frame.
func (g *Game) advance(elapsed time.Duration) error {
	g.step.Enabled = g.Paused()

	var err error
	switch {
	case !g.Paused():
		err = g.runner.Advance(g.ctx, elapsed)
	case g.stepPending:
		err = g.runner.Tick(g.ctx)
	}
	g.stepPending = false
	if err != nil {
		g.logger.Error("tick failed", zap.Error(err))
		return fmt.Errorf("tick: %w", err)
	}
	g.drainFrames()
	return nil
}

func (g *Game) drainFrames() {
	for {
		select {
		case f := <-g.runner.Frames():
			g.last = f
		default:
			return
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	screen.Fill(background)

	size := g.cfg.Rules.BoidSize
	for i, p := range g.last.Positions {
		vector.FillCircle(screen, float32(p.X), float32(p.Y), float32(size/2), boidColor, true)
		if g.headings.Value && i < len(g.last.Headings) {
			h := g.last.Headings[i]
			vector.StrokeLine(screen,
				float32(p.X), float32(p.Y),
				float32(p.X+math.Cos(h)*size), float32(p.Y+math.Sin(h)*size),
				1, headingColor, true)
		}
	}

	g.panel.Lines = g.panel.Lines[:0]
	if g.stats.Value {
		s := g.last.Stats
		g.panel.Lines = append(g.panel.Lines,
			fmt.Sprintf("tick   %d", g.last.Tick),
			fmt.Sprintf("boids  %d", s.Count),
			fmt.Sprintf("center %.0f,%.0f", s.Centroid.X, s.Centroid.Y),
			fmt.Sprintf("speed  %.2f", s.MeanSpeed),
		)
	}
	g.panel.Draw(screen)

	msg := fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nUpdate: %.2fms\nDraw:   %.2fms",
		ebiten.ActualFPS(), ebiten.ActualTPS(), g.updateAvg, g.drawAvg)
	ebitenutil.DebugPrintAt(screen, msg, int(g.cfg.Width)-120, 10)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return int(g.cfg.Width), int(g.cfg.Height)
}
