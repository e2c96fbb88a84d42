package simulation

import (
	"github.com/lao-tseu-is-alive/go-flocking/pkg/flocking"
	"github.com/lao-tseu-is-alive/go-flocking/pkg/geometry"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
)

// Frame is what the renderer gets after a tick: copies only.
type Frame struct {
	Tick      uint64
	Positions []geometry.Vector2D
	Headings  []float64 // velocity angle in radians, same order as Positions
	Stats     flocking.Stats
}

// FlockActor owns the Flock. Its mailbox serialises every tick request, so
// ticks never overlap whatever goroutine asks for them.
//
// Messages:
//   - *emptypb.Empty: run one tick
//   - *durationpb.Duration: run as many ticks as fit in the elapsed time
type FlockActor struct {
	flock   *flocking.Flock
	frames  chan Frame
	logger  *zap.Logger
	pacer   pacer
	tick    uint64
	dropped uint64
}

var _ actor.Actor = (*FlockActor)(nil)

// NewFlockActor wraps flock. Frames are published on frames, dropping the
// oldest one when the consumer lags behind.
func NewFlockActor(flock *flocking.Flock, frames chan Frame, maxCatchUp int, logger *zap.Logger) *FlockActor {
	return &FlockActor{
		flock:  flock,
		frames: frames,
		logger: logger,
		pacer:  newPacer(flock.Config().TicksPerSecond, maxCatchUp),
	}
}

func (a *FlockActor) PreStart(ctx *actor.Context) error {
	a.logger.Debug("flock actor starting", zap.String("actor", ctx.ActorName()))
	return nil
}

func (a *FlockActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		cfg := a.flock.Config()
		a.logger.Info("flock ready",
			zap.Int("agents", a.flock.Len()),
			zap.Float64("width", cfg.Width),
			zap.Float64("height", cfg.Height),
			zap.Float64("ticksPerSecond", cfg.TicksPerSecond),
			zap.Int("workers", cfg.Workers))

	case *emptypb.Empty:
		a.advance(1)

	case *durationpb.Duration:
		if err := msg.CheckValid(); err != nil {
			a.logger.Warn("ignoring invalid elapsed time", zap.Error(err))
			return
		}
		a.advance(a.pacer.ticks(msg.AsDuration()))

	default:
		ctx.Unhandled()
	}
}

func (a *FlockActor) PostStop(ctx *actor.Context) error {
	a.logger.Info("flock stopped",
		zap.Uint64("ticks", a.tick),
		zap.Uint64("droppedFrames", a.dropped))
	return nil
}

func (a *FlockActor) advance(ticks int) {
	if ticks <= 0 {
		return
	}
	for range ticks {
		a.flock.Step()
		a.tick++
	}
	a.publish(a.frame())
}

func (a *FlockActor) frame() Frame {
	agents := a.flock.Agents()
	headings := make([]float64, len(agents))
	for i, ag := range agents {
		headings[i] = ag.Velocity.Angle()
	}
	return Frame{
		Tick:      a.tick,
		Positions: a.flock.Snapshot(),
		Headings:  headings,
		Stats:     flocking.Summarize(agents),
	}
}

// publish never blocks the mailbox: when the buffer is full the oldest
// frame is discarded so the newest one always gets through.
func (a *FlockActor) publish(f Frame) {
	select {
	case a.frames <- f:
		return
	default:
	}
	select {
	case <-a.frames:
		a.dropped++
	default:
	}
	select {
	case a.frames <- f:
	default:
		a.dropped++ // unbuffered channel with nobody reading
	}
}
