package simulation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lao-tseu-is-alive/go-flocking/pkg/flocking"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
)

// DefaultFrameBuffer is the number of frames kept for a slow consumer.
const DefaultFrameBuffer = 4

type runnerOptions struct {
	frameBuffer int
	maxCatchUp  int
}

// RunnerOption customises NewRunner.
type RunnerOption func(*runnerOptions)

// WithFrameBuffer sets the capacity of the frame channel (minimum 1).
func WithFrameBuffer(n int) RunnerOption {
	return func(o *runnerOptions) {
		o.frameBuffer = max(n, 1)
	}
}

// WithMaxCatchUp bounds the ticks run for a single Advance call.
func WithMaxCatchUp(n int) RunnerOption {
	return func(o *runnerOptions) {
		o.maxCatchUp = n
	}
}

// Runner drives a Flock through a FlockActor and exposes the resulting frames.
type Runner struct {
	system actor.ActorSystem
	pid    *actor.PID
	frames chan Frame
	logger *zap.Logger
	tps    float64

	stopOnce sync.Once
	stopErr  error
}

// NewRunner starts an actor system and spawns the actor owning flock.
// The caller must not touch flock afterwards.
func NewRunner(ctx context.Context, flock *flocking.Flock, logger *zap.Logger, opts ...RunnerOption) (*Runner, error) {
	o := runnerOptions{frameBuffer: DefaultFrameBuffer, maxCatchUp: DefaultMaxCatchUp}
	for _, opt := range opts {
		opt(&o)
	}

	system, err := actor.NewActorSystem("flocking", actor.WithLogger(golog.DiscardLogger))
	if err != nil {
		return nil, fmt.Errorf("failed to create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start actor system: %w", err)
	}

	frames := make(chan Frame, o.frameBuffer)
	name := "flock-" + uuid.NewString()
	pid, err := system.Spawn(ctx, name, NewFlockActor(flock, frames, o.maxCatchUp, logger.With(zap.String("actor", name))))
	if err != nil {
		_ = system.Stop(ctx)
		return nil, fmt.Errorf("failed to spawn flock actor: %w", err)
	}

	return &Runner{
		system: system,
		pid:    pid,
		frames: frames,
		logger: logger,
		tps:    flock.Config().TicksPerSecond,
	}, nil
}

// Frames delivers the latest frames. Frames are copies and may be kept.
func (r *Runner) Frames() <-chan Frame {
	return r.frames
}

// Tick asks for exactly one simulation step.
func (r *Runner) Tick(ctx context.Context) error {
	if err := actor.Tell(ctx, r.pid, &emptypb.Empty{}); err != nil {
		return fmt.Errorf("failed to send tick: %w", err)
	}
	return nil
}

// Advance asks for as many steps as fit in elapsed at the configured tick rate.
func (r *Runner) Advance(ctx context.Context, elapsed time.Duration) error {
	if err := actor.Tell(ctx, r.pid, durationpb.New(elapsed)); err != nil {
		return fmt.Errorf("failed to send elapsed time: %w", err)
	}
	return nil
}

// Stop shuts the actor system down. Calling it again returns the first result.
func (r *Runner) Stop(ctx context.Context) error {
	r.stopOnce.Do(func() {
		r.stopErr = r.system.Stop(ctx)
	})
	return r.stopErr
}

// Run is the headless loop: one tick per period of the configured rate
// until ctx is done or maxTicks frames have been observed (0 means no limit).
// Stats are logged about once per second.
func (r *Runner) Run(ctx context.Context, maxTicks uint64) error {
	period := time.Duration(float64(time.Second) / r.tps)
	if period <= 0 {
		period = time.Nanosecond
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	var (
		sent    uint64
		last    Frame
		lastLog = time.Now()
	)
	for {
		select {
		case <-ctx.Done():
			r.logFrame("headless run interrupted", last)
			return nil

		case <-ticker.C:
			if maxTicks > 0 && sent >= maxTicks {
				continue
			}
			if err := r.Tick(ctx); err != nil {
				return err
			}
			sent++

		case last = <-r.frames:
			if maxTicks > 0 && last.Tick >= maxTicks {
				r.logFrame("headless run finished", last)
				return nil
			}
			if time.Since(lastLog) >= time.Second {
				r.logFrame("flock stats", last)
				lastLog = time.Now()
			}
		}
	}
}

func (r *Runner) logFrame(msg string, f Frame) {
	r.logger.Info(msg,
		zap.Uint64("tick", f.Tick),
		zap.Int("agents", f.Stats.Count),
		zap.Stringer("centroid", f.Stats.Centroid),
		zap.Float64("meanSpeed", f.Stats.MeanSpeed),
		zap.Float64("maxAxisSpeed", f.Stats.MaxAxisSpeed))
}
