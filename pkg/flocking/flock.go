// Package flocking simulates a fixed population of boids on a wrapped plane.
//
// Every tick each agent reads the complete pre-tick state of the flock,
// steers with the alignment, cohesion and separation rules, clamps its
// speed, moves by velocity/ticksPerSecond and wraps back into the canvas.
// New states are written into a separate buffer and committed together, so
// the outcome of a tick never depends on the order agents are visited in.
package flocking

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/lao-tseu-is-alive/go-flocking/pkg/geometry"
	"golang.org/x/sync/errgroup"
)

// Flock owns the agents. It is not safe for concurrent use: ticks are
// sequential and the caller serialises Step with the read accessors.
type Flock struct {
	cfg    Config
	agents []Agent // committed state, read-only during a tick
	next   []Agent // write-once buffer for the tick in progress
	rng    *rand.Rand
}

// Option customises a Flock at construction.
type Option func(*Flock)

// WithRand injects the random source used to place the initial agents.
func WithRand(rng *rand.Rand) Option {
	return func(f *Flock) {
		f.rng = rng
	}
}

// WithSeed makes the initial placement reproducible.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// New validates cfg and places cfg.Count agents at random.
func New(cfg Config, opts ...Option) (*Flock, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flock config: %w", err)
	}

	f := &Flock{
		cfg:    cfg,
		agents: make([]Agent, cfg.Count),
		next:   make([]Agent, cfg.Count),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.rng == nil {
		seed := uint64(time.Now().UnixNano())
		f.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}

	for i := range f.agents {
		f.agents[i] = newAgent(f.rng, cfg.Width, cfg.Height, cfg.Rules.BoidSize)
	}
	return f, nil
}

// Config returns the configuration the flock was built with.
func (f *Flock) Config() Config {
	return f.cfg
}

// Len returns the population size.
func (f *Flock) Len() int {
	return len(f.agents)
}

// Step advances the simulation by exactly one tick.
func (f *Flock) Step() {
	n := len(f.agents)
	workers := f.cfg.Workers
	if workers <= 1 || n < 2*workers {
		f.advance(0, n)
	} else {
		var g errgroup.Group
		chunk := (n + workers - 1) / workers
		for lo := 0; lo < n; lo += chunk {
			hi := min(lo+chunk, n)
			g.Go(func() error {
				f.advance(lo, hi)
				return nil
			})
		}
		_ = g.Wait() // workers never fail
	}
	f.agents, f.next = f.next, f.agents
}

// advance computes next[lo:hi] from the committed agents.
func (f *Flock) advance(lo, hi int) {
	for i := lo; i < hi; i++ {
		me := f.agents[i]
		vel := f.cfg.Rules.Steer(me, f.agents)
		delta, _ := vel.Div(f.cfg.TicksPerSecond)
		f.next[i] = Agent{
			Position: f.stayInView(me.Position.Add(delta)),
			Velocity: vel,
		}
	}
}

// stayInView wraps a position that left the canvas back in on the opposite side.
func (f *Flock) stayInView(p geometry.Vector2D) geometry.Vector2D {
	return geometry.Vector2D{
		X: wrap(p.X, f.cfg.Width),
		Y: wrap(p.Y, f.cfg.Height),
	}
}

// wrap brings v into [0, dim) with a single shift. Config.Validate
// guarantees one tick never moves an agent further than dim.
func wrap(v, dim float64) float64 {
	switch {
	case v >= dim:
		v -= dim
	case v < 0:
		v += dim
	}
	// -ε + dim can round to dim
	if v >= dim {
		v = 0
	}
	return v
}

// Snapshot returns a copy of every position in stable agent order.
func (f *Flock) Snapshot() []geometry.Vector2D {
	positions := make([]geometry.Vector2D, len(f.agents))
	for i, a := range f.agents {
		positions[i] = a.Position
	}
	return positions
}

// Agents returns a copy of the full agent state.
func (f *Flock) Agents() []Agent {
	out := make([]Agent, len(f.agents))
	copy(out, f.agents)
	return out
}

// Restore replaces the state of every agent. The population is fixed, so
// agents must have exactly Len() entries, each inside the canvas with every
// velocity component within the speed limit.
func (f *Flock) Restore(agents []Agent) error {
	if len(agents) != len(f.agents) {
		return fmt.Errorf("%w: got %d, want %d", ErrPopulationMismatch, len(agents), len(f.agents))
	}
	limit := f.cfg.Rules.MaxSpeed
	for i, a := range agents {
		p, v := a.Position, a.Velocity
		if !p.IsFinite() || !v.IsFinite() ||
			p.X < 0 || p.X >= f.cfg.Width || p.Y < 0 || p.Y >= f.cfg.Height ||
			math.Abs(v.X) > limit || math.Abs(v.Y) > limit {
			return fmt.Errorf("%w: agent %d at %s moving %s", ErrOutOfBounds, i, p, v)
		}
	}
	copy(f.agents, agents)
	return nil
}
