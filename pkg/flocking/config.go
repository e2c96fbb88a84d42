package flocking

import (
	"errors"
	"fmt"
	"math"
)

// Default constants. Radii and max speed are multiples of the marker size.
const (
	DefaultBoidSize = 7.0

	AlignmentRadiusFactor  = 8.0
	CohesionRadiusFactor   = 8.0
	SeparationRadiusFactor = 5.0
	MaxSpeedFactor         = 4.0

	AlignmentWeight  = 1.0
	CohesionWeight   = 0.2
	SeparationWeight = 1.0

	DefaultWidth          = 600
	DefaultHeight         = 600
	DefaultCount          = 80
	DefaultTicksPerSecond = 120
)

var (
	ErrInvalidDimensions  = errors.New("canvas width and height must be positive and finite")
	ErrInvalidPopulation  = errors.New("population count must not be negative")
	ErrInvalidTickRate    = errors.New("ticks per second must be positive and finite")
	ErrInvalidRules       = errors.New("invalid flocking rules")
	ErrWrapOverflow       = errors.New("max speed per tick exceeds the canvas")
	ErrPopulationMismatch = errors.New("agent count does not match the flock population")
	ErrOutOfBounds        = errors.New("agent state outside the canvas or speed limit")
)

// Rules holds the constants of the three influence zones.
type Rules struct {
	BoidSize float64 // marker diameter, also the unit of the derived radii

	AlignmentRadius  float64
	CohesionRadius   float64
	SeparationRadius float64

	AlignmentWeight  float64
	CohesionWeight   float64
	SeparationWeight float64

	MaxSpeed float64 // per-axis bound on velocity
}

// DefaultRules derives radii and max speed from boidSize and uses the default weights.
func DefaultRules(boidSize float64) Rules {
	return Rules{
		BoidSize:         boidSize,
		AlignmentRadius:  boidSize * AlignmentRadiusFactor,
		CohesionRadius:   boidSize * CohesionRadiusFactor,
		SeparationRadius: boidSize * SeparationRadiusFactor,
		AlignmentWeight:  AlignmentWeight,
		CohesionWeight:   CohesionWeight,
		SeparationWeight: SeparationWeight,
		MaxSpeed:         boidSize * MaxSpeedFactor,
	}
}

// Validate checks that every constant is finite and within range.
func (r Rules) Validate() error {
	values := []struct {
		name string
		v    float64
	}{
		{"boid size", r.BoidSize},
		{"alignment radius", r.AlignmentRadius},
		{"cohesion radius", r.CohesionRadius},
		{"separation radius", r.SeparationRadius},
		{"alignment weight", r.AlignmentWeight},
		{"cohesion weight", r.CohesionWeight},
		{"separation weight", r.SeparationWeight},
		{"max speed", r.MaxSpeed},
	}
	for _, f := range values {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v < 0 {
			return fmt.Errorf("%w: %s is %v", ErrInvalidRules, f.name, f.v)
		}
	}
	if r.BoidSize == 0 {
		return fmt.Errorf("%w: boid size must be positive", ErrInvalidRules)
	}
	if r.MaxSpeed == 0 {
		return fmt.Errorf("%w: max speed must be positive", ErrInvalidRules)
	}
	return nil
}

// Config is fixed for the lifetime of a Flock.
type Config struct {
	Width          float64
	Height         float64
	Count          int
	TicksPerSecond float64
	Rules          Rules

	// Workers > 1 splits the neighbour scan across goroutines.
	Workers int
}

// DefaultConfig returns the 600x600, 80 boids, 120 ticks per second setup.
func DefaultConfig() Config {
	return Config{
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		Count:          DefaultCount,
		TicksPerSecond: DefaultTicksPerSecond,
		Rules:          DefaultRules(DefaultBoidSize),
		Workers:        1,
	}
}

// Validate rejects configurations that would produce degenerate geometry.
//
// Wrapping is a single subtraction or addition per axis, so the largest
// displacement per tick (MaxSpeed/TicksPerSecond) must not exceed the
// smaller canvas dimension.
func (c Config) Validate() error {
	if !positive(c.Width) || !positive(c.Height) {
		return fmt.Errorf("%w: got %vx%v", ErrInvalidDimensions, c.Width, c.Height)
	}
	if c.Count < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidPopulation, c.Count)
	}
	if !positive(c.TicksPerSecond) {
		return fmt.Errorf("%w: got %v", ErrInvalidTickRate, c.TicksPerSecond)
	}
	if err := c.Rules.Validate(); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidRules, c.Workers)
	}
	if stride := c.Rules.MaxSpeed / c.TicksPerSecond; stride > math.Min(c.Width, c.Height) {
		return fmt.Errorf("%w: %v per tick on a %vx%v canvas", ErrWrapOverflow, stride, c.Width, c.Height)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
