package flocking

import (
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-flocking/pkg/geometry"
)

// Agent is one boid: a position and a velocity, nothing else.
// Boids is an artificial life program, developed by Craig Reynolds in 1986,
// which simulates the flocking behaviour of birds. https://en.wikipedia.org/wiki/Boids
type Agent struct {
	Position geometry.Vector2D `json:"position"`
	Velocity geometry.Vector2D `json:"velocity"`
}

// newAgent places an agent uniformly inside width x height with velocity
// components uniform in [0, boidSize).
func newAgent(rng *rand.Rand, width, height, boidSize float64) Agent {
	return Agent{
		Position: geometry.Vector2D{
			X: wrap(rng.Float64()*width, width),
			Y: wrap(rng.Float64()*height, height),
		},
		Velocity: geometry.Vector2D{
			X: rng.Float64() * boidSize,
			Y: rng.Float64() * boidSize,
		},
	}
}

// DistanceTo gives the Euclidean distance between the two positions.
// It is zero for the agent itself.
func (a Agent) DistanceTo(other Agent) float64 {
	return a.Position.DistanceTo(other.Position)
}
