package flocking

import (
	"math"

	"github.com/lao-tseu-is-alive/go-flocking/pkg/geometry"
)

// Stats summarises the committed state of a flock.
type Stats struct {
	Count        int
	Centroid     geometry.Vector2D // arithmetic mean of positions, ignores wrapping
	MeanSpeed    float64
	MaxAxisSpeed float64 // largest |vx| or |vy|, never above Rules.MaxSpeed after a tick
}

// Stats computes a Stats for the current agents.
func (f *Flock) Stats() Stats {
	return Summarize(f.agents)
}

// Summarize computes a Stats over agents. It returns the zero Stats for an empty slice.
func Summarize(agents []Agent) Stats {
	s := Stats{Count: len(agents)}
	if s.Count == 0 {
		return s
	}
	var sum geometry.Vector2D
	speed := 0.0
	for _, a := range agents {
		sum = sum.Add(a.Position)
		speed += a.Velocity.Len()
		s.MaxAxisSpeed = math.Max(s.MaxAxisSpeed, math.Max(math.Abs(a.Velocity.X), math.Abs(a.Velocity.Y)))
	}
	s.Centroid, _ = sum.Div(float64(s.Count))
	s.MeanSpeed = speed / float64(s.Count)
	return s
}
