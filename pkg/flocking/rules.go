package flocking

import "github.com/lao-tseu-is-alive/go-flocking/pkg/geometry"

// Each rule scans the whole pre-tick flock and only counts neighbours with
// 0 < distance < radius, so an agent never influences itself and two agents
// sharing a position ignore each other.

// Alignment returns the average velocity of the neighbours inside
// AlignmentRadius, or the zero vector when there are none.
func (r Rules) Alignment(me Agent, flock []Agent) geometry.Vector2D {
	var sum geometry.Vector2D
	count := 0
	for _, other := range flock {
		if d := me.DistanceTo(other); d > 0 && d < r.AlignmentRadius {
			sum = sum.Add(other.Velocity)
			count++
		}
	}
	if count == 0 {
		return geometry.Vector2D{}
	}
	avg, _ := sum.Div(float64(count))
	return avg
}

// Cohesion returns the vector from me to the average position of the
// neighbours inside CohesionRadius, or the zero vector when there are none.
func (r Rules) Cohesion(me Agent, flock []Agent) geometry.Vector2D {
	var sum geometry.Vector2D
	count := 0
	for _, other := range flock {
		if d := me.DistanceTo(other); d > 0 && d < r.CohesionRadius {
			sum = sum.Add(other.Position)
			count++
		}
	}
	if count == 0 {
		return geometry.Vector2D{}
	}
	center, _ := sum.Div(float64(count))
	return center.Sub(me.Position)
}

// Separation returns the sum of (me - neighbour) over the neighbours inside
// SeparationRadius.
//
// Unlike Alignment and Cohesion the result is summed, not averaged: the push
// grows with the number of crowding neighbours.
func (r Rules) Separation(me Agent, flock []Agent) geometry.Vector2D {
	var push geometry.Vector2D
	for _, other := range flock {
		if d := me.DistanceTo(other); d > 0 && d < r.SeparationRadius {
			push = push.Add(me.Position.Sub(other.Position))
		}
	}
	return push
}

// Steer combines the three rules with their weights into me's next velocity,
// clipped per axis to [-MaxSpeed, MaxSpeed].
func (r Rules) Steer(me Agent, flock []Agent) geometry.Vector2D {
	v := me.Velocity.
		Add(r.Alignment(me, flock).Mul(r.AlignmentWeight)).
		Add(r.Cohesion(me, flock).Mul(r.CohesionWeight)).
		Add(r.Separation(me, flock).Mul(r.SeparationWeight))
	return v.ClampAxes(-r.MaxSpeed, r.MaxSpeed)
}
