package flocking

import (
	"testing"

	"github.com/lao-tseu-is-alive/go-flocking/pkg/geometry"
	"github.com/stretchr/testify/assert"
)

func agentAt(x, y, vx, vy float64) Agent {
	return Agent{
		Position: geometry.Vector2D{X: x, Y: y},
		Velocity: geometry.Vector2D{X: vx, Y: vy},
	}
}

func TestAgent_DistanceTo(t *testing.T) {
	a := agentAt(1, 1, 5, 5)
	b := agentAt(4, 5, -1, 0)

	assert.Equal(t, 5.0, a.DistanceTo(b))
	assert.Equal(t, a.DistanceTo(b), b.DistanceTo(a), "distance must be symmetric")
	assert.Zero(t, a.DistanceTo(a), "distance to self")
	assert.Zero(t, a.DistanceTo(agentAt(1, 1, 0, 0)), "velocity plays no part in distance")
}

func TestRules_SelfExclusion(t *testing.T) {
	r := DefaultRules(DefaultBoidSize)
	me := agentAt(100, 100, 3, 4)
	flock := []Agent{me}

	assert.Zero(t, r.Alignment(me, flock))
	assert.Zero(t, r.Cohesion(me, flock))
	assert.Zero(t, r.Separation(me, flock))
	assert.Equal(t, me.Velocity, r.Steer(me, flock))
}

func TestRules_CoincidentAgentsIgnoreEachOther(t *testing.T) {
	r := DefaultRules(DefaultBoidSize)
	me := agentAt(10, 10, 0, 0)
	twin := agentAt(10, 10, 5, -5)
	flock := []Agent{me, twin}

	assert.Zero(t, r.Alignment(me, flock))
	assert.Zero(t, r.Cohesion(me, flock))
	assert.Zero(t, r.Separation(me, flock))
}

func TestRules_RadiusIsExclusive(t *testing.T) {
	r := DefaultRules(DefaultBoidSize)
	me := agentAt(0, 0, 0, 0)

	tests := []struct {
		name   string
		rule   func(Agent, []Agent) geometry.Vector2D
		radius float64
	}{
		{"Alignment", r.Alignment, r.AlignmentRadius},
		{"Cohesion", r.Cohesion, r.CohesionRadius},
		{"Separation", r.Separation, r.SeparationRadius},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			onEdge := agentAt(tt.radius, 0, 1, 1)
			assert.Zero(t, tt.rule(me, []Agent{me, onEdge}), "neighbour exactly on the radius counts")

			inside := agentAt(tt.radius-0.5, 0, 1, 1)
			assert.NotZero(t, tt.rule(me, []Agent{me, inside}), "neighbour inside the radius ignored")
		})
	}
}

func TestRules_Alignment(t *testing.T) {
	r := DefaultRules(DefaultBoidSize)
	me := agentAt(0, 0, 100, 100)
	flock := []Agent{
		me,
		agentAt(1, 0, 2, 0),
		agentAt(0, 1, 4, 6),
		agentAt(500, 500, 99, 99), // out of range
	}

	got := r.Alignment(me, flock)
	assert.Equal(t, geometry.Vector2D{X: 3, Y: 3}, got, "alignment is the mean neighbour velocity, own velocity excluded")
}

func TestRules_Cohesion(t *testing.T) {
	r := DefaultRules(DefaultBoidSize)
	me := agentAt(10, 10, 0, 0)
	flock := []Agent{
		agentAt(12, 10, 0, 0),
		me,
		agentAt(14, 14, 0, 0),
	}

	got := r.Cohesion(me, flock)
	assert.Equal(t, geometry.Vector2D{X: 3, Y: 2}, got, "cohesion points from me to the neighbours' centre")
}

func TestRules_SeparationIsSummed(t *testing.T) {
	r := DefaultRules(DefaultBoidSize)
	me := agentAt(0, 0, 0, 0)

	one := r.Separation(me, []Agent{me, agentAt(1, 0, 0, 0)})
	two := r.Separation(me, []Agent{me, agentAt(1, 0, 0, 0), agentAt(2, 0, 0, 0)})

	assert.Equal(t, geometry.Vector2D{X: -1, Y: 0}, one)
	assert.Equal(t, geometry.Vector2D{X: -3, Y: 0}, two, "more neighbours must push harder")
}

func TestRules_SeparationSign(t *testing.T) {
	r := DefaultRules(DefaultBoidSize)
	left := agentAt(10, 10, 0, 0)
	right := agentAt(15, 10, 0, 0)
	flock := []Agent{left, right}

	assert.Negative(t, r.Separation(left, flock).X, "left agent is pushed further left")
	assert.Positive(t, r.Separation(right, flock).X, "right agent is pushed further right")
}

func TestRules_SteerClampsEachAxis(t *testing.T) {
	r := DefaultRules(DefaultBoidSize)
	me := agentAt(0, 0, 3*r.MaxSpeed, -0.5)

	got := r.Steer(me, []Agent{me})
	assert.Equal(t, geometry.Vector2D{X: r.MaxSpeed, Y: -0.5}, got)

	me.Velocity = geometry.Vector2D{X: -2 * r.MaxSpeed, Y: -2 * r.MaxSpeed}
	got = r.Steer(me, []Agent{me})
	assert.Equal(t, geometry.Vector2D{X: -r.MaxSpeed, Y: -r.MaxSpeed}, got)
}

func TestRules_SteerWeights(t *testing.T) {
	r := DefaultRules(DefaultBoidSize)
	me := agentAt(10, 10, 1, 1)
	other := agentAt(12, 10, 3, 1)
	flock := []Agent{me, other}

	// alignment (3,1)*1 + cohesion (2,0)*0.2 + separation (-2,0)*1
	want := geometry.Vector2D{X: 1 + 3 + 0.4 - 2, Y: 1 + 1}
	got := r.Steer(me, flock)
	assert.InDelta(t, want.X, got.X, 1e-9)
	assert.InDelta(t, want.Y, got.Y, 1e-9)
}
