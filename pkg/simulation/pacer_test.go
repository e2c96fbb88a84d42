package simulation

import (
	"testing"
	"time"
)

func TestPacer_Ticks(t *testing.T) {
	p := newPacer(100, 8) // 10ms per tick

	steps := []struct {
		elapsed time.Duration
		want    int
	}{
		{35 * time.Millisecond, 3},
		{4 * time.Millisecond, 0}, // carry 9ms
		{time.Millisecond, 1},     // carry reaches a full period
		{0, 0},
		{-time.Second, 0},
		{time.Second, 8}, // capped, backlog dropped
		{10 * time.Millisecond, 1},
	}

	for i, s := range steps {
		if got := p.ticks(s.elapsed); got != s.want {
			t.Fatalf("step %d: ticks(%v) = %d; want %d", i, s.elapsed, got, s.want)
		}
	}
}

func TestPacer_Defaults(t *testing.T) {
	p := newPacer(2e10, 0)
	if p.period != time.Nanosecond {
		t.Errorf("period = %v; want 1ns floor", p.period)
	}
	if p.maxTicks != DefaultMaxCatchUp {
		t.Errorf("maxTicks = %d; want %d", p.maxTicks, DefaultMaxCatchUp)
	}
}
