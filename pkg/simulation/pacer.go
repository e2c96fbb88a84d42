package simulation

import "time"

// DefaultMaxCatchUp bounds the ticks run for a single elapsed-time request,
// so a stalled consumer does not trigger a burst of simulation work.
const DefaultMaxCatchUp = 8

// pacer converts elapsed wall time into a whole number of ticks and carries
// the remainder over to the next request.
type pacer struct {
	period   time.Duration
	carry    time.Duration
	maxTicks int
}

func newPacer(ticksPerSecond float64, maxTicks int) pacer {
	period := time.Duration(float64(time.Second) / ticksPerSecond)
	if period <= 0 {
		period = time.Nanosecond
	}
	if maxTicks <= 0 {
		maxTicks = DefaultMaxCatchUp
	}
	return pacer{period: period, maxTicks: maxTicks}
}

func (p *pacer) ticks(elapsed time.Duration) int {
	if elapsed < 0 {
		return 0
	}
	p.carry += elapsed
	n := int(p.carry / p.period)
	p.carry -= time.Duration(n) * p.period
	if n > p.maxTicks {
		// drop the backlog rather than replay it
		n = p.maxTicks
		p.carry = 0
	}
	return n
}
