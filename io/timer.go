package io

import (
	"time"
)

// TIMER_PERIOD is the default interval between timer events.
const TIMER_PERIOD = time.Second

// Timer is a wall-clock Poller that fires once each time more than Period
// has elapsed since it last fired.
type Timer struct {
	Period time.Duration    // Interval between events; TIMER_PERIOD if zero.
	Now    func() time.Time // Clock; time.Now if nil.

	last time.Time
}

var _ Poller = (*Timer)(nil)

func (tm *Timer) now() time.Time {
	if tm.Now != nil {
		return tm.Now()
	}
	return time.Now()
}

func (tm *Timer) period() time.Duration {
	if tm.Period > 0 {
		return tm.Period
	}
	return TIMER_PERIOD
}

// Rewind restarts the interval from now.
func (tm *Timer) Rewind() {
	tm.last = tm.now()
}

// Poll returns true if the interval has elapsed, and starts the next one.
func (tm *Timer) Poll() bool {
	now := tm.now()
	if tm.last.IsZero() {
		tm.last = now
		return false
	}

	if now.Sub(tm.last) > tm.period() {
		tm.last = now
		return true
	}

	return false
}
