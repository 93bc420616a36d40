package planner

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
)

// stepTimer accumulates per-phase wall time across steps. Purely
// informational; it never feeds back into planning decisions.
type stepTimer struct {
	clock     clock.Clock
	durations map[string]time.Duration
	counts    map[string]int
}

func newStepTimer(c clock.Clock) *stepTimer {
	if c == nil {
		c = clock.New()
	}
	return &stepTimer{
		clock:     c,
		durations: map[string]time.Duration{},
		counts:    map[string]int{},
	}
}

// phase starts timing a named phase and returns its stop function.
func (st *stepTimer) phase(name string) func() {
	start := st.clock.Now()
	return func() {
		st.durations[name] += st.clock.Since(start)
		st.counts[name]++
	}
}

// log emits the accumulated timings at debug level.
func (st *stepTimer) log(logger golog.Logger) {
	for name, d := range st.durations {
		logger.Debugw("phase timing", "phase", name, "total", d, "count", st.counts[name])
	}
}
