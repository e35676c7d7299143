package monitor

import "time"

// HysteresisTimer accumulates how long a condition has held continuously
// and resets to zero the instant it is not observed. It fires exactly
// once when the accumulated time first strictly exceeds the threshold,
// and re-arms only after a reset.
type HysteresisTimer struct {
	label       string
	threshold   time.Duration
	accumulated time.Duration
	fired       bool
}

func NewHysteresisTimer(label string, threshold time.Duration) *HysteresisTimer {
	return &HysteresisTimer{label: label, threshold: threshold}
}

// Observe records one tick. held is whether the condition was observed
// this tick and dt the elapsed tick period. Returns true on the single
// tick where the timer crosses its threshold.
func (t *HysteresisTimer) Observe(held bool, dt time.Duration) bool {
	if !held {
		t.Reset()
		return false
	}

	t.accumulated += dt
	if !t.fired && t.accumulated > t.threshold {
		t.fired = true
		return true
	}
	return false
}

func (t *HysteresisTimer) Reset() {
	t.accumulated = 0
	t.fired = false
}

func (t *HysteresisTimer) Label() string {
	return t.label
}

func (t *HysteresisTimer) Accumulated() time.Duration {
	return t.accumulated
}
