package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHysteresisTimer_FiresWhenStrictlyPastThreshold(t *testing.T) {
	timer := NewHysteresisTimer("head_direction", 3*time.Second)

	// Three one-second ticks reach exactly the threshold without firing
	assert.False(t, timer.Observe(true, time.Second))
	assert.False(t, timer.Observe(true, time.Second))
	assert.False(t, timer.Observe(true, time.Second))
	assert.Equal(t, 3*time.Second, timer.Accumulated())

	// The fourth tick crosses it
	assert.True(t, timer.Observe(true, time.Second))
}

func TestHysteresisTimer_FiresOnce(t *testing.T) {
	timer := NewHysteresisTimer("gaze_down", time.Second)

	assert.False(t, timer.Observe(true, time.Second))
	assert.True(t, timer.Observe(true, time.Second))

	// The condition keeps holding but the timer stays quiet
	assert.False(t, timer.Observe(true, time.Second))
	assert.False(t, timer.Observe(true, time.Second))
	assert.Equal(t, 4*time.Second, timer.Accumulated())
}

func TestHysteresisTimer_ResetsWhenNotHeld(t *testing.T) {
	timer := NewHysteresisTimer("head_direction", 2*time.Second)

	assert.False(t, timer.Observe(true, time.Second))
	assert.False(t, timer.Observe(true, time.Second))

	// One missed tick drops all accumulated time
	assert.False(t, timer.Observe(false, time.Second))
	assert.Equal(t, time.Duration(0), timer.Accumulated())

	// Back to the full wait
	assert.False(t, timer.Observe(true, time.Second))
	assert.False(t, timer.Observe(true, time.Second))
	assert.True(t, timer.Observe(true, time.Second))
}

func TestHysteresisTimer_RearmsAfterReset(t *testing.T) {
	timer := NewHysteresisTimer("gaze_down", time.Second)

	assert.False(t, timer.Observe(true, time.Second))
	assert.True(t, timer.Observe(true, time.Second))
	assert.False(t, timer.Observe(true, time.Second))

	timer.Reset()

	assert.False(t, timer.Observe(true, time.Second))
	assert.True(t, timer.Observe(true, time.Second))
}

func TestHysteresisTimer_Label(t *testing.T) {
	timer := NewHysteresisTimer("head_direction", time.Second)
	assert.Equal(t, "head_direction", timer.Label())
}
