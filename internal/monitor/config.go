package monitor

import "time"

// Config holds the temporal thresholds and producer cadences of a
// monitoring session. The defaults reproduce the calibrated behavior;
// deployments override them through the service configuration.
type Config struct {
	// HeadMovementDuration is how long the same head direction must hold
	// continuously before a head-moving event fires
	HeadMovementDuration time.Duration

	// EyeDownDuration is how long the gaze must stay down continuously
	// before a looking-down event fires
	EyeDownDuration time.Duration

	// DetectionFrameThreshold is the object-detection window capacity;
	// a detection requires this many consecutive candidate ticks
	DetectionFrameThreshold int

	// FaceInterval, ObjectInterval and AudioInterval are the cadences of
	// the three producer loops
	FaceInterval   time.Duration
	ObjectInterval time.Duration
	AudioInterval  time.Duration

	// AudioEventDebounce suppresses repeated audio events within the
	// given cooldown. Zero keeps the original per-tick behavior, which
	// appends one event on every tick the condition holds.
	AudioEventDebounce time.Duration
}

func DefaultConfig() Config {
	return Config{
		HeadMovementDuration:    3 * time.Second,
		EyeDownDuration:         5 * time.Second,
		DetectionFrameThreshold: 3,
		FaceInterval:            33 * time.Millisecond,
		ObjectInterval:          500 * time.Millisecond,
		AudioInterval:           100 * time.Millisecond,
		AudioEventDebounce:      0,
	}
}
