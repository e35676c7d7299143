package monitor

import (
	"time"

	"github.com/saturnino-fabrica-de-software/vigia/internal/domain"
)

// Sample is one per-tick analyzer result sent to the aggregator.
// The three producer loops each emit one of the concrete types below.
type Sample interface {
	at() time.Time
}

// FaceSample carries the per-frame face analysis. A nil Pose or Gaze
// means the analyzer produced no reliable signal this tick.
type FaceSample struct {
	At      time.Time
	Elapsed time.Duration
	Count   int
	Pose    *domain.HeadPose
	Gaze    *domain.GazeEstimate
}

// AudioSample carries the per-frame audio classification. A nil
// Classification means no signal this tick.
type AudioSample struct {
	At             time.Time
	Classification *domain.AudioClassification
}

// ObjectSample carries the per-tick object-candidate verdict. A failed
// analysis submits a false candidate, the non-triggering baseline.
type ObjectSample struct {
	At        time.Time
	Candidate bool
	Metrics   *domain.PixelMetrics
}

func (s FaceSample) at() time.Time   { return s.At }
func (s AudioSample) at() time.Time  { return s.At }
func (s ObjectSample) at() time.Time { return s.At }
