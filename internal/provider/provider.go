package provider

import (
	"context"

	"github.com/saturnino-fabrica-de-software/vigia/internal/domain"
)

// FaceProvider define a interface para modelos de detecção facial.
// The monitoring pipeline treats it as a black box: an inference error
// on a tick is downgraded to "zero faces this tick", never fatal.
type FaceProvider interface {
	// DetectFaces detecta faces no frame e retorna informações sobre cada uma.
	// Returns an empty slice when no face is visible (not an error).
	DetectFaces(ctx context.Context, frame *domain.Frame) ([]DetectedFace, error)
}

// DetectedFace represents one detected face in a frame.
//
// Landmarks may be empty when the backing model does not expose a full
// landmark set; the geometry analyzer then reports no reliable pose and
// the aggregator records no signal. Pose, when set, is the model's own
// orientation estimate and takes precedence over the landmark-derived
// one.
type DetectedFace struct {
	BoundingBox domain.BoundingBox `json:"bounding_box"`
	Landmarks   domain.LandmarkSet `json:"landmarks"`
	Descriptor  []float64          `json:"-"`
	Expressions map[string]float64 `json:"expressions,omitempty"`
	Pose        *domain.HeadPose   `json:"pose,omitempty"`
	Confidence  float64            `json:"confidence"`
}
