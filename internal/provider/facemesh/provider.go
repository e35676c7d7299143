package facemesh

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/saturnino-fabrica-de-software/vigia/internal/domain"
	"github.com/saturnino-fabrica-de-software/vigia/internal/provider"
)

// landmarkCount is the 68-point landmark convention the sidecar emits
const landmarkCount = 68

// Region boundaries within the 68-point set
const (
	jawStart      = 0
	jawEnd        = 17
	noseStart     = 27
	noseEnd       = 36
	leftEyeStart  = 36
	leftEyeEnd    = 42
	rightEyeStart = 42
	rightEyeEnd   = 48
	mouthStart    = 48
	mouthEnd      = 68
)

// Provider implements provider.FaceProvider against a facemesh landmark
// sidecar (an HTTP service wrapping a MediaPipe-style face mesh model)
type Provider struct {
	client *Client
}

// Ensure Provider implements provider.FaceProvider interface at compile time
var _ provider.FaceProvider = (*Provider)(nil)

// NewProvider creates a facemesh provider with the given configuration
func NewProvider(config Config) *Provider {
	if config.BaseURL == "" {
		config.BaseURL = DefaultConfig().BaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	return &Provider{client: NewClient(config)}
}

// DetectFaces locates faces in the frame and maps each landmark array
// into the named regions the geometry analyzer consumes
func (p *Provider) DetectFaces(ctx context.Context, frame *domain.Frame) ([]provider.DetectedFace, error) {
	encoded, err := provider.EncodePNG(frame)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImageFormat, err)
	}

	resp, err := p.client.Detect(ctx, base64.StdEncoding.EncodeToString(encoded))
	if err != nil {
		return nil, fmt.Errorf("facemesh detect: %w", err)
	}

	faces := make([]provider.DetectedFace, 0, len(resp.Faces))
	for _, f := range resp.Faces {
		faces = append(faces, provider.DetectedFace{
			BoundingBox: domain.BoundingBox{
				X:      float64(f.Region.X),
				Y:      float64(f.Region.Y),
				Width:  float64(f.Region.W),
				Height: float64(f.Region.H),
			},
			Landmarks:   mapLandmarks(f.Landmarks),
			Descriptor:  f.Descriptor,
			Expressions: f.Expressions,
			Confidence:  f.Confidence,
		})
	}
	return faces, nil
}

// mapLandmarks slices the flat 68-point array into named regions.
// An incomplete array yields an empty set, which the geometry analyzer
// rejects as insufficient.
func mapLandmarks(raw [][2]float64) domain.LandmarkSet {
	if len(raw) < landmarkCount {
		return domain.LandmarkSet{}
	}

	points := make([]domain.Point, landmarkCount)
	for i := range points {
		points[i] = domain.Point{X: raw[i][0], Y: raw[i][1]}
	}

	return domain.LandmarkSet{
		Jaw:      points[jawStart:jawEnd],
		Nose:     points[noseStart:noseEnd],
		LeftEye:  points[leftEyeStart:leftEyeEnd],
		RightEye: points[rightEyeStart:rightEyeEnd],
		Mouth:    points[mouthStart:mouthEnd],
	}
}
