package rekognition

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/aws/smithy-go"

	"github.com/saturnino-fabrica-de-software/vigia/internal/audit"
	"github.com/saturnino-fabrica-de-software/vigia/internal/domain"
	"github.com/saturnino-fabrica-de-software/vigia/internal/provider"
)

const (
	// maxImageSize is the maximum image size supported by AWS Rekognition (5MB)
	maxImageSize = 5 * 1024 * 1024

	errCodeAccessDenied     = "AccessDeniedException"
	errCodeThrottling       = "ThrottlingException"
	errCodeInvalidParameter = "InvalidParameterException"
)

// Provider implements provider.FaceProvider using AWS Rekognition.
// Rekognition does not expose the 68-point landmark convention, so the
// landmark regions stay empty and the pose comes from the API's own
// orientation estimate.
type Provider struct {
	client      *rekognition.Client
	auditLogger audit.Logger
}

// ProviderOption defines optional configuration for Provider
type ProviderOption func(*Provider)

// WithAuditLogger sets the audit logger for the provider
func WithAuditLogger(logger audit.Logger) ProviderOption {
	return func(p *Provider) {
		p.auditLogger = logger
	}
}

// Ensure Provider implements provider.FaceProvider interface at compile time
var _ provider.FaceProvider = (*Provider)(nil)

// NewProvider creates a new Rekognition provider using the AWS default
// credential chain
func NewProvider(ctx context.Context, cfg Config, opts ...ProviderOption) (*Provider, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	p := &Provider{
		client: rekognition.NewFromConfig(awsCfg),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// DetectFaces detects faces in a frame using the Rekognition DetectFaces API.
// Returns an empty slice when no faces are detected (not an error).
func (p *Provider) DetectFaces(ctx context.Context, frame *domain.Frame) ([]provider.DetectedFace, error) {
	image, err := provider.EncodePNG(frame)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(image) > maxImageSize {
		return nil, fmt.Errorf("%w: image too large (%d bytes, maximum %d)", ErrInvalidImage, len(image), maxImageSize)
	}

	input := &rekognition.DetectFacesInput{
		Image: &types.Image{
			Bytes: image,
		},
		Attributes: []types.Attribute{types.AttributeAll},
	}

	output, err := p.client.DetectFaces(ctx, input)
	if err != nil {
		mapped := mapAPIError(err)
		p.logAudit(ctx, false, mapped, map[string]string{
			"image_size": strconv.Itoa(len(image)),
		})
		return nil, fmt.Errorf("detect faces: %w", mapped)
	}

	faces := make([]provider.DetectedFace, 0, len(output.FaceDetails))
	for _, detail := range output.FaceDetails {
		face := provider.DetectedFace{
			Expressions: mapEmotions(detail.Emotions),
		}
		if detail.BoundingBox != nil {
			// Rekognition boxes are relative to the frame
			face.BoundingBox = domain.BoundingBox{
				X:      float64(*detail.BoundingBox.Left) * float64(frame.Width),
				Y:      float64(*detail.BoundingBox.Top) * float64(frame.Height),
				Width:  float64(*detail.BoundingBox.Width) * float64(frame.Width),
				Height: float64(*detail.BoundingBox.Height) * float64(frame.Height),
			}
		}
		if detail.Pose != nil {
			face.Pose = &domain.HeadPose{
				Pitch: float64(derefFloat(detail.Pose.Pitch)),
				Yaw:   float64(derefFloat(detail.Pose.Yaw)),
				Roll:  float64(derefFloat(detail.Pose.Roll)),
			}
		}
		if detail.Confidence != nil {
			face.Confidence = float64(*detail.Confidence) / 100
		}
		faces = append(faces, face)
	}

	p.logAudit(ctx, true, nil, map[string]string{
		"face_count": strconv.Itoa(len(faces)),
	})

	return faces, nil
}

// logAudit logs an audit event if an audit logger is configured
// Audit failure does not affect the operation (fire-and-forget)
func (p *Provider) logAudit(ctx context.Context, success bool, err error, metadata map[string]string) {
	if p.auditLogger == nil {
		return
	}

	event := audit.Event{
		EventType: audit.EventFaceDetected,
		Provider:  "rekognition",
		Success:   success,
		Metadata:  metadata,
	}

	if err != nil {
		event.Error = err.Error()
	}

	_ = p.auditLogger.Log(ctx, event)
}

func mapAPIError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case errCodeAccessDenied:
			return fmt.Errorf("%w: %v", ErrAccessDenied, err)
		case errCodeThrottling:
			return fmt.Errorf("%w: %v", ErrThrottled, err)
		case errCodeInvalidParameter:
			return fmt.Errorf("%w: %v", ErrInvalidImage, err)
		}
	}
	return err
}

func mapEmotions(emotions []types.Emotion) map[string]float64 {
	if len(emotions) == 0 {
		return nil
	}
	out := make(map[string]float64, len(emotions))
	for _, e := range emotions {
		out[string(e.Type)] = float64(derefFloat(e.Confidence)) / 100
	}
	return out
}

func derefFloat(f *float32) float32 {
	if f == nil {
		return 0
	}
	return *f
}
