package face

import (
	"context"
	"fmt"

	"github.com/saturnino-fabrica-de-software/vigia/internal/audit"
	"github.com/saturnino-fabrica-de-software/vigia/internal/config"
	"github.com/saturnino-fabrica-de-software/vigia/internal/provider"
	"github.com/saturnino-fabrica-de-software/vigia/internal/provider/facemesh"
	"github.com/saturnino-fabrica-de-software/vigia/internal/provider/mock"
	"github.com/saturnino-fabrica-de-software/vigia/internal/provider/rekognition"
)

// ProviderType defines supported face model provider types
type ProviderType string

const (
	// ProviderTypeFacemesh is the facemesh landmark sidecar (local, full landmark set)
	ProviderTypeFacemesh ProviderType = "facemesh"
	// ProviderTypeRekognition is AWS Rekognition (cloud, pose only)
	ProviderTypeRekognition ProviderType = "rekognition"
	// ProviderTypeMock is the deterministic provider for dev/test
	ProviderTypeMock ProviderType = "mock"
)

// NewFaceProvider creates a FaceProvider instance based on configuration
//
// Environment variables:
//   - FACE_PROVIDER: "facemesh", "rekognition" or "mock" (default: "facemesh")
//   - FACEMESH_URL: facemesh sidecar URL (default: "http://localhost:5005")
//   - AWS_REGION: AWS region for Rekognition (default: "us-east-1")
//   - AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY: via AWS SDK credential chain
func NewFaceProvider(ctx context.Context, cfg *config.Config, auditLogger audit.Logger) (provider.FaceProvider, error) {
	providerType := ProviderType(cfg.FaceProvider)

	switch providerType {
	case ProviderTypeRekognition:
		prov, err := rekognition.NewProvider(ctx,
			rekognition.Config{Region: cfg.AWSRegion},
			rekognition.WithAuditLogger(auditLogger),
		)
		if err != nil {
			return nil, fmt.Errorf("create rekognition provider: %w", err)
		}
		return prov, nil

	case ProviderTypeFacemesh, "":
		// Default to the local landmark sidecar
		fmConfig := facemesh.Config{BaseURL: cfg.FacemeshURL}
		if fmConfig.BaseURL == "" {
			fmConfig.BaseURL = facemesh.DefaultConfig().BaseURL
		}
		return facemesh.NewProvider(fmConfig), nil

	case ProviderTypeMock:
		return mock.New(), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s (supported: %s, %s, %s)",
			cfg.FaceProvider, ProviderTypeFacemesh, ProviderTypeRekognition, ProviderTypeMock)
	}
}
