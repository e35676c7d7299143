package mock

import (
	"context"
	"crypto/sha256"
	"math"

	"github.com/saturnino-fabrica-de-software/vigia/internal/domain"
	"github.com/saturnino-fabrica-de-software/vigia/internal/provider"
)

const descriptorDimension = 128

// Provider implementa provider.FaceProvider para testes e desenvolvimento.
// It reports FaceCount copies of a synthetic neutral face: pose angles
// near zero, gaze centered, so no temporal condition triggers by itself.
type Provider struct {
	// FaceCount is how many faces DetectFaces reports (default 1)
	FaceCount int
	// Err, when set, is returned by every call
	Err error
}

// New cria uma nova instância do provider com uma face neutra
func New() *Provider {
	return &Provider{FaceCount: 1}
}

// DetectFaces simula detecção de faces no frame
func (p *Provider) DetectFaces(ctx context.Context, frame *domain.Frame) ([]provider.DetectedFace, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	if frame == nil || len(frame.Pixels) == 0 {
		return nil, domain.ErrEmptyFrame
	}

	faces := make([]provider.DetectedFace, 0, p.FaceCount)
	for i := 0; i < p.FaceCount; i++ {
		faces = append(faces, provider.DetectedFace{
			BoundingBox: domain.BoundingBox{X: 120, Y: 150, Width: 180, Height: 300},
			Landmarks:   NeutralLandmarks(),
			Descriptor:  generateDescriptor(frame.Pixels),
			Expressions: map[string]float64{"neutral": 0.92, "happy": 0.05},
			Confidence:  0.99,
		})
	}
	return faces, nil
}

// NeutralLandmarks returns a synthetic landmark set whose derived head
// pose is (0,0,0) and whose gaze classifies as center on both axes.
func NeutralLandmarks() domain.LandmarkSet {
	jaw := make([]domain.Point, 17)
	for i := range jaw {
		t := float64(i) / 16
		jaw[i] = domain.Point{X: 140 + t*140, Y: 150 + 300*math.Sin(t*math.Pi)}
	}
	jaw[0] = domain.Point{X: 210, Y: 150}  // forehead reference
	jaw[8] = domain.Point{X: 210, Y: 450}  // chin
	jaw[16] = domain.Point{X: 280, Y: 150} // jaw end

	nose := make([]domain.Point, 9)
	for i := range nose {
		nose[i] = domain.Point{X: 210, Y: 260 + float64(i)*10}
	}
	nose[4] = domain.Point{X: 210, Y: 300} // nose tip at eye level

	mouth := make([]domain.Point, 20)
	for i := range mouth {
		angle := 2 * math.Pi * float64(i) / 20
		mouth[i] = domain.Point{X: 210 + 30*math.Cos(angle), Y: 400 + 10*math.Sin(angle)}
	}

	return domain.LandmarkSet{
		Jaw:  jaw,
		Nose: nose,
		// Eye points are arranged so each eye's centroid sits exactly on
		// its pupil reference point, which keeps the gaze centered.
		LeftEye: []domain.Point{
			{X: 150, Y: 300}, {X: 140, Y: 295}, {X: 160, Y: 295},
			{X: 140, Y: 305}, {X: 160, Y: 305}, {X: 150, Y: 300},
		},
		RightEye: []domain.Point{
			{X: 260, Y: 295}, {X: 280, Y: 295}, {X: 270, Y: 305},
			{X: 270, Y: 300}, {X: 260, Y: 305}, {X: 280, Y: 305},
		},
		Mouth: mouth,
	}
}

// generateDescriptor gera um descritor determinístico baseado no hash do frame
func generateDescriptor(pixels []byte) []float64 {
	hash := sha256.Sum256(pixels)
	descriptor := make([]float64, descriptorDimension)
	for i := range descriptor {
		b := hash[i%len(hash)]
		descriptor[i] = float64(b)/127.5 - 1
	}
	return descriptor
}
