package domain

// Point is a 2-D landmark coordinate in frame pixels
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LandmarkSet holds the facial keypoints of one detected face, partitioned
// into the named regions of the 68-point landmark convention.
// It is an immutable snapshot produced by the face model for one frame.
type LandmarkSet struct {
	Jaw      []Point `json:"jaw"`
	LeftEye  []Point `json:"left_eye"`
	RightEye []Point `json:"right_eye"`
	Nose     []Point `json:"nose"`
	Mouth    []Point `json:"mouth"`
}

// Landmark indices used by the geometry analyzer
const (
	// NoseTipIndex is the nose-tip point within the nose region
	NoseTipIndex = 4
	// ChinIndex is the chin point within the jaw outline
	ChinIndex = 8
	// ForeheadIndex is the topmost jaw-outline point
	ForeheadIndex = 0
	// LeftEyeCornerIndex is the outer corner of the left eye region
	LeftEyeCornerIndex = 0
	// RightEyeCornerIndex is the outer corner of the right eye region
	RightEyeCornerIndex = 3
)

// BoundingBox is a face area in frame pixels
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Area returns the box area in square pixels
func (b BoundingBox) Area() float64 {
	return b.Width * b.Height
}

// Frame is one raw RGBA video frame
type Frame struct {
	Pixels []byte
	Width  int
	Height int
}
