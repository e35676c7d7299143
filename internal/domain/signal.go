package domain

// HeadPose represents face orientation angles in degrees.
// Zero on all axes means the face is squarely towards the camera.
type HeadPose struct {
	Pitch float64 `json:"pitch"` // up/down rotation
	Yaw   float64 `json:"yaw"`   // left/right rotation
	Roll  float64 `json:"roll"`  // tilted rotation
}

// Direction is the coarse head-direction classification derived from a pose
type Direction string

const (
	DirectionNone  Direction = "none"
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// GazeVertical is the vertical component of an eye-gaze estimate
type GazeVertical string

const (
	GazeUp      GazeVertical = "up"
	GazeDown    GazeVertical = "down"
	GazeVCenter GazeVertical = "center"
)

// GazeHorizontal is the horizontal component of an eye-gaze estimate
type GazeHorizontal string

const (
	GazeLeft    GazeHorizontal = "left"
	GazeRight   GazeHorizontal = "right"
	GazeHCenter GazeHorizontal = "center"
)

// GazeEstimate is the per-frame eye-gaze classification of one face
type GazeEstimate struct {
	Vertical   GazeVertical   `json:"vertical"`
	Horizontal GazeHorizontal `json:"horizontal"`
}

// AudioFrame is one analysis window of frequency-bin magnitudes (0-255)
type AudioFrame []float64

// AudioLevel is the coarse volume classification of one audio frame
type AudioLevel string

const (
	AudioLow    AudioLevel = "low"
	AudioMedium AudioLevel = "medium"
	AudioHigh   AudioLevel = "high"
)

// AudioClassification is the per-frame result of the audio classifier
type AudioClassification struct {
	Level          AudioLevel `json:"level"`
	Volume         float64    `json:"volume"`
	MultipleVoices bool       `json:"multiple_voices"`
}

// PixelMetrics holds the frame heuristics computed by the pixel detector.
// All ratios are in [0,1], relative to the total pixel count.
type PixelMetrics struct {
	EdgeRatio           float64 `json:"edge_ratio"`
	UniformClusterRatio float64 `json:"uniform_cluster_ratio"`
	HighContrastRatio   float64 `json:"high_contrast_ratio"`
	FaceCoverage        float64 `json:"face_coverage"`
}
