package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventKind identifies a class of proxy-behavior evidence
type EventKind string

const (
	// EventHeadMoving fires after the head held the same direction continuously
	EventHeadMoving EventKind = "head_moving"
	// EventLookingDown fires after the gaze stayed down continuously
	EventLookingDown EventKind = "looking_down"
	// EventMultipleFaces fires on the onset of a multi-face tick
	EventMultipleFaces EventKind = "multiple_faces"
	// EventNoiseDetected fires on every tick the audio level is above low
	EventNoiseDetected EventKind = "noise_detected"
	// EventMultipleVoices fires on every tick the voice-multiplicity flag holds
	EventMultipleVoices EventKind = "multiple_voices"
	// EventObjectDetected fires on the onset of a unanimous detection window
	EventObjectDetected EventKind = "object_detected"
)

// ProxyEvent is one append-only entry in a session's evidence log.
// Detail carries the kind-specific qualifier (head direction, audio level).
type ProxyEvent struct {
	ID     uuid.UUID `json:"id"`
	Kind   EventKind `json:"kind"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

// LiveStatus holds the per-tick summary fields exposed to the presentation
// layer. ObjectDetected is a display string ("Mobile device detected") or
// empty when the detection window is not unanimous.
type LiveStatus struct {
	HeadPose       *HeadPose     `json:"head_pose,omitempty"`
	Gaze           *GazeEstimate `json:"gaze,omitempty"`
	FaceCount      int           `json:"face_count"`
	MultipleFaces  bool          `json:"multiple_faces"`
	ObjectDetected string        `json:"object_detected,omitempty"`
	DetectionCount int           `json:"detection_count"`
}

// SessionState holds the two lifecycle flags the aggregator depends on
type SessionState struct {
	Monitoring        bool `json:"monitoring"`
	ReferenceCaptured bool `json:"reference_captured"`
}

// SessionRecord is the archived summary of one finished monitoring session
type SessionRecord struct {
	ID                uuid.UUID    `json:"id"`
	StartedAt         time.Time    `json:"started_at"`
	StoppedAt         time.Time    `json:"stopped_at"`
	DetectionCount    int          `json:"detection_count"`
	ReferenceCaptured bool         `json:"reference_captured"`
	Events            []ProxyEvent `json:"events"`
}

// ObjectDetectedStatus is the display string shown while the pixel
// heuristic holds a unanimous detection window
const ObjectDetectedStatus = "Mobile device detected"
