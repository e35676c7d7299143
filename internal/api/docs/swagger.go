package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// CreateSessionResponse represents the response for session creation
type CreateSessionResponse struct {
	SessionID  string `json:"session_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Monitoring bool   `json:"monitoring" example:"true"`
	StartedAt  string `json:"started_at" example:"2024-01-01T00:00:00Z"`
}

// ProxyEventData represents one detected event
type ProxyEventData struct {
	ID     string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Kind   string `json:"kind" example:"head_moving"`
	Detail string `json:"detail,omitempty" example:"left"`
	At     string `json:"at" example:"2024-01-01T00:00:00Z"`
}

// StopSessionResponse represents the archived record returned on stop
type StopSessionResponse struct {
	SessionID      string           `json:"session_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	StartedAt      string           `json:"started_at" example:"2024-01-01T00:00:00Z"`
	StoppedAt      string           `json:"stopped_at" example:"2024-01-01T01:00:00Z"`
	DetectionCount int              `json:"detection_count" example:"2"`
	EventCount     int              `json:"event_count" example:"14"`
	Events         []ProxyEventData `json:"events"`
}

// HeadPoseData represents the estimated head orientation in degrees
type HeadPoseData struct {
	Pitch float64 `json:"pitch" example:"-2.5"`
	Yaw   float64 `json:"yaw" example:"12.1"`
	Roll  float64 `json:"roll" example:"0.8"`
}

// GazeData represents the classified gaze bands
type GazeData struct {
	Vertical   string `json:"vertical" example:"center"`
	Horizontal string `json:"horizontal" example:"left"`
}

// LiveStatusData represents the live session summary
type LiveStatusData struct {
	HeadPose       *HeadPoseData `json:"head_pose,omitempty"`
	Gaze           *GazeData     `json:"gaze,omitempty"`
	FaceCount      int           `json:"face_count" example:"1"`
	MultipleFaces  bool          `json:"multiple_faces" example:"false"`
	ObjectDetected string        `json:"object_detected,omitempty" example:"Mobile device detected"`
	DetectionCount int           `json:"detection_count" example:"0"`
}

// SessionStateData represents the session lifecycle flags
type SessionStateData struct {
	Monitoring        bool `json:"monitoring" example:"true"`
	ReferenceCaptured bool `json:"reference_captured" example:"true"`
}

// StatusResponse wraps the live status endpoint payload
type StatusResponse struct {
	State  SessionStateData `json:"state"`
	Status LiveStatusData   `json:"status"`
}

// EventsResponse wraps the event log payload
type EventsResponse struct {
	Events []ProxyEventData `json:"events"`
}

// ReferenceResponse represents a successful reference capture
type ReferenceResponse struct {
	SessionID         string `json:"session_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	ReferenceCaptured bool   `json:"reference_captured" example:"true"`
}

// FrameRequest represents one uploaded RGBA frame
type FrameRequest struct {
	Width  int    `json:"width" example:"640"`
	Height int    `json:"height" example:"480"`
	Pixels string `json:"pixels" example:"AAAA..."`
}

// AudioRequest represents one uploaded frequency spectrum
type AudioRequest struct {
	Spectrum []float64 `json:"spectrum"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

// EmptyResponse represents no content response
type EmptyResponse struct{}

// NewSwagger creates and configures the Swagger documentation
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Vigia Proctoring API",
		Version:     "v1.0.0",
		Description: "Remote proctoring signal-analysis API: head pose, gaze, audio and foreign-object monitoring over browser-captured frames",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	endpoints := []*endpoint.EndPoint{
		// POST /v1/sessions - Start session
		endpoint.New(
			endpoint.POST,
			"/sessions",
			endpoint.WithTags("Sessions"),
			endpoint.WithSummary("Start a monitoring session"),
			endpoint.WithDescription("Creates a new proctoring session and starts its face, object and audio analysis loops"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(CreateSessionResponse{}, "201", "Session started"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// DELETE /v1/sessions/:id - Stop session
		endpoint.New(
			endpoint.DELETE,
			"/sessions/{id}",
			endpoint.WithTags("Sessions"),
			endpoint.WithSummary("Stop a monitoring session"),
			endpoint.WithDescription("Stops the session, archives the session record and returns the collected event log. All temporal state is cleared."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Session UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(StopSessionResponse{}, "200", "Session stopped"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "SESSION_NOT_FOUND", Message: "Monitoring session not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "SESSION_NOT_MONITORING", Message: "Session is not monitoring"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// POST /v1/sessions/:id/reference - Capture reference
		endpoint.New(
			endpoint.POST,
			"/sessions/{id}/reference",
			endpoint.WithTags("Sessions"),
			endpoint.WithSummary("Capture the reference face"),
			endpoint.WithDescription("Detects the face in the most recent frame and stores its descriptor as the session reference. Requires exactly one face in frame."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Session UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ReferenceResponse{}, "200", "Reference captured"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "SESSION_NOT_FOUND", Message: "Monitoring session not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "NO_FRAME_AVAILABLE", Message: "No video frame has been ingested yet"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "ZERO_FACES", Message: "No face detected in the frame"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "MULTIPLE_FACES", Message: "Multiple faces detected"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// POST /v1/sessions/:id/frames - Ingest frame
		endpoint.New(
			endpoint.POST,
			"/sessions/{id}/frames",
			endpoint.WithTags("Ingest"),
			endpoint.WithSummary("Push a video frame"),
			endpoint.WithDescription("Uploads one raw RGBA frame for the session's analysis loops. Only the most recent frame is kept."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Session UUID")),
			),
			endpoint.WithBody(FrameRequest{}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "202", "Frame accepted"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "SESSION_NOT_FOUND", Message: "Monitoring session not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "FRAME_TOO_LARGE", Message: "Frame exceeds the maximum accepted size"}, "413", "Payload Too Large"),
				response.New(ErrorResponse{Code: "INVALID_FRAME", Message: "Frame dimensions do not match the pixel buffer"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// POST /v1/sessions/:id/audio - Ingest audio
		endpoint.New(
			endpoint.POST,
			"/sessions/{id}/audio",
			endpoint.WithTags("Ingest"),
			endpoint.WithSummary("Push an audio spectrum"),
			endpoint.WithDescription("Uploads one frequency-domain window (bin magnitudes 0-255). Each window is classified exactly once."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Session UUID")),
			),
			endpoint.WithBody(AudioRequest{}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "202", "Audio accepted"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "SESSION_NOT_FOUND", Message: "Monitoring session not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "spectrum is required"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// GET /v1/sessions/:id/status - Live status
		endpoint.New(
			endpoint.GET,
			"/sessions/{id}/status",
			endpoint.WithTags("Sessions"),
			endpoint.WithSummary("Get the live session status"),
			endpoint.WithDescription("Returns the current head pose, gaze, face count, object flag and detection counter"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Session UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(StatusResponse{}, "200", "Status retrieved"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "SESSION_NOT_FOUND", Message: "Monitoring session not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// GET /v1/sessions/:id/events - Event log
		endpoint.New(
			endpoint.GET,
			"/sessions/{id}/events",
			endpoint.WithTags("Sessions"),
			endpoint.WithSummary("Get the session event log"),
			endpoint.WithDescription("Returns the chronological list of detected events for the session"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Session UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EventsResponse{}, "200", "Events retrieved"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "SESSION_NOT_FOUND", Message: "Monitoring session not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
