package handler

import (
	"encoding/base64"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/vigia/internal/domain"
	"github.com/saturnino-fabrica-de-software/vigia/internal/monitor"
)

const (
	// maxFrameSize caps one decoded RGBA frame (10MB, ~1.3MP)
	maxFrameSize = 10 * 1024 * 1024
)

// SessionHandler handles monitoring session requests
type SessionHandler struct {
	manager *monitor.Manager
	logger  *slog.Logger
}

// NewSessionHandler creates a new SessionHandler instance
func NewSessionHandler(manager *monitor.Manager, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		manager: manager,
		logger:  logger,
	}
}

// CreateSessionResponse response for session creation
type CreateSessionResponse struct {
	SessionID  string `json:"session_id"`
	Monitoring bool   `json:"monitoring"`
	StartedAt  string `json:"started_at"`
}

// StopSessionResponse response for session stop
type StopSessionResponse struct {
	SessionID      string              `json:"session_id"`
	StartedAt      string              `json:"started_at"`
	StoppedAt      string              `json:"stopped_at"`
	DetectionCount int                 `json:"detection_count"`
	EventCount     int                 `json:"event_count"`
	Events         []domain.ProxyEvent `json:"events"`
}

// StatusResponse response for the live status endpoint
type StatusResponse struct {
	State  domain.SessionState `json:"state"`
	Status domain.LiveStatus   `json:"status"`
}

// EventsResponse response for the event log endpoint
type EventsResponse struct {
	Events []domain.ProxyEvent `json:"events"`
}

// FrameRequest is one uploaded video frame. Pixels is the base64 of the
// raw RGBA buffer, row-major, 4 bytes per pixel.
type FrameRequest struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Pixels string `json:"pixels"`
}

// AudioRequest is one uploaded frequency-domain window. Magnitudes are
// bin values in the 0-255 range.
type AudioRequest struct {
	Spectrum []float64 `json:"spectrum"`
}

// Create POST /v1/sessions - start a monitoring session
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	session, err := h.manager.Create(c.Context())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(CreateSessionResponse{
		SessionID:  session.ID.String(),
		Monitoring: true,
		StartedAt:  time.Now().UTC().Format(time.RFC3339),
	})
}

// Stop DELETE /v1/sessions/:id - stop a session and return its record
func (h *SessionHandler) Stop(c *fiber.Ctx) error {
	sessionID, err := parseSessionID(c)
	if err != nil {
		return err
	}

	record, err := h.manager.Stop(c.Context(), sessionID)
	if err != nil {
		return err
	}

	events := record.Events
	if events == nil {
		events = []domain.ProxyEvent{}
	}

	return c.JSON(StopSessionResponse{
		SessionID:      record.ID.String(),
		StartedAt:      record.StartedAt.UTC().Format(time.RFC3339),
		StoppedAt:      record.StoppedAt.UTC().Format(time.RFC3339),
		DetectionCount: record.DetectionCount,
		EventCount:     len(events),
		Events:         events,
	})
}

// CaptureReference POST /v1/sessions/:id/reference - capture the
// reference face from the current frame
func (h *SessionHandler) CaptureReference(c *fiber.Ctx) error {
	sessionID, err := parseSessionID(c)
	if err != nil {
		return err
	}

	if err := h.manager.CaptureReference(c.Context(), sessionID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"session_id":         sessionID.String(),
		"reference_captured": true,
	})
}

// IngestFrame POST /v1/sessions/:id/frames - push a video frame
func (h *SessionHandler) IngestFrame(c *fiber.Ctx) error {
	sessionID, err := parseSessionID(c)
	if err != nil {
		return err
	}

	var req FrameRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrValidationFailed.WithError(err)
	}
	if req.Width <= 0 || req.Height <= 0 || req.Pixels == "" {
		return domain.ErrValidationFailed.WithError(errors.New("width, height and pixels are required"))
	}
	if req.Width*req.Height*4 > maxFrameSize {
		return domain.ErrFrameTooLarge
	}

	pixels, err := base64.StdEncoding.DecodeString(req.Pixels)
	if err != nil {
		return domain.ErrValidationFailed.WithError(err)
	}
	if len(pixels) != req.Width*req.Height*4 {
		return domain.ErrInvalidFrame
	}

	frame := &domain.Frame{
		Pixels: pixels,
		Width:  req.Width,
		Height: req.Height,
	}

	if err := h.manager.IngestFrame(sessionID, frame); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusAccepted)
}

// IngestAudio POST /v1/sessions/:id/audio - push an audio spectrum
func (h *SessionHandler) IngestAudio(c *fiber.Ctx) error {
	sessionID, err := parseSessionID(c)
	if err != nil {
		return err
	}

	var req AudioRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrValidationFailed.WithError(err)
	}
	if len(req.Spectrum) == 0 {
		return domain.ErrValidationFailed.WithError(errors.New("spectrum is required"))
	}

	if err := h.manager.IngestAudio(sessionID, domain.AudioFrame(req.Spectrum)); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusAccepted)
}

// Status GET /v1/sessions/:id/status - live summary of a session
func (h *SessionHandler) Status(c *fiber.Ctx) error {
	sessionID, err := parseSessionID(c)
	if err != nil {
		return err
	}

	session, err := h.manager.Get(sessionID)
	if err != nil {
		return err
	}

	return c.JSON(StatusResponse{
		State:  session.State(),
		Status: session.Status(),
	})
}

// Events GET /v1/sessions/:id/events - event log of a session
func (h *SessionHandler) Events(c *fiber.Ctx) error {
	sessionID, err := parseSessionID(c)
	if err != nil {
		return err
	}

	session, err := h.manager.Get(sessionID)
	if err != nil {
		return err
	}

	events := session.Events()
	if events == nil {
		events = []domain.ProxyEvent{}
	}

	return c.JSON(EventsResponse{Events: events})
}

func parseSessionID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, domain.ErrValidationFailed.WithError(errors.New("invalid session id"))
	}
	return id, nil
}
