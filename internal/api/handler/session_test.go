package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/vigia/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/vigia/internal/monitor"
	"github.com/saturnino-fabrica-de-software/vigia/internal/provider/mock"
)

func setupSessionApp(t *testing.T) (*fiber.App, *monitor.Manager) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := monitor.NewManager(monitor.DefaultConfig(), monitor.ManagerDeps{
		Provider: mock.New(),
		Logger:   logger,
	})
	t.Cleanup(func() { manager.StopAll(context.Background()) })

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
	})

	h := NewSessionHandler(manager, logger)
	app.Post("/v1/sessions", h.Create)
	app.Delete("/v1/sessions/:id", h.Stop)
	app.Post("/v1/sessions/:id/reference", h.CaptureReference)
	app.Post("/v1/sessions/:id/frames", h.IngestFrame)
	app.Post("/v1/sessions/:id/audio", h.IngestAudio)
	app.Get("/v1/sessions/:id/status", h.Status)
	app.Get("/v1/sessions/:id/events", h.Events)

	return app, manager
}

func jsonRequest(method, target string, body interface{}) *http.Request {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decodeBody(t, resp, &body)
	return body.Error.Code
}

func framePayload(w, h int) FrameRequest {
	return FrameRequest{
		Width:  w,
		Height: h,
		Pixels: base64.StdEncoding.EncodeToString(make([]byte, w*h*4)),
	}
}

func TestSessionHandler_Create(t *testing.T) {
	app, manager := setupSessionApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/v1/sessions", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body CreateSessionResponse
	decodeBody(t, resp, &body)

	id, err := uuid.Parse(body.SessionID)
	require.NoError(t, err)
	assert.True(t, body.Monitoring)
	assert.Equal(t, 1, manager.Count())

	_, err = manager.Get(id)
	assert.NoError(t, err)
}

func TestSessionHandler_Stop(t *testing.T) {
	app, manager := setupSessionApp(t)

	session, err := manager.Create(context.Background())
	require.NoError(t, err)

	resp, err := app.Test(jsonRequest(http.MethodDelete, "/v1/sessions/"+session.ID.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body StopSessionResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, session.ID.String(), body.SessionID)
	assert.Equal(t, 0, body.EventCount)
	assert.NotNil(t, body.Events)
	assert.Equal(t, 0, manager.Count())
}

func TestSessionHandler_StopUnknownSession(t *testing.T) {
	app, _ := setupSessionApp(t)

	resp, err := app.Test(jsonRequest(http.MethodDelete, "/v1/sessions/"+uuid.NewString(), nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "SESSION_NOT_FOUND", errorCode(t, resp))
}

func TestSessionHandler_InvalidSessionID(t *testing.T) {
	app, _ := setupSessionApp(t)

	targets := []string{
		"/v1/sessions/not-a-uuid/status",
		"/v1/sessions/not-a-uuid/events",
	}

	for _, target := range targets {
		resp, err := app.Test(jsonRequest(http.MethodGet, target, nil))
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode, target)
		assert.Equal(t, "VALIDATION_FAILED", errorCode(t, resp))
	}
}

func TestSessionHandler_IngestFrame(t *testing.T) {
	app, manager := setupSessionApp(t)

	session, err := manager.Create(context.Background())
	require.NoError(t, err)
	target := "/v1/sessions/" + session.ID.String() + "/frames"

	tests := []struct {
		name       string
		payload    interface{}
		wantStatus int
		wantCode   string
	}{
		{
			name:       "valid frame",
			payload:    framePayload(4, 4),
			wantStatus: fiber.StatusAccepted,
		},
		{
			name:       "missing fields",
			payload:    FrameRequest{Width: 4},
			wantStatus: fiber.StatusUnprocessableEntity,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "bad base64",
			payload:    FrameRequest{Width: 2, Height: 2, Pixels: "!!not-base64!!"},
			wantStatus: fiber.StatusUnprocessableEntity,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name: "buffer does not match dimensions",
			payload: FrameRequest{
				Width:  4,
				Height: 4,
				Pixels: base64.StdEncoding.EncodeToString(make([]byte, 10)),
			},
			wantStatus: fiber.StatusUnprocessableEntity,
			wantCode:   "INVALID_FRAME",
		},
		{
			name:       "oversize frame",
			payload:    FrameRequest{Width: 4000, Height: 4000, Pixels: "AAAA"},
			wantStatus: fiber.StatusRequestEntityTooLarge,
			wantCode:   "FRAME_TOO_LARGE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(jsonRequest(http.MethodPost, target, tt.payload))
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, resp))
			}
		})
	}
}

func TestSessionHandler_IngestFrameUnknownSession(t *testing.T) {
	app, _ := setupSessionApp(t)

	target := fmt.Sprintf("/v1/sessions/%s/frames", uuid.NewString())
	resp, err := app.Test(jsonRequest(http.MethodPost, target, framePayload(2, 2)))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "SESSION_NOT_FOUND", errorCode(t, resp))
}

func TestSessionHandler_IngestAudio(t *testing.T) {
	app, manager := setupSessionApp(t)

	session, err := manager.Create(context.Background())
	require.NoError(t, err)
	target := "/v1/sessions/" + session.ID.String() + "/audio"

	resp, err := app.Test(jsonRequest(http.MethodPost, target, AudioRequest{Spectrum: []float64{10, 20, 30}}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	resp, err = app.Test(jsonRequest(http.MethodPost, target, AudioRequest{}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, resp))
}

func TestSessionHandler_CaptureReference(t *testing.T) {
	app, manager := setupSessionApp(t)

	session, err := manager.Create(context.Background())
	require.NoError(t, err)
	base := "/v1/sessions/" + session.ID.String()

	// No frame ingested yet
	resp, err := app.Test(jsonRequest(http.MethodPost, base+"/reference", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "NO_FRAME_AVAILABLE", errorCode(t, resp))

	resp, err = app.Test(jsonRequest(http.MethodPost, base+"/frames", framePayload(8, 8)))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	resp, err = app.Test(jsonRequest(http.MethodPost, base+"/reference", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	assert.Equal(t, true, body["reference_captured"])
	assert.True(t, session.State().ReferenceCaptured)
}

func TestSessionHandler_Status(t *testing.T) {
	app, manager := setupSessionApp(t)

	session, err := manager.Create(context.Background())
	require.NoError(t, err)

	resp, err := app.Test(jsonRequest(http.MethodGet, "/v1/sessions/"+session.ID.String()+"/status", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body StatusResponse
	decodeBody(t, resp, &body)
	assert.True(t, body.State.Monitoring)
	assert.False(t, body.State.ReferenceCaptured)
	assert.Equal(t, 0, body.Status.DetectionCount)
}

func TestSessionHandler_Events(t *testing.T) {
	app, manager := setupSessionApp(t)

	session, err := manager.Create(context.Background())
	require.NoError(t, err)

	resp, err := app.Test(jsonRequest(http.MethodGet, "/v1/sessions/"+session.ID.String()+"/events", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body EventsResponse
	decodeBody(t, resp, &body)
	assert.NotNil(t, body.Events)
	assert.Empty(t, body.Events)
}
