package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/vigia/internal/capture"
	"github.com/saturnino-fabrica-de-software/vigia/internal/domain"
	"github.com/saturnino-fabrica-de-software/vigia/internal/provider/mock"
)

// stubArchiver records what the session tries to persist
type stubArchiver struct {
	references map[uuid.UUID][]float64
	records    []domain.SessionRecord
	refErr     error
	sessionErr error
}

func newStubArchiver() *stubArchiver {
	return &stubArchiver{references: make(map[uuid.UUID][]float64)}
}

func (a *stubArchiver) SaveReference(_ context.Context, sessionID uuid.UUID, descriptor []float64) error {
	if a.refErr != nil {
		return a.refErr
	}
	a.references[sessionID] = descriptor
	return nil
}

func (a *stubArchiver) SaveSession(_ context.Context, record domain.SessionRecord) error {
	if a.sessionErr != nil {
		return a.sessionErr
	}
	a.records = append(a.records, record)
	return nil
}

func testFrame() *domain.Frame {
	return &domain.Frame{Pixels: make([]byte, 8*8*4), Width: 8, Height: 8}
}

func newTestSession(p *mock.Provider, feed *capture.Feed, archiver Archiver) *Session {
	return NewSession(uuid.New(), DefaultConfig(), SessionDeps{
		Provider: p,
		Video:    feed,
		Audio:    feed,
		Archiver: archiver,
	})
}

func TestSession_StartStopLifecycle(t *testing.T) {
	ctx := context.Background()
	session := newTestSession(mock.New(), capture.NewFeed(), nil)

	require.NoError(t, session.Start(ctx))
	assert.True(t, session.State().Monitoring)

	err := session.Start(ctx)
	assert.ErrorIs(t, err, domain.ErrSessionAlreadyMonitoring)

	record, err := session.Stop(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.ID, record.ID)
	assert.False(t, record.ReferenceCaptured)
	assert.False(t, record.StoppedAt.Before(record.StartedAt))
	assert.False(t, session.State().Monitoring)

	_, err = session.Stop(ctx)
	assert.ErrorIs(t, err, domain.ErrSessionNotMonitoring)
}

func TestSession_CaptureReference(t *testing.T) {
	ctx := context.Background()
	feed := capture.NewFeed()
	archiver := newStubArchiver()
	session := newTestSession(mock.New(), feed, archiver)

	// No frame ingested yet
	err := session.CaptureReference(ctx)
	assert.ErrorIs(t, err, domain.ErrNoFrameAvailable)

	feed.PushFrame(testFrame())
	require.NoError(t, session.CaptureReference(ctx))

	assert.True(t, session.State().ReferenceCaptured)
	assert.Len(t, session.Reference(), 128)
	assert.Len(t, archiver.references[session.ID], 128)
}

func TestSession_CaptureReference_FaceCountErrors(t *testing.T) {
	tests := []struct {
		name     string
		provider *mock.Provider
		wantErr  error
	}{
		{"zero faces", &mock.Provider{FaceCount: 0}, domain.ErrZeroFaces},
		{"detection failure counts as zero", &mock.Provider{Err: errors.New("model offline")}, domain.ErrZeroFaces},
		{"two faces", &mock.Provider{FaceCount: 2}, domain.ErrMultipleFaces},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feed := capture.NewFeed()
			feed.PushFrame(testFrame())
			session := newTestSession(tt.provider, feed, nil)

			err := session.CaptureReference(context.Background())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.False(t, session.State().ReferenceCaptured)
			assert.Nil(t, session.Reference())
		})
	}
}

func TestSession_StopClearsReference(t *testing.T) {
	ctx := context.Background()
	feed := capture.NewFeed()
	session := newTestSession(mock.New(), feed, nil)

	require.NoError(t, session.Start(ctx))
	feed.PushFrame(testFrame())
	require.NoError(t, session.CaptureReference(ctx))

	record, err := session.Stop(ctx)
	require.NoError(t, err)

	// The record keeps the flag, the session forgets everything
	assert.True(t, record.ReferenceCaptured)
	assert.False(t, session.State().ReferenceCaptured)
	assert.Nil(t, session.Reference())
	assert.Empty(t, session.Events())
	assert.Equal(t, domain.LiveStatus{}, session.Status())
}

func TestSession_StopArchivesRecord(t *testing.T) {
	ctx := context.Background()
	archiver := newStubArchiver()
	session := newTestSession(mock.New(), capture.NewFeed(), archiver)

	require.NoError(t, session.Start(ctx))
	_, err := session.Stop(ctx)
	require.NoError(t, err)

	require.Len(t, archiver.records, 1)
	assert.Equal(t, session.ID, archiver.records[0].ID)
}

func TestSession_ArchiveFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	archiver := newStubArchiver()
	archiver.sessionErr = errors.New("database down")
	session := newTestSession(mock.New(), capture.NewFeed(), archiver)

	require.NoError(t, session.Start(ctx))

	record, err := session.Stop(ctx)
	assert.NoError(t, err)
	assert.Equal(t, session.ID, record.ID)
}

func TestSession_AudioLoopClassifiesIngestedFrame(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.AudioInterval = 5 * time.Millisecond
	feed := capture.NewFeed()
	session := NewSession(uuid.New(), cfg, SessionDeps{
		Provider: mock.New(),
		Video:    feed,
		Audio:    feed,
	})

	require.NoError(t, session.Start(ctx))
	defer func() { _, _ = session.Stop(ctx) }()

	// One medium-volume window, consumed by exactly one audio tick
	loud := make(domain.AudioFrame, 32)
	for i := range loud {
		loud[i] = 120
	}
	feed.PushAudio(loud)

	assert.Eventually(t, func() bool {
		events := session.Events()
		return len(events) > 0 && events[0].Kind == domain.EventNoiseDetected
	}, time.Second, 5*time.Millisecond)

	// The window was consumed on read, so no repeat events pile up
	time.Sleep(30 * time.Millisecond)
	count := 0
	for _, e := range session.Events() {
		if e.Kind == domain.EventNoiseDetected {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
