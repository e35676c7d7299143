package monitor

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/vigia/internal/audit"
	"github.com/saturnino-fabrica-de-software/vigia/internal/capture"
	"github.com/saturnino-fabrica-de-software/vigia/internal/domain"
	"github.com/saturnino-fabrica-de-software/vigia/internal/provider"
)

// Manager owns the live session registry. Each session gets its own
// push-based capture feed, so the ingest endpoints route frames and
// audio to the right loops.
type Manager struct {
	provider    provider.FaceProvider
	cfg         Config
	broadcaster Broadcaster
	archiver    Archiver
	auditLogger audit.Logger
	logger      *slog.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*entry
}

type entry struct {
	session *Session
	feed    *capture.Feed
}

// ManagerDeps groups the shared collaborators handed to every session
type ManagerDeps struct {
	Provider    provider.FaceProvider
	Broadcaster Broadcaster
	Archiver    Archiver
	Audit       audit.Logger
	Logger      *slog.Logger
}

func NewManager(cfg Config, deps ManagerDeps) *Manager {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	auditLogger := deps.Audit
	if auditLogger == nil {
		auditLogger = &audit.NoOpLogger{}
	}

	return &Manager{
		provider:    deps.Provider,
		cfg:         cfg,
		broadcaster: deps.Broadcaster,
		archiver:    deps.Archiver,
		auditLogger: auditLogger,
		logger:      logger,
		sessions:    make(map[uuid.UUID]*entry),
	}
}

// Create registers a new session and starts its monitoring loops
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	id := uuid.New()
	feed := capture.NewFeed()

	session := NewSession(id, m.cfg, SessionDeps{
		Provider:    m.provider,
		Video:       feed,
		Audio:       feed,
		Broadcaster: m.broadcaster,
		Archiver:    m.archiver,
		Audit:       m.auditLogger,
		Logger:      m.logger,
	})

	if err := session.Start(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[id] = &entry{session: session, feed: feed}
	m.mu.Unlock()

	return session, nil
}

// Get returns a live session by ID
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return e.session, nil
}

// Stop ends a session, removes it from the registry and returns the
// archived record
func (m *Manager) Stop(ctx context.Context, id uuid.UUID) (domain.SessionRecord, error) {
	m.mu.Lock()
	e, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return domain.SessionRecord{}, domain.ErrSessionNotFound
	}
	return e.session.Stop(ctx)
}

// StopAll ends every live session, used on service shutdown
func (m *Manager) StopAll(ctx context.Context) {
	m.mu.Lock()
	entries := make([]*entry, 0, len(m.sessions))
	for id, e := range m.sessions {
		entries = append(entries, e)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, e := range entries {
		if _, err := e.session.Stop(ctx); err != nil {
			m.logger.Warn("failed to stop session on shutdown",
				slog.String("session_id", e.session.ID.String()),
				slog.String("error", err.Error()),
			)
		}
	}
}

// IngestFrame pushes a video frame into a session's capture feed
func (m *Manager) IngestFrame(id uuid.UUID, frame *domain.Frame) error {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return domain.ErrSessionNotFound
	}
	e.feed.PushFrame(frame)
	return nil
}

// IngestAudio pushes an audio spectrum frame into a session's capture feed
func (m *Manager) IngestAudio(id uuid.UUID, frame domain.AudioFrame) error {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return domain.ErrSessionNotFound
	}
	e.feed.PushAudio(frame)
	return nil
}

// CaptureReference captures the reference descriptor for a session
func (m *Manager) CaptureReference(ctx context.Context, id uuid.UUID) error {
	session, err := m.Get(id)
	if err != nil {
		return err
	}
	return session.CaptureReference(ctx)
}

// Count returns the number of live sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
