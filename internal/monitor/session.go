package monitor

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/saturnino-fabrica-de-software/vigia/internal/audio"
	"github.com/saturnino-fabrica-de-software/vigia/internal/audit"
	"github.com/saturnino-fabrica-de-software/vigia/internal/capture"
	"github.com/saturnino-fabrica-de-software/vigia/internal/domain"
	"github.com/saturnino-fabrica-de-software/vigia/internal/geometry"
	"github.com/saturnino-fabrica-de-software/vigia/internal/provider"
	"github.com/saturnino-fabrica-de-software/vigia/internal/vision"
)

// Archiver persists session artifacts outside the live pipeline. A nil
// archiver disables persistence; the session runs fully in memory.
type Archiver interface {
	SaveReference(ctx context.Context, sessionID uuid.UUID, descriptor []float64) error
	SaveSession(ctx context.Context, record domain.SessionRecord) error
}

// SessionDeps groups the collaborators of a monitoring session
type SessionDeps struct {
	Provider    provider.FaceProvider
	Video       capture.VideoSource
	Audio       capture.AudioSource
	Broadcaster Broadcaster
	Archiver    Archiver
	Audit       audit.Logger
	Logger      *slog.Logger
}

// Session is one proctoring session: three producer loops (face, object,
// audio) sampling the capture sources at their own cadence, feeding one
// aggregator. Analyzer failures inside the loops degrade to "no signal"
// samples; only Start and Stop can fail.
type Session struct {
	ID  uuid.UUID
	cfg Config

	provider    provider.FaceProvider
	video       capture.VideoSource
	audioSource capture.AudioSource
	agg         *Aggregator
	archiver    Archiver
	auditLogger audit.Logger
	logger      *slog.Logger

	monitoring  atomic.Bool
	refCaptured atomic.Bool

	mu          sync.Mutex
	reference   []float64
	lastFaceBox *domain.BoundingBox
	startedAt   time.Time
	cancel      context.CancelFunc
	done        chan struct{}
}

func NewSession(id uuid.UUID, cfg Config, deps SessionDeps) *Session {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	auditLogger := deps.Audit
	if auditLogger == nil {
		auditLogger = &audit.NoOpLogger{}
	}

	return &Session{
		ID:          id,
		cfg:         cfg,
		provider:    deps.Provider,
		video:       deps.Video,
		audioSource: deps.Audio,
		agg:         NewAggregator(id, cfg, logger, deps.Broadcaster),
		archiver:    deps.Archiver,
		auditLogger: auditLogger,
		logger:      logger.With(slog.String("session_id", id.String())),
	}
}

// Start begins monitoring. The loops run detached from the caller's
// context, since an HTTP request that starts a session does not own its
// lifetime; Stop or StopAll ends them.
func (s *Session) Start(ctx context.Context) error {
	if !s.monitoring.CompareAndSwap(false, true) {
		return domain.ErrSessionAlreadyMonitoring
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	g, gctx := errgroup.WithContext(runCtx)

	s.mu.Lock()
	s.startedAt = time.Now().UTC()
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	g.Go(func() error {
		s.agg.Run(gctx)
		return nil
	})
	g.Go(func() error { return s.faceLoop(gctx) })
	g.Go(func() error { return s.objectLoop(gctx) })
	g.Go(func() error { return s.audioLoop(gctx) })

	go func() {
		_ = g.Wait()
		close(done)
	}()

	s.logger.Info("monitoring started")
	_ = s.auditLogger.Log(ctx, audit.Event{
		EventType: audit.EventSessionStarted,
		SessionID: s.ID,
		Success:   true,
	})

	return nil
}

// Stop ends monitoring, archives the session record and clears all
// temporal state. Stopping a session that is not monitoring fails with
// domain.ErrSessionNotMonitoring.
func (s *Session) Stop(ctx context.Context) (domain.SessionRecord, error) {
	if !s.monitoring.CompareAndSwap(true, false) {
		return domain.SessionRecord{}, domain.ErrSessionNotMonitoring
	}

	s.mu.Lock()
	cancel, done, startedAt := s.cancel, s.done, s.startedAt
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	record := domain.SessionRecord{
		ID:                s.ID,
		StartedAt:         startedAt,
		StoppedAt:         time.Now().UTC(),
		DetectionCount:    s.agg.Status().DetectionCount,
		ReferenceCaptured: s.refCaptured.Load(),
		Events:            s.agg.Events(),
	}

	if s.archiver != nil {
		if err := s.archiver.SaveSession(ctx, record); err != nil {
			s.logger.Error("failed to archive session record", slog.String("error", err.Error()))
		}
	}

	s.agg.Reset()
	s.refCaptured.Store(false)
	s.mu.Lock()
	s.reference = nil
	s.lastFaceBox = nil
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	s.logger.Info("monitoring stopped",
		slog.Int("detection_count", record.DetectionCount),
		slog.Int("event_count", len(record.Events)),
	)
	_ = s.auditLogger.Log(ctx, audit.Event{
		EventType: audit.EventSessionStopped,
		SessionID: s.ID,
		Success:   true,
	})

	return record, nil
}

// CaptureReference detects the face in the current frame and stores its
// descriptor as the session reference. Requires exactly one face; a
// model failure counts as zero faces.
func (s *Session) CaptureReference(ctx context.Context) error {
	frame, err := s.video.Frame(ctx)
	if err != nil {
		return domain.ErrNoFrameAvailable
	}

	faces, err := s.provider.DetectFaces(ctx, frame)
	if err != nil {
		s.logger.Warn("reference detection failed", slog.String("error", err.Error()))
		return domain.ErrZeroFaces
	}
	if len(faces) == 0 {
		return domain.ErrZeroFaces
	}
	if len(faces) > 1 {
		return domain.ErrMultipleFaces
	}

	primary := faces[0]
	descriptor := make([]float64, len(primary.Descriptor))
	copy(descriptor, primary.Descriptor)
	box := primary.BoundingBox

	s.mu.Lock()
	s.reference = descriptor
	s.lastFaceBox = &box
	s.mu.Unlock()
	s.refCaptured.Store(true)

	if s.archiver != nil && len(descriptor) > 0 {
		if err := s.archiver.SaveReference(ctx, s.ID, descriptor); err != nil {
			s.logger.Error("failed to archive reference descriptor", slog.String("error", err.Error()))
		}
	}

	s.logger.Info("reference captured")
	_ = s.auditLogger.Log(ctx, audit.Event{
		EventType: audit.EventReferenceCaptured,
		SessionID: s.ID,
		Success:   true,
	})

	return nil
}

// State returns the lifecycle flags of the session
func (s *Session) State() domain.SessionState {
	return domain.SessionState{
		Monitoring:        s.monitoring.Load(),
		ReferenceCaptured: s.refCaptured.Load(),
	}
}

// Status returns the live summary from the aggregator
func (s *Session) Status() domain.LiveStatus {
	return s.agg.Status()
}

// Events returns the event log collected so far
func (s *Session) Events() []domain.ProxyEvent {
	return s.agg.Events()
}

// Reference returns a copy of the stored reference descriptor, or nil
func (s *Session) Reference() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reference == nil {
		return nil
	}
	out := make([]float64, len(s.reference))
	copy(out, s.reference)
	return out
}

func (s *Session) faceLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.FaceInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if !s.monitoring.Load() {
				continue
			}
			elapsed := now.Sub(last)
			last = now
			_ = s.agg.Submit(ctx, s.analyzeFace(ctx, now, elapsed))
		}
	}
}

// analyzeFace produces one FaceSample. Every failure path degrades to a
// zero-count sample so a flaky camera or model reads as face absence,
// never as a crash.
func (s *Session) analyzeFace(ctx context.Context, now time.Time, elapsed time.Duration) FaceSample {
	sample := FaceSample{At: now, Elapsed: elapsed}

	frame, err := s.video.Frame(ctx)
	if err != nil {
		return sample
	}
	faces, err := s.provider.DetectFaces(ctx, frame)
	if err != nil {
		s.logger.Debug("face detection failed", slog.String("error", err.Error()))
		return sample
	}

	sample.Count = len(faces)
	if len(faces) == 0 {
		return sample
	}

	primary := faces[0]
	box := primary.BoundingBox
	s.mu.Lock()
	s.lastFaceBox = &box
	s.mu.Unlock()

	// The model's own pose estimate wins over the landmark geometry
	if primary.Pose != nil {
		pose := *primary.Pose
		sample.Pose = &pose
	} else if pose, err := geometry.ComputeHeadPose(primary.Landmarks); err == nil {
		sample.Pose = &pose
	}

	if gaze, err := geometry.ComputeGaze(primary.Landmarks); err == nil {
		sample.Gaze = &gaze
	}

	return sample
}

func (s *Session) objectLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.ObjectInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if !s.monitoring.Load() {
				continue
			}
			_ = s.agg.Submit(ctx, s.analyzeObject(ctx, now))
		}
	}
}

func (s *Session) analyzeObject(ctx context.Context, now time.Time) ObjectSample {
	sample := ObjectSample{At: now}

	frame, err := s.video.Frame(ctx)
	if err != nil {
		return sample
	}

	s.mu.Lock()
	faceBox := s.lastFaceBox
	s.mu.Unlock()

	res, err := vision.Analyze(frame, faceBox)
	if err != nil {
		s.logger.Debug("frame analysis failed", slog.String("error", err.Error()))
		return sample
	}

	sample.Candidate = res.Candidate
	sample.Metrics = &res.Metrics
	return sample
}

func (s *Session) audioLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.AudioInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if !s.monitoring.Load() {
				continue
			}
			_ = s.agg.Submit(ctx, s.analyzeAudio(ctx, now))
		}
	}
}

func (s *Session) analyzeAudio(ctx context.Context, now time.Time) AudioSample {
	sample := AudioSample{At: now}

	frame, err := s.audioSource.Sample(ctx)
	if err != nil {
		return sample
	}
	classification, err := audio.Classify(frame)
	if err != nil {
		return sample
	}

	sample.Classification = &classification
	return sample
}
