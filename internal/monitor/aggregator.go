package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/vigia/internal/domain"
	"github.com/saturnino-fabrica-de-software/vigia/internal/geometry"
)

// Broadcaster pushes events and status updates to the presentation
// layer. Implementations must not block; the aggregator never waits on
// presentation.
type Broadcaster interface {
	PublishEvent(sessionID uuid.UUID, event domain.ProxyEvent)
	PublishStatus(sessionID uuid.UUID, status domain.LiveStatus)
}

// Aggregator is the temporal decision engine of one session. It is the
// single writer of the event log and of all cross-frame state: producers
// send per-tick samples over a channel, the Run goroutine applies them.
type Aggregator struct {
	sessionID   uuid.UUID
	cfg         Config
	logger      *slog.Logger
	broadcaster Broadcaster

	samples chan Sample

	mu            sync.RWMutex
	window        *DetectionWindow
	headTimer     *HysteresisTimer
	gazeTimer     *HysteresisTimer
	lastDirection domain.Direction
	multiFace     bool
	objectActive  bool
	lastNoiseAt   time.Time
	lastVoicesAt  time.Time
	events        []domain.ProxyEvent
	status        domain.LiveStatus
}

func NewAggregator(sessionID uuid.UUID, cfg Config, logger *slog.Logger, broadcaster Broadcaster) *Aggregator {
	return &Aggregator{
		sessionID:     sessionID,
		cfg:           cfg,
		logger:        logger,
		broadcaster:   broadcaster,
		samples:       make(chan Sample, 64),
		window:        NewDetectionWindow(cfg.DetectionFrameThreshold),
		headTimer:     NewHysteresisTimer("head_direction", cfg.HeadMovementDuration),
		gazeTimer:     NewHysteresisTimer("gaze_down", cfg.EyeDownDuration),
		lastDirection: domain.DirectionNone,
	}
}

// Submit queues one sample for the aggregator goroutine
func (a *Aggregator) Submit(ctx context.Context, s Sample) error {
	select {
	case a.samples <- s:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run consumes samples until the context is cancelled. Samples still
// queued at cancellation are dropped: no event may be emitted from
// state computed before cancellation. The select does not prioritize
// Done, so cancellation is re-checked before each apply.
func (a *Aggregator) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case s := <-a.samples:
			if ctx.Err() != nil {
				return
			}
			a.Apply(s)
		}
	}
}

// Apply integrates one sample into the temporal state. It is exported
// so tests can drive the aggregator tick by tick without the channel.
func (a *Aggregator) Apply(s Sample) {
	a.mu.Lock()
	switch v := s.(type) {
	case FaceSample:
		a.applyFace(v)
	case AudioSample:
		a.applyAudio(v)
	case ObjectSample:
		a.applyObject(v)
	}
	status := a.status
	a.mu.Unlock()

	if a.broadcaster != nil {
		a.broadcaster.PublishStatus(a.sessionID, status)
	}
}

func (a *Aggregator) applyFace(s FaceSample) {
	a.status.FaceCount = s.Count
	a.status.HeadPose = s.Pose
	a.status.Gaze = s.Gaze

	// Multi-face: the live flag is level-triggered, the log entry is
	// appended on onset only.
	if s.Count > 1 {
		if !a.multiFace {
			a.append(domain.EventMultipleFaces, "", s.At)
		}
		a.multiFace = true
	} else {
		a.multiFace = false
	}
	a.status.MultipleFaces = a.multiFace

	direction := domain.DirectionNone
	if s.Pose != nil {
		direction = geometry.ClassifyDirection(*s.Pose)
	}
	if direction != a.lastDirection {
		a.headTimer.Reset()
	}
	a.lastDirection = direction
	if a.headTimer.Observe(direction != domain.DirectionNone, s.Elapsed) {
		a.append(domain.EventHeadMoving, string(direction), s.At)
	}

	gazeDown := s.Gaze != nil && s.Gaze.Vertical == domain.GazeDown
	if a.gazeTimer.Observe(gazeDown, s.Elapsed) {
		a.append(domain.EventLookingDown, "", s.At)
	}
}

func (a *Aggregator) applyAudio(s AudioSample) {
	if s.Classification == nil {
		// No hysteresis to reset: audio events are level-triggered
		return
	}

	if s.Classification.MultipleVoices && a.debounceElapsed(a.lastVoicesAt, s.At) {
		a.append(domain.EventMultipleVoices, "", s.At)
		a.lastVoicesAt = s.At
	}
	if s.Classification.Level != domain.AudioLow && a.debounceElapsed(a.lastNoiseAt, s.At) {
		a.append(domain.EventNoiseDetected, string(s.Classification.Level), s.At)
		a.lastNoiseAt = s.At
	}
}

func (a *Aggregator) applyObject(s ObjectSample) {
	a.window.Push(s.Candidate)

	if a.window.Full() && a.window.Unanimous() {
		if !a.objectActive {
			a.objectActive = true
			a.status.DetectionCount++
			a.status.ObjectDetected = domain.ObjectDetectedStatus
			a.append(domain.EventObjectDetected, "", s.At)
		}
		return
	}

	a.objectActive = false
	a.status.ObjectDetected = ""
}

// debounceElapsed reports whether an audio event may fire at now. With a
// zero debounce every tick fires, matching the original level-triggered
// behavior.
func (a *Aggregator) debounceElapsed(last, now time.Time) bool {
	if a.cfg.AudioEventDebounce <= 0 {
		return true
	}
	return last.IsZero() || now.Sub(last) >= a.cfg.AudioEventDebounce
}

func (a *Aggregator) append(kind domain.EventKind, detail string, at time.Time) {
	event := domain.ProxyEvent{
		ID:     uuid.New(),
		Kind:   kind,
		Detail: detail,
		At:     at,
	}
	a.events = append(a.events, event)

	a.logger.Info("proxy event",
		slog.String("session_id", a.sessionID.String()),
		slog.String("kind", string(kind)),
		slog.String("detail", detail),
	)

	if a.broadcaster != nil {
		a.broadcaster.PublishEvent(a.sessionID, event)
	}
}

// Events returns a copy of the append-only event log, ordered by time
func (a *Aggregator) Events() []domain.ProxyEvent {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]domain.ProxyEvent, len(a.events))
	copy(out, a.events)
	return out
}

// Status returns the current live summary fields
func (a *Aggregator) Status() domain.LiveStatus {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

// Reset clears the detection window, both hysteresis timers, the live
// status and the event log. Called on session stop so no residual state
// carries into the next session.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.window.Reset()
	a.headTimer.Reset()
	a.gazeTimer.Reset()
	a.lastDirection = domain.DirectionNone
	a.multiFace = false
	a.objectActive = false
	a.lastNoiseAt = time.Time{}
	a.lastVoicesAt = time.Time{}
	a.events = nil
	a.status = domain.LiveStatus{}
}
