package monitor

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/vigia/internal/domain"
)

// recordingBroadcaster captures everything published, in order
type recordingBroadcaster struct {
	mu       sync.Mutex
	events   []domain.ProxyEvent
	statuses []domain.LiveStatus
}

func (b *recordingBroadcaster) PublishEvent(_ uuid.UUID, event domain.ProxyEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBroadcaster) PublishStatus(_ uuid.UUID, status domain.LiveStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.statuses = append(b.statuses, status)
}

func (b *recordingBroadcaster) eventCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

func testAggregator(cfg Config) (*Aggregator, *recordingBroadcaster) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	broadcaster := &recordingBroadcaster{}
	return NewAggregator(uuid.New(), cfg, logger, broadcaster), broadcaster
}

func countKind(events []domain.ProxyEvent, kind domain.EventKind) int {
	n := 0
	for _, e := range events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func TestAggregator_MultipleFacesOnsetOnly(t *testing.T) {
	agg, _ := testAggregator(DefaultConfig())
	now := time.Now()

	agg.Apply(FaceSample{At: now, Count: 2})
	agg.Apply(FaceSample{At: now.Add(time.Second), Count: 3})

	events := agg.Events()
	assert.Equal(t, 1, countKind(events, domain.EventMultipleFaces))
	assert.True(t, agg.Status().MultipleFaces)
	assert.Equal(t, 3, agg.Status().FaceCount)

	// Dropping back to one face clears the flag; the next multi-face
	// tick is a new onset
	agg.Apply(FaceSample{At: now.Add(2 * time.Second), Count: 1})
	assert.False(t, agg.Status().MultipleFaces)

	agg.Apply(FaceSample{At: now.Add(3 * time.Second), Count: 2})
	assert.Equal(t, 2, countKind(agg.Events(), domain.EventMultipleFaces))
}

func TestAggregator_HeadMovingAfterSustainedDirection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HeadMovementDuration = 3 * time.Second
	agg, _ := testAggregator(cfg)

	pose := &domain.HeadPose{Yaw: 15}
	now := time.Now()

	// Three seconds of accumulated right-facing ticks reach the
	// threshold without crossing it
	for i := 0; i < 3; i++ {
		agg.Apply(FaceSample{At: now.Add(time.Duration(i) * time.Second), Elapsed: time.Second, Count: 1, Pose: pose})
	}
	assert.Equal(t, 0, countKind(agg.Events(), domain.EventHeadMoving))

	agg.Apply(FaceSample{At: now.Add(4 * time.Second), Elapsed: time.Second, Count: 1, Pose: pose})

	events := agg.Events()
	require.Equal(t, 1, countKind(events, domain.EventHeadMoving))
	assert.Equal(t, string(domain.DirectionRight), events[0].Detail)

	// Holding the direction longer emits nothing further
	agg.Apply(FaceSample{At: now.Add(5 * time.Second), Elapsed: time.Second, Count: 1, Pose: pose})
	assert.Equal(t, 1, countKind(agg.Events(), domain.EventHeadMoving))
}

func TestAggregator_DirectionChangeResetsHeadTimer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HeadMovementDuration = 3 * time.Second
	agg, _ := testAggregator(cfg)

	right := &domain.HeadPose{Yaw: 15}
	left := &domain.HeadPose{Yaw: -15}
	now := time.Now()

	for i := 0; i < 3; i++ {
		agg.Apply(FaceSample{At: now, Elapsed: time.Second, Count: 1, Pose: right})
	}

	// Switching direction restarts the accumulation from zero
	for i := 0; i < 3; i++ {
		agg.Apply(FaceSample{At: now, Elapsed: time.Second, Count: 1, Pose: left})
	}
	assert.Equal(t, 0, countKind(agg.Events(), domain.EventHeadMoving))

	agg.Apply(FaceSample{At: now, Elapsed: time.Second, Count: 1, Pose: left})

	events := agg.Events()
	require.Equal(t, 1, countKind(events, domain.EventHeadMoving))
	assert.Equal(t, string(domain.DirectionLeft), events[0].Detail)
}

func TestAggregator_NeutralPoseResetsHeadTimer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HeadMovementDuration = 2 * time.Second
	agg, _ := testAggregator(cfg)

	pose := &domain.HeadPose{Pitch: 20}
	now := time.Now()

	agg.Apply(FaceSample{At: now, Elapsed: time.Second, Count: 1, Pose: pose})
	agg.Apply(FaceSample{At: now, Elapsed: time.Second, Count: 1, Pose: pose})

	// A frontal tick in between forces the full wait again
	agg.Apply(FaceSample{At: now, Elapsed: time.Second, Count: 1, Pose: &domain.HeadPose{}})

	agg.Apply(FaceSample{At: now, Elapsed: time.Second, Count: 1, Pose: pose})
	agg.Apply(FaceSample{At: now, Elapsed: time.Second, Count: 1, Pose: pose})
	assert.Equal(t, 0, countKind(agg.Events(), domain.EventHeadMoving))

	agg.Apply(FaceSample{At: now, Elapsed: time.Second, Count: 1, Pose: pose})
	assert.Equal(t, 1, countKind(agg.Events(), domain.EventHeadMoving))
}

func TestAggregator_LookingDownAfterSustainedGaze(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EyeDownDuration = 5 * time.Second
	agg, _ := testAggregator(cfg)

	down := &domain.GazeEstimate{Vertical: domain.GazeDown, Horizontal: domain.GazeHCenter}
	now := time.Now()

	for i := 0; i < 5; i++ {
		agg.Apply(FaceSample{At: now, Elapsed: time.Second, Count: 1, Gaze: down})
	}
	assert.Equal(t, 0, countKind(agg.Events(), domain.EventLookingDown))

	agg.Apply(FaceSample{At: now, Elapsed: time.Second, Count: 1, Gaze: down})
	assert.Equal(t, 1, countKind(agg.Events(), domain.EventLookingDown))
}

func TestAggregator_GazeCenterResetsDownTimer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EyeDownDuration = 2 * time.Second
	agg, _ := testAggregator(cfg)

	down := &domain.GazeEstimate{Vertical: domain.GazeDown}
	center := &domain.GazeEstimate{Vertical: domain.GazeVCenter}
	now := time.Now()

	agg.Apply(FaceSample{At: now, Elapsed: time.Second, Count: 1, Gaze: down})
	agg.Apply(FaceSample{At: now, Elapsed: time.Second, Count: 1, Gaze: down})
	agg.Apply(FaceSample{At: now, Elapsed: time.Second, Count: 1, Gaze: center})
	agg.Apply(FaceSample{At: now, Elapsed: time.Second, Count: 1, Gaze: down})
	agg.Apply(FaceSample{At: now, Elapsed: time.Second, Count: 1, Gaze: down})
	assert.Equal(t, 0, countKind(agg.Events(), domain.EventLookingDown))
}

func TestAggregator_AudioEventsPerTick(t *testing.T) {
	agg, _ := testAggregator(DefaultConfig())
	now := time.Now()

	loud := &domain.AudioClassification{Level: domain.AudioHigh, Volume: 0.8, MultipleVoices: true}

	// With no debounce every tick the condition holds appends an event
	agg.Apply(AudioSample{At: now, Classification: loud})
	agg.Apply(AudioSample{At: now.Add(100 * time.Millisecond), Classification: loud})

	events := agg.Events()
	assert.Equal(t, 2, countKind(events, domain.EventNoiseDetected))
	assert.Equal(t, 2, countKind(events, domain.EventMultipleVoices))
	assert.Equal(t, string(domain.AudioHigh), events[1].Detail)
}

func TestAggregator_AudioDebounceSuppressesRepeats(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AudioEventDebounce = 10 * time.Second
	agg, _ := testAggregator(cfg)
	now := time.Now()

	noisy := &domain.AudioClassification{Level: domain.AudioMedium, Volume: 0.5, MultipleVoices: true}

	agg.Apply(AudioSample{At: now, Classification: noisy})
	agg.Apply(AudioSample{At: now.Add(time.Second), Classification: noisy})
	agg.Apply(AudioSample{At: now.Add(2 * time.Second), Classification: noisy})

	events := agg.Events()
	assert.Equal(t, 1, countKind(events, domain.EventNoiseDetected))
	assert.Equal(t, 1, countKind(events, domain.EventMultipleVoices))

	// After the cooldown the next tick fires again
	agg.Apply(AudioSample{At: now.Add(11 * time.Second), Classification: noisy})
	assert.Equal(t, 2, countKind(agg.Events(), domain.EventNoiseDetected))
}

func TestAggregator_QuietAudioEmitsNothing(t *testing.T) {
	agg, _ := testAggregator(DefaultConfig())
	now := time.Now()

	quiet := &domain.AudioClassification{Level: domain.AudioLow, Volume: 0.1}
	agg.Apply(AudioSample{At: now, Classification: quiet})
	agg.Apply(AudioSample{At: now, Classification: nil})

	assert.Empty(t, agg.Events())
}

func TestAggregator_ObjectDetectionRequiresUnanimousWindow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DetectionFrameThreshold = 3
	agg, _ := testAggregator(cfg)
	now := time.Now()

	agg.Apply(ObjectSample{At: now, Candidate: true})
	agg.Apply(ObjectSample{At: now, Candidate: true})
	assert.Empty(t, agg.Events())
	assert.Empty(t, agg.Status().ObjectDetected)

	agg.Apply(ObjectSample{At: now, Candidate: true})

	assert.Equal(t, 1, countKind(agg.Events(), domain.EventObjectDetected))
	assert.Equal(t, 1, agg.Status().DetectionCount)
	assert.Equal(t, domain.ObjectDetectedStatus, agg.Status().ObjectDetected)

	// While the window stays unanimous no further event or count
	agg.Apply(ObjectSample{At: now, Candidate: true})
	assert.Equal(t, 1, countKind(agg.Events(), domain.EventObjectDetected))
	assert.Equal(t, 1, agg.Status().DetectionCount)
}

func TestAggregator_ObjectDetectionRetriggers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DetectionFrameThreshold = 3
	agg, _ := testAggregator(cfg)
	now := time.Now()

	for i := 0; i < 3; i++ {
		agg.Apply(ObjectSample{At: now, Candidate: true})
	}
	require.Equal(t, 1, agg.Status().DetectionCount)

	// A negative tick clears the live flag and re-arms the detection
	agg.Apply(ObjectSample{At: now, Candidate: false})
	assert.Empty(t, agg.Status().ObjectDetected)

	for i := 0; i < 3; i++ {
		agg.Apply(ObjectSample{At: now, Candidate: true})
	}

	assert.Equal(t, 2, countKind(agg.Events(), domain.EventObjectDetected))
	assert.Equal(t, 2, agg.Status().DetectionCount)
	assert.Equal(t, domain.ObjectDetectedStatus, agg.Status().ObjectDetected)
}

func TestAggregator_BroadcastsEventsAndStatus(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DetectionFrameThreshold = 1
	agg, broadcaster := testAggregator(cfg)
	now := time.Now()

	agg.Apply(ObjectSample{At: now, Candidate: true})
	agg.Apply(FaceSample{At: now, Count: 1})

	assert.Equal(t, 1, broadcaster.eventCount())
	assert.Len(t, broadcaster.statuses, 2)
	assert.Equal(t, domain.ObjectDetectedStatus, broadcaster.statuses[0].ObjectDetected)
}

func TestAggregator_Reset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DetectionFrameThreshold = 1
	agg, _ := testAggregator(cfg)
	now := time.Now()

	agg.Apply(FaceSample{At: now, Count: 2, Pose: &domain.HeadPose{Yaw: 15}})
	agg.Apply(ObjectSample{At: now, Candidate: true})
	require.NotEmpty(t, agg.Events())

	agg.Reset()

	assert.Empty(t, agg.Events())
	assert.Equal(t, domain.LiveStatus{}, agg.Status())

	// A fresh multi-face tick is an onset again
	agg.Apply(FaceSample{At: now, Count: 2})
	assert.Equal(t, 1, countKind(agg.Events(), domain.EventMultipleFaces))
}

func TestAggregator_RunDropsSamplesQueuedBeforeCancellation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DetectionFrameThreshold = 1
	agg, broadcaster := testAggregator(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	now := time.Now()

	// Queue enough candidate ticks to trigger a detection, then cancel
	// before the consumer ever runs
	for i := 0; i < 3; i++ {
		require.NoError(t, agg.Submit(ctx, ObjectSample{At: now, Candidate: true}))
	}
	cancel()

	done := make(chan struct{})
	go func() {
		agg.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("aggregator did not stop on cancelled context")
	}

	assert.Empty(t, agg.Events())
	assert.Equal(t, 0, broadcaster.eventCount())
	assert.Equal(t, 0, agg.Status().DetectionCount)
}

func TestAggregator_RunConsumesSubmittedSamples(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DetectionFrameThreshold = 2
	agg, _ := testAggregator(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		agg.Run(ctx)
		close(done)
	}()

	now := time.Now()
	require.NoError(t, agg.Submit(ctx, ObjectSample{At: now, Candidate: true}))
	require.NoError(t, agg.Submit(ctx, ObjectSample{At: now, Candidate: true}))

	assert.Eventually(t, func() bool {
		return countKind(agg.Events(), domain.EventObjectDetected) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("aggregator did not stop on context cancellation")
	}
}
