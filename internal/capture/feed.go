package capture

import (
	"context"
	"sync"

	"github.com/saturnino-fabrica-de-software/vigia/internal/domain"
)

// Feed is a push-based VideoSource and AudioSource fed by the ingest
// API. Video keeps the latest frame, since a camera image persists
// between uploads; audio frames are consumed on read, so one uploaded
// window is classified exactly once.
type Feed struct {
	mu    sync.Mutex
	frame *domain.Frame
	audio domain.AudioFrame
}

func NewFeed() *Feed {
	return &Feed{}
}

// PushFrame replaces the current video frame
func (f *Feed) PushFrame(frame *domain.Frame) {
	f.mu.Lock()
	f.frame = frame
	f.mu.Unlock()
}

// PushAudio replaces the pending audio frame
func (f *Feed) PushAudio(frame domain.AudioFrame) {
	f.mu.Lock()
	f.audio = frame
	f.mu.Unlock()
}

// Frame returns the most recent video frame, or ErrNoFrame
func (f *Feed) Frame(ctx context.Context) (*domain.Frame, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.frame == nil {
		return nil, ErrNoFrame
	}
	return f.frame, nil
}

// Sample returns and consumes the pending audio frame, or ErrNoAudio
func (f *Feed) Sample(ctx context.Context) (domain.AudioFrame, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.audio == nil {
		return nil, ErrNoAudio
	}
	frame := f.audio
	f.audio = nil
	return frame, nil
}
