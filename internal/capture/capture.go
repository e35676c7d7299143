// Package capture defines the stream sources the monitoring pipeline
// pulls from. Sources yield the most recent data on demand and never
// block: a loop that finds nothing this tick treats it as no signal.
package capture

import (
	"context"
	"errors"

	"github.com/saturnino-fabrica-de-software/vigia/internal/domain"
)

var (
	// ErrNoFrame means no video frame has been ingested yet
	ErrNoFrame = errors.New("no video frame available")
	// ErrNoAudio means no audio frame is pending
	ErrNoAudio = errors.New("no audio frame available")
)

// VideoSource yields raw RGBA frames on demand
type VideoSource interface {
	Frame(ctx context.Context) (*domain.Frame, error)
}

// AudioSource yields one frequency frame per sampling request
type AudioSource interface {
	Sample(ctx context.Context) (domain.AudioFrame, error)
}
