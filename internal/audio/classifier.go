// Package audio classifies frequency-domain sample frames into a coarse
// volume level and a voice-multiplicity flag.
package audio

import (
	"math"

	"github.com/saturnino-fabrica-de-software/vigia/internal/domain"
)

const (
	// maxMagnitude is the full-scale frequency-bin magnitude
	maxMagnitude = 255.0

	// highVolume and mediumVolume are the normalized RMS thresholds
	highVolume   = 0.6
	mediumVolume = 0.4

	// peakMagnitude is the bin magnitude counted as a spectral peak
	peakMagnitude = 150.0

	// multiVoicePeaks is the peak count above which a frame is flagged as
	// containing more than one voice
	multiVoicePeaks = 5
)

// Classify computes the volume level and voice-multiplicity flag of one
// frequency frame. An empty frame fails with domain.ErrEmptySample.
func Classify(frame domain.AudioFrame) (domain.AudioClassification, error) {
	if len(frame) == 0 {
		return domain.AudioClassification{}, domain.ErrEmptySample
	}

	var sumSquares float64
	peakCount := 0
	for _, m := range frame {
		sumSquares += m * m
		if m > peakMagnitude {
			peakCount++
		}
	}

	volume := math.Sqrt(sumSquares/float64(len(frame))) / maxMagnitude

	level := domain.AudioLow
	switch {
	case volume > highVolume:
		level = domain.AudioHigh
	case volume > mediumVolume:
		level = domain.AudioMedium
	}

	return domain.AudioClassification{
		Level:          level,
		Volume:         volume,
		MultipleVoices: peakCount > multiVoicePeaks,
	}, nil
}
