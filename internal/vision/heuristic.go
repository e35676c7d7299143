// Package vision implements the frame pixel heuristic that flags a
// "foreign object in frame" candidate. It is a hand-tuned
// edge/uniformity/contrast heuristic, not a trained classifier; the
// thresholds below are calibrated together and should only change as a
// set.
package vision

import (
	"github.com/saturnino-fabrica-de-software/vigia/internal/domain"
)

const (
	// edgeDiff is the |dR|+|dG|+|dB| neighbour difference above which a
	// pixel counts as an edge pixel
	edgeDiff = 80

	// uniformDiff is the horizontal neighbour difference below which a
	// pixel extends a uniform run
	uniformDiff = 20

	// uniformRunLength closes one uniform cluster
	uniformRunLength = 4

	// contrastSpread is the max(R,G,B)-min(R,G,B) spread above which a
	// pixel counts as high contrast
	contrastSpread = 100

	// Candidate classification thresholds. The face-coverage ceiling
	// suppresses false positives from faces, which are themselves
	// high-edge, high-contrast regions.
	edgeRatioThreshold     = 0.07
	clusterRatioThreshold  = 0.055
	contrastRatioThreshold = 0.08
	faceCoverageCeiling    = 0.45
)

// Pixel is a frame coordinate, used for overlay rendering
type Pixel struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Result is the outcome of one frame analysis. EdgePixels and
// ClusterPixels are advisory visualization data; Candidate and Metrics
// are the signals the aggregator consumes.
type Result struct {
	Metrics       domain.PixelMetrics
	Candidate     bool
	EdgePixels    []Pixel
	ClusterPixels []Pixel
}

// Analyze runs a single raster-order pass over an RGBA buffer and
// computes the edge, uniform-cluster and high-contrast ratios. faceBox
// is the primary detected face; nil means no suppressing face and sets
// FaceCoverage to 1.
func Analyze(frame *domain.Frame, faceBox *domain.BoundingBox) (Result, error) {
	if frame == nil || len(frame.Pixels) == 0 {
		return Result{}, domain.ErrEmptyFrame
	}
	if frame.Width <= 0 || frame.Height <= 0 || len(frame.Pixels) != frame.Width*frame.Height*4 {
		return Result{}, domain.ErrInvalidFrame
	}

	var (
		px            = frame.Pixels
		w, h          = frame.Width, frame.Height
		edgeCount     int
		clusterCount  int
		contrastCount int
		res           Result
	)

	for y := 0; y < h; y++ {
		run := 0
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			r, g, b := int(px[i]), int(px[i+1]), int(px[i+2])

			if spread(r, g, b) > contrastSpread {
				contrastCount++
			}

			// Edge and uniformity tests only apply to interior pixels:
			// not on the first column and not within the last row.
			if x == 0 || y == h-1 {
				run = 0
				continue
			}

			li := i - 4
			bi := i + w*4
			hdiff := absDiff(r, int(px[li])) + absDiff(g, int(px[li+1])) + absDiff(b, int(px[li+2]))
			vdiff := absDiff(r, int(px[bi])) + absDiff(g, int(px[bi+1])) + absDiff(b, int(px[bi+2]))

			switch {
			case hdiff > edgeDiff || vdiff > edgeDiff:
				edgeCount++
				res.EdgePixels = append(res.EdgePixels, Pixel{X: x, Y: y})
				run = 0
			case hdiff < uniformDiff:
				run++
				if run == uniformRunLength {
					clusterCount++
					res.ClusterPixels = append(res.ClusterPixels, Pixel{X: x, Y: y})
					run = 0
				}
			default:
				run = 0
			}
		}
	}

	total := float64(w * h)
	res.Metrics = domain.PixelMetrics{
		EdgeRatio:           float64(edgeCount) / total,
		UniformClusterRatio: float64(clusterCount) / total,
		HighContrastRatio:   float64(contrastCount) / total,
		FaceCoverage:        1,
	}
	if faceBox != nil {
		res.Metrics.FaceCoverage = faceBox.Area() / total
	}

	res.Candidate = Classify(res.Metrics)
	return res, nil
}

// Classify applies the calibrated candidate thresholds to a metrics set
func Classify(m domain.PixelMetrics) bool {
	return m.EdgeRatio > edgeRatioThreshold &&
		m.UniformClusterRatio > clusterRatioThreshold &&
		m.HighContrastRatio > contrastRatioThreshold &&
		m.FaceCoverage < faceCoverageCeiling
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

func spread(r, g, b int) int {
	max, min := r, r
	if g > max {
		max = g
	}
	if b > max {
		max = b
	}
	if g < min {
		min = g
	}
	if b < min {
		min = b
	}
	return max - min
}
