// Package geometry converts raw facial landmark sets into head-pose and
// eye-gaze estimates. All functions are pure; the temporal logic that
// turns these per-frame estimates into events lives in internal/monitor.
package geometry

import (
	"math"

	"github.com/saturnino-fabrica-de-software/vigia/internal/domain"
)

const (
	// yawFocalScale is an empirically fixed focal-scale divisor for the yaw
	// estimate. It is not derived from camera intrinsics; tune with care.
	yawFocalScale = 80.0

	// pitchGain maps the relative nose position onto degrees
	pitchGain = 100.0

	// HeadMovementThreshold is the yaw/pitch angle in degrees above which
	// a pose is classified as a head direction
	HeadMovementThreshold = 10.0

	// verticalGazeBand and horizontalGazeBand are the dead zones around
	// center for the normalized gaze offsets
	verticalGazeBand   = 0.05
	horizontalGazeBand = 0.1

	// eyeSpanVerticalScale and eyeSpanPupilScale normalize the gaze offsets
	// by fractions of the inter-eye distance
	eyeSpanVerticalScale = 0.35
	eyeSpanPupilScale    = 0.1

	minEyePoints  = 6
	minNosePoints = 5
	minJawPoints  = 9
)

// ComputeHeadPose derives pitch, yaw and roll in degrees from a landmark
// set. It needs the jaw outline, both eyes and the nose region; a zero
// face height fails with domain.ErrDegenerateGeometry.
func ComputeHeadPose(ls domain.LandmarkSet) (domain.HeadPose, error) {
	if err := validateRegions(ls); err != nil {
		return domain.HeadPose{}, err
	}

	noseTip := ls.Nose[domain.NoseTipIndex]
	chin := ls.Jaw[domain.ChinIndex]
	forehead := ls.Jaw[domain.ForeheadIndex]
	leftCorner := ls.LeftEye[domain.LeftEyeCornerIndex]
	rightCorner := ls.RightEye[domain.RightEyeCornerIndex]

	eyeMidX := (leftCorner.X + rightCorner.X) / 2

	faceHeight := chin.Y - forehead.Y
	if faceHeight == 0 {
		return domain.HeadPose{}, domain.ErrDegenerateGeometry
	}
	noseRelative := (noseTip.Y - forehead.Y) / faceHeight

	return domain.HeadPose{
		Yaw:   math.Atan2(noseTip.X-eyeMidX, yawFocalScale) * 180 / math.Pi,
		Pitch: (noseRelative - 0.5) * pitchGain,
		Roll:  math.Atan2(rightCorner.Y-leftCorner.Y, rightCorner.X-leftCorner.X) * 180 / math.Pi,
	}, nil
}

// ComputeGaze classifies the vertical and horizontal gaze of a landmark
// set. A non-positive inter-eye distance fails with
// domain.ErrDegenerateGeometry.
func ComputeGaze(ls domain.LandmarkSet) (domain.GazeEstimate, error) {
	if err := validateRegions(ls); err != nil {
		return domain.GazeEstimate{}, err
	}

	leftCenter := centroid(ls.LeftEye)
	rightCenter := centroid(ls.RightEye)
	noseTip := ls.Nose[domain.NoseTipIndex]

	eyeDistance := rightCenter.X - leftCenter.X
	if eyeDistance <= 0 {
		return domain.GazeEstimate{}, domain.ErrDegenerateGeometry
	}

	est := domain.GazeEstimate{Vertical: domain.GazeVCenter, Horizontal: domain.GazeHCenter}

	verticalDiff := ((leftCenter.Y+rightCenter.Y)/2 - noseTip.Y) / (eyeDistance * eyeSpanVerticalScale)
	switch {
	case verticalDiff > verticalGazeBand:
		est.Vertical = domain.GazeDown
	case verticalDiff < -verticalGazeBand:
		est.Vertical = domain.GazeUp
	}

	leftPupil := (leftCenter.X - ls.LeftEye[0].X) / (eyeDistance * eyeSpanPupilScale)
	rightPupil := (ls.RightEye[3].X - rightCenter.X) / (eyeDistance * eyeSpanPupilScale)
	horizontalAvg := (leftPupil + rightPupil) / 2
	switch {
	case horizontalAvg > horizontalGazeBand:
		est.Horizontal = domain.GazeRight
	case horizontalAvg < -horizontalGazeBand:
		est.Horizontal = domain.GazeLeft
	}

	return est, nil
}

// ClassifyDirection maps a head pose onto a coarse direction. Yaw is
// evaluated before pitch, so yaw wins when both exceed the threshold.
func ClassifyDirection(pose domain.HeadPose) domain.Direction {
	switch {
	case pose.Yaw > HeadMovementThreshold:
		return domain.DirectionRight
	case pose.Yaw < -HeadMovementThreshold:
		return domain.DirectionLeft
	case pose.Pitch > HeadMovementThreshold:
		return domain.DirectionDown
	case pose.Pitch < -HeadMovementThreshold:
		return domain.DirectionUp
	default:
		return domain.DirectionNone
	}
}

func validateRegions(ls domain.LandmarkSet) error {
	if len(ls.Jaw) < minJawPoints ||
		len(ls.LeftEye) < minEyePoints ||
		len(ls.RightEye) < minEyePoints ||
		len(ls.Nose) < minNosePoints {
		return domain.ErrInsufficientLandmarks
	}
	return nil
}

func centroid(points []domain.Point) domain.Point {
	var c domain.Point
	for _, p := range points {
		c.X += p.X
		c.Y += p.Y
	}
	n := float64(len(points))
	c.X /= n
	c.Y /= n
	return c
}
