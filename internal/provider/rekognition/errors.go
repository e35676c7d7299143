package rekognition

import "errors"

var (
	ErrInvalidImage = errors.New("invalid image for rekognition")
	ErrAccessDenied = errors.New("rekognition access denied")
	ErrThrottled    = errors.New("rekognition request throttled")
)
