package facemesh

import "errors"

var (
	ErrFacemeshUnavailable = errors.New("facemesh service unavailable")
	ErrFacemeshTimeout     = errors.New("facemesh request timeout")
	ErrInvalidResponse     = errors.New("invalid response from facemesh")
	ErrInvalidImageFormat  = errors.New("invalid image format for facemesh")
)
