package domain

import (
	"errors"
	"fmt"
)

// Analyzer-local errors. These are recoverable: the aggregator downgrades
// the failing tick to "no signal" and keeps ticking.
var (
	ErrInsufficientLandmarks = errors.New("landmark set missing a required region")
	ErrDegenerateGeometry    = errors.New("degenerate landmark geometry")
	ErrEmptySample           = errors.New("empty audio sample")
	ErrEmptyFrame            = errors.New("empty video frame")
	ErrModelInference        = errors.New("face model inference failed")
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrUnauthorized = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "Invalid or missing API key",
		StatusCode: 401,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: 404,
	}

	ErrSessionNotFound = &AppError{
		Code:       "SESSION_NOT_FOUND",
		Message:    "Monitoring session not found",
		StatusCode: 404,
	}

	ErrSessionNotMonitoring = &AppError{
		Code:       "SESSION_NOT_MONITORING",
		Message:    "Session is not monitoring",
		StatusCode: 409,
	}

	ErrSessionAlreadyMonitoring = &AppError{
		Code:       "SESSION_ALREADY_MONITORING",
		Message:    "Session is already monitoring",
		StatusCode: 409,
	}

	ErrZeroFaces = &AppError{
		Code:       "ZERO_FACES",
		Message:    "No face detected in the frame, adjust the camera and retry",
		StatusCode: 422,
	}

	ErrMultipleFaces = &AppError{
		Code:       "MULTIPLE_FACES",
		Message:    "Multiple faces detected, reference capture requires exactly one",
		StatusCode: 422,
	}

	ErrNoFrameAvailable = &AppError{
		Code:       "NO_FRAME_AVAILABLE",
		Message:    "No video frame has been ingested yet",
		StatusCode: 422,
	}

	ErrInvalidFrame = &AppError{
		Code:       "INVALID_FRAME",
		Message:    "Frame dimensions do not match the pixel buffer",
		StatusCode: 422,
	}

	ErrFrameTooLarge = &AppError{
		Code:       "FRAME_TOO_LARGE",
		Message:    "Frame exceeds the maximum accepted size",
		StatusCode: 413,
	}

	ErrValidationFailed = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Request validation failed",
		StatusCode: 422,
	}
)
