package services

import "errors"

// Attendance service errors
var (
	// Snapshot errors
	ErrNoAttendanceData = errors.New("no attendance data loaded")
	ErrRollNotFound     = errors.New("roll not found")

	// Stored log errors
	ErrLogNotFound    = errors.New("stored log not found")
	ErrInvalidLogName = errors.New("invalid stored log name")

	// Input errors
	ErrInputTooLarge = errors.New("input exceeds maximum size")
	ErrInvalidInput  = errors.New("invalid input")

	// Export errors
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// Publishing errors
	ErrPublishingDisabled = errors.New("publishing is not configured")
	ErrPublishFailed      = errors.New("publishing failed")
)
