package common

import "errors"

// Sentinel errors shared across ClipFlow components. Callers should use
// errors.Is to match these values.
var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Channel membership errors.
	ErrChannelNotVerified = errors.New("channel not verified")

	// Validation errors.
	ErrEmptyContent = errors.New("empty content")
)
