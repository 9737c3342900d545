package repository

import "errors"

var (
	// ErrInvalidInput is returned when a write is rejected before reaching storage.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidSetting is returned when a stored setting cannot be decoded.
	ErrInvalidSetting = errors.New("invalid stored setting")
)
