package service

import "errors"

var (
	// ErrNotConfigured means the backing store was never configured; no call is attempted.
	ErrNotConfigured = errors.New("not configured")
	// ErrValidation wraps every input rejection that happens before a store call.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound means the request was valid but no record matched.
	ErrNotFound = errors.New("not found")

	ErrFileRequired    = errors.New("file is required")
	ErrUnsupportedType = errors.New("file type not allowed")
	ErrFileTooLarge    = errors.New("file too large")
)
