package errors

import "errors"

// Input errors
var (
	ErrMissingInput = errors.New("either a transcript or an audio file is required")
)

// Archive errors
var (
	ErrArchiveDisabled = errors.New("archive is disabled")
	ErrNotesNotFound   = errors.New("meeting notes not found")
)

// Backend errors
var (
	ErrRecognizerUnavailable = errors.New("speech recognition is not configured")
)
