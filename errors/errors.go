package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorCode identifies an application error independent of its HTTP status
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL          ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT  ErrorCode = 1001
	ErrorCode_NOT_FOUND         ErrorCode = 1002
	ErrorCode_UNAUTHENTICATED   ErrorCode = 1003
	ErrorCode_RATE_LIMITED      ErrorCode = 1004
	ErrorCode_FEATURE_DISABLED  ErrorCode = 1005
	ErrorCode_PAYLOAD_TOO_LARGE ErrorCode = 1006
	ErrorCode_HTTP              ErrorCode = 1007

	// Meeting notes pipeline
	ErrorCode_NOTES_MISSING_INPUT        ErrorCode = 2000
	ErrorCode_NOTES_TRANSCRIPTION_FAILED ErrorCode = 2001
	ErrorCode_NOTES_GENERATION_FAILED    ErrorCode = 2002
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                    "OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_UNAUTHENTICATED:            "UNAUTHENTICATED",
	ErrorCode_RATE_LIMITED:               "RATE_LIMITED",
	ErrorCode_FEATURE_DISABLED:           "FEATURE_DISABLED",
	ErrorCode_PAYLOAD_TOO_LARGE:          "PAYLOAD_TOO_LARGE",
	ErrorCode_HTTP:                       "HTTP",
	ErrorCode_NOTES_MISSING_INPUT:        "NOTES_MISSING_INPUT",
	ErrorCode_NOTES_TRANSCRIPTION_FAILED: "NOTES_TRANSCRIPTION_FAILED",
	ErrorCode_NOTES_GENERATION_FAILED:    "NOTES_GENERATION_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ErrorCode(%d)", int(c))
}

// AppError là custom error type cho application
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	details := make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	e.Details = details
	return e
}

func newAppError(raw error, httpCode int, code ErrorCode, message string) AppError {
	return AppError{
		Raw:       raw,
		HTTPCode:  httpCode,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// General Errors
func ErrInternal(err error) AppError {
	return newAppError(err, http.StatusInternalServerError, ErrorCode_INTERNAL, "Internal server error")
}

func ErrInvalidArgument(message string) AppError {
	return newAppError(nil, http.StatusBadRequest, ErrorCode_INVALID_ARGUMENT, message)
}

func ErrNotFound(resource string) AppError {
	return newAppError(nil, http.StatusNotFound, ErrorCode_NOT_FOUND, fmt.Sprintf("%s not found", resource))
}

func ErrUnauthenticated() AppError {
	return newAppError(nil, http.StatusUnauthorized, ErrorCode_UNAUTHENTICATED, "Authentication required")
}

func ErrRateLimited() AppError {
	return newAppError(nil, http.StatusTooManyRequests, ErrorCode_RATE_LIMITED, "Too many requests, slow down")
}

func ErrFeatureDisabled(feature string) AppError {
	return newAppError(nil, http.StatusNotFound, ErrorCode_FEATURE_DISABLED, fmt.Sprintf("%s is not enabled on this server", feature))
}

func ErrPayloadTooLarge() AppError {
	return newAppError(nil, http.StatusRequestEntityTooLarge, ErrorCode_PAYLOAD_TOO_LARGE, "Uploaded file is too large")
}

// ErrHTTP carries a router-level status (unknown method, bad route) as an AppError
func ErrHTTP(status int, message string) AppError {
	return newAppError(nil, status, ErrorCode_HTTP, message)
}

// Meeting notes errors. Messages are part of the public API contract.
func ErrMissingInput() AppError {
	return newAppError(nil, http.StatusBadRequest, ErrorCode_NOTES_MISSING_INPUT, "Please provide either a transcript or an audio file")
}

func ErrTranscriptionFailed(err error) AppError {
	return newAppError(err, http.StatusInternalServerError, ErrorCode_NOTES_TRANSCRIPTION_FAILED, "Audio transcription failed")
}

func ErrGenerationFailed(err error) AppError {
	return newAppError(err, http.StatusInternalServerError, ErrorCode_NOTES_GENERATION_FAILED, "Meeting notes generation failed")
}
