package entities

import (
	"errors"
	"fmt"
)

// ErrorKind tags a pipeline failure with the stage category that produced it
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindFormat
	KindTranscription
	KindInference
	KindInvalidResponse
)

// Pipeline errors
var (
	ErrFormat          = errors.New("malformed recognition result")
	ErrTranscription   = errors.New("transcription failed")
	ErrInference       = errors.New("inference failed")
	ErrInvalidResponse = errors.New("invalid inference response")
)

func (k ErrorKind) String() string {
	switch k {
	case KindFormat:
		return "format"
	case KindTranscription:
		return "transcription"
	case KindInference:
		return "inference"
	case KindInvalidResponse:
		return "invalid_response"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindFormat:
		return ErrFormat
	case KindTranscription:
		return ErrTranscription
	case KindInference:
		return ErrInference
	case KindInvalidResponse:
		return ErrInvalidResponse
	default:
		return nil
	}
}

// StageError is the tagged error carried by every pipeline result
type StageError struct {
	Kind ErrorKind
	Err  error
}

// NewStageError tags err with kind
func NewStageError(kind ErrorKind, err error) *StageError {
	return &StageError{Kind: kind, Err: err}
}

// Errorf builds a StageError from a format string
func Errorf(kind ErrorKind, format string, args ...interface{}) *StageError {
	return &StageError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

func (e *StageError) Error() string {
	base := "pipeline error"
	if s := e.Kind.sentinel(); s != nil {
		base = s.Error()
	}
	if e.Err == nil {
		return base
	}
	return fmt.Sprintf("%s: %v", base, e.Err)
}

// Unwrap lets errors.Is match both the kind sentinel and the cause
func (e *StageError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf extracts the tag from err, or KindUnknown
func KindOf(err error) ErrorKind {
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}
