// Package ai holds the speech-recognition and text-generation backend clients.
//
// Every client returns errors tagged with an entities.ErrorKind so callers can
// switch on the failure category without inspecting backend-specific types.
package ai

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/johnquangdev/keynotes/internal/domain/entities"
)

// Audio is an uploaded recording ready to be sent to a recognizer
type Audio struct {
	Body        io.Reader
	ContentType string
	Filename    string
	Size        int64
}

// Recognizer turns audio into a recognition result
type Recognizer interface {
	Name() string
	Recognize(ctx context.Context, audio Audio, identifySpeakers bool) (*entities.RecognitionResult, error)
}

// Generator sends a prompt to a text-generation backend and returns the
// first generated candidate
type Generator interface {
	Name() string
	ModelID() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// SupportedAudioTypes are the upload types the UI offers; other types are
// forwarded to the recognizer as sent
var SupportedAudioTypes = map[string]string{
	"audio/wav":    ".wav",
	"audio/x-wav":  ".wav",
	"audio/wave":   ".wav",
	"audio/mpeg":   ".mp3",
	"audio/mp3":    ".mp3",
	"audio/flac":   ".flac",
	"audio/x-flac": ".flac",
}

// AudioContentType resolves the content type to send upstream, falling back
// to the filename extension when the client sent a generic type
func AudioContentType(contentType, filename string) string {
	base := baseMediaType(contentType)
	if _, ok := SupportedAudioTypes[base]; ok {
		return base
	}
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".wav"):
		return "audio/wav"
	case strings.HasSuffix(lower, ".mp3"):
		return "audio/mpeg"
	case strings.HasSuffix(lower, ".flac"):
		return "audio/flac"
	}
	return base
}

func baseMediaType(contentType string) string {
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

const maxErrorBody = 512

// statusError reads a bounded slice of a failed response body for the error message
func statusError(backend string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Errorf("%s returned status %d", backend, resp.StatusCode)
	}
	return fmt.Errorf("%s returned status %d: %s", backend, resp.StatusCode, msg)
}
