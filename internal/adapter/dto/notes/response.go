package notes

import (
	"time"

	"github.com/johnquangdev/keynotes/internal/domain/entities"
)

// GenerateNotesResponse is returned with 201 by POST /generateMeetingNotes
type GenerateNotesResponse struct {
	MeetingSummary string `json:"meeting_summary"`
	RequestID      string `json:"request_id,omitempty"`
}

// GenerateNotesError is the error body of POST /generateMeetingNotes
type GenerateNotesError struct {
	Error string `json:"error"`
}

// NotesResponse represents an archived run
type NotesResponse struct {
	ID               string                 `json:"id"`
	Source           string                 `json:"source"`
	IdentifySpeakers bool                   `json:"identify_speakers"`
	Transcript       string                 `json:"transcript"`
	Summary          string                 `json:"summary"`
	Recognizer       string                 `json:"recognizer,omitempty"`
	Generator        string                 `json:"generator"`
	ModelID          string                 `json:"model_id,omitempty"`
	ProcessingTimeMs int64                  `json:"processing_time_ms"`
	Artifacts        entities.NotesMetadata `json:"artifacts"`
	CreatedAt        time.Time              `json:"created_at"`
}
