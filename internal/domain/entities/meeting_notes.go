package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotesMetadata stores auxiliary information about an archived run
type NotesMetadata struct {
	AudioObject      string `json:"audio_object,omitempty"`
	AudioContentType string `json:"audio_content_type,omitempty"`
	TranscriptObject string `json:"transcript_object,omitempty"`
	SummaryObject    string `json:"summary_object,omitempty"`
	RequestID        string `json:"request_id,omitempty"`
}

// MeetingNotes is an archived copy of a finished run
type MeetingNotes struct {
	ID               uuid.UUID                         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Source           InputSource                       `json:"source" gorm:"type:varchar(20);not null"`
	IdentifySpeakers bool                              `json:"identify_speakers" gorm:"default:false"`
	Transcript       string                            `json:"transcript" gorm:"type:text"`
	Summary          string                            `json:"summary" gorm:"type:text;not null"`
	RecognizerName   string                            `json:"recognizer,omitempty" gorm:"type:varchar(50)"`
	GeneratorName    string                            `json:"generator" gorm:"type:varchar(50);not null"`
	ModelID          string                            `json:"model_id,omitempty" gorm:"type:varchar(100)"`
	ProcessingTimeMs int64                             `json:"processing_time_ms"`
	Metadata         datatypes.JSONType[NotesMetadata] `json:"metadata" gorm:"type:jsonb"`
	CreatedAt        time.Time                         `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (MeetingNotes) TableName() string {
	return "meeting_notes"
}

// NewMeetingNotes builds an archive record from a finished run
func NewMeetingNotes(run *GenerationRun, transcript, summary string) *MeetingNotes {
	return &MeetingNotes{
		ID:               run.ID,
		Source:           run.Source,
		IdentifySpeakers: run.IdentifySpeakers,
		Transcript:       transcript,
		Summary:          summary,
		ProcessingTimeMs: run.Duration().Milliseconds(),
		Metadata:         datatypes.NewJSONType(NotesMetadata{RequestID: run.ID.String()}),
		CreatedAt:        time.Now(),
	}
}
