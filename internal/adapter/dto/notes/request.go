package notes

// GenerateNotesForm is the multipart form accepted by POST /generateMeetingNotes.
// The audio file is read separately from the "audio" field.
type GenerateNotesForm struct {
	Transcript       string `form:"transcript"`
	IdentifySpeakers bool   `form:"identify_speakers"`
}

// GenerateNotesPageForm is the form posted by the interactive page
type GenerateNotesPageForm struct {
	InputMode        string `form:"input_mode" validate:"required,oneof=audio manual"`
	IdentifySpeakers bool   `form:"identify_speakers"`
	Transcript       string `form:"transcript"`
}

// ListNotesRequest represents query parameters for listing archived notes
type ListNotesRequest struct {
	Source   string `query:"source" validate:"omitempty,oneof=audio manual"`
	Page     int    `query:"page" validate:"omitempty,min=1"`
	PageSize int    `query:"page_size" validate:"omitempty,min=1,max=100"`
}
