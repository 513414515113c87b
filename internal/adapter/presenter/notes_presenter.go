package presenter

import (
	"github.com/johnquangdev/keynotes/internal/adapter/dto/common"
	notesDTO "github.com/johnquangdev/keynotes/internal/adapter/dto/notes"
	"github.com/johnquangdev/keynotes/internal/domain/entities"
)

// ToNotesResponse converts an archived run to its API representation
func ToNotesResponse(n *entities.MeetingNotes) *notesDTO.NotesResponse {
	if n == nil {
		return nil
	}

	return &notesDTO.NotesResponse{
		ID:               n.ID.String(),
		Source:           string(n.Source),
		IdentifySpeakers: n.IdentifySpeakers,
		Transcript:       n.Transcript,
		Summary:          n.Summary,
		Recognizer:       n.RecognizerName,
		Generator:        n.GeneratorName,
		ModelID:          n.ModelID,
		ProcessingTimeMs: n.ProcessingTimeMs,
		Artifacts:        n.Metadata.Data(),
		CreatedAt:        n.CreatedAt,
	}
}

// ToNotesListResponse converts a page of archived runs
func ToNotesListResponse(items []*entities.MeetingNotes, page, pageSize int, total int64) *common.ListResponse {
	data := make([]*notesDTO.NotesResponse, 0, len(items))
	for _, n := range items {
		data = append(data, ToNotesResponse(n))
	}

	return &common.ListResponse{
		Data:       data,
		Pagination: common.NewPagination(page, pageSize, total),
	}
}
