package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/keynotes/internal/domain/entities"
)

// NotesFilters holds list options for archived notes
type NotesFilters struct {
	Source *entities.InputSource
	Limit  int
	Offset int
}

// NotesRepository defines persistence operations for archived meeting notes
type NotesRepository interface {
	// Create stores a finished run
	Create(ctx context.Context, notes *entities.MeetingNotes) error

	// FindByID returns nil, nil when no row matches
	FindByID(ctx context.Context, id uuid.UUID) (*entities.MeetingNotes, error)

	// UpdateMetadata replaces the metadata column, used once artifacts are uploaded
	UpdateMetadata(ctx context.Context, id uuid.UUID, metadata entities.NotesMetadata) error

	// List returns the newest notes first
	List(ctx context.Context, filters NotesFilters) ([]*entities.MeetingNotes, int64, error)
}
