package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/johnquangdev/keynotes/internal/domain/entities"
	"github.com/johnquangdev/keynotes/internal/domain/repositories"
)

// NotesRepository implements repositories.NotesRepository with GORM
type NotesRepository struct {
	db *gorm.DB
}

// NewNotesRepository creates a new notes repository
func NewNotesRepository(db *gorm.DB) repositories.NotesRepository {
	return &NotesRepository{db: db}
}

// Create stores a finished run
func (r *NotesRepository) Create(ctx context.Context, notes *entities.MeetingNotes) error {
	if err := r.db.WithContext(ctx).Create(notes).Error; err != nil {
		return fmt.Errorf("failed to create meeting notes: %w", err)
	}
	return nil
}

// FindByID returns nil, nil when no row matches
func (r *NotesRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.MeetingNotes, error) {
	var notes entities.MeetingNotes
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&notes).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find meeting notes: %w", err)
	}
	return &notes, nil
}

// UpdateMetadata replaces the metadata column
func (r *NotesRepository) UpdateMetadata(ctx context.Context, id uuid.UUID, metadata entities.NotesMetadata) error {
	result := r.db.WithContext(ctx).
		Model(&entities.MeetingNotes{}).
		Where("id = ?", id).
		Update("metadata", datatypes.NewJSONType(metadata))
	if result.Error != nil {
		return fmt.Errorf("failed to update meeting notes metadata: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns the newest notes first
func (r *NotesRepository) List(ctx context.Context, filters repositories.NotesFilters) ([]*entities.MeetingNotes, int64, error) {
	var (
		items []*entities.MeetingNotes
		total int64
	)

	query := r.filtered(r.db.WithContext(ctx), filters)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count meeting notes: %w", err)
	}

	if err := r.paged(query, filters).Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list meeting notes: %w", err)
	}
	return items, total, nil
}

func (r *NotesRepository) filtered(db *gorm.DB, filters repositories.NotesFilters) *gorm.DB {
	query := db.Model(&entities.MeetingNotes{})
	if filters.Source != nil {
		query = query.Where("source = ?", *filters.Source)
	}
	return query
}

func (r *NotesRepository) paged(db *gorm.DB, filters repositories.NotesFilters) *gorm.DB {
	query := db.Order("created_at DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}
