package notes

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/keynotes/internal/domain/entities"
	"github.com/johnquangdev/keynotes/internal/domain/repositories"
	"github.com/johnquangdev/keynotes/pkg/ai"
)

// ArtifactStore stores the raw artifacts of an archived run
type ArtifactStore interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	UploadText(ctx context.Context, objectName string, content string) error
}

// ArchiveRecord is everything the archiver persists for a finished run
type ArchiveRecord struct {
	Run        *entities.GenerationRun
	Audio      *AudioInput
	Transcript string
	Summary    string
	Recognizer string
	Generator  string
	ModelID    string
}

// Archiver persists finished runs. Failures are logged and never returned.
type Archiver struct {
	repo   repositories.NotesRepository
	store  ArtifactStore
	logger *zap.Logger
}

// NewArchiver creates an archiver. store may be nil to keep rows only.
func NewArchiver(repo repositories.NotesRepository, store ArtifactStore, logger *zap.Logger) *Archiver {
	return &Archiver{repo: repo, store: store, logger: logger}
}

// Archive stores the row first, then uploads artifacts and records their keys
func (a *Archiver) Archive(ctx context.Context, rec ArchiveRecord) {
	ctx = context.WithoutCancel(ctx)

	notes := entities.NewMeetingNotes(rec.Run, rec.Transcript, rec.Summary)
	notes.RecognizerName = rec.Recognizer
	notes.GeneratorName = rec.Generator
	notes.ModelID = rec.ModelID

	if err := a.repo.Create(ctx, notes); err != nil {
		a.warn("Failed to archive meeting notes", rec.Run, err)
		return
	}

	if a.store == nil {
		return
	}

	meta := notes.Metadata.Data()
	id := rec.Run.ID

	if rec.Transcript != "" {
		key := objectKey(id, "transcript.txt")
		if err := a.store.UploadText(ctx, key, rec.Transcript); err != nil {
			a.warn("Failed to upload transcript", rec.Run, err)
		} else {
			meta.TranscriptObject = key
		}
	}

	key := objectKey(id, "summary.txt")
	if err := a.store.UploadText(ctx, key, rec.Summary); err != nil {
		a.warn("Failed to upload summary", rec.Run, err)
	} else {
		meta.SummaryObject = key
	}

	if rec.Audio != nil {
		if key, err := a.uploadAudio(ctx, id, rec.Audio); err != nil {
			a.warn("Failed to upload audio", rec.Run, err)
		} else {
			meta.AudioObject = key
			meta.AudioContentType = rec.Audio.ContentType
		}
	}

	if err := a.repo.UpdateMetadata(ctx, id, meta); err != nil {
		a.warn("Failed to update archive metadata", rec.Run, err)
		return
	}

	if a.logger != nil {
		a.logger.Info("Meeting notes archived",
			zap.String("request_id", id.String()),
			zap.String("summary_object", meta.SummaryObject),
			zap.String("audio_object", meta.AudioObject),
		)
	}
}

func (a *Archiver) uploadAudio(ctx context.Context, id uuid.UUID, audio *AudioInput) (string, error) {
	body, err := audio.Open()
	if err != nil {
		return "", err
	}
	defer body.Close()

	ext := strings.ToLower(path.Ext(audio.Filename))
	if e, ok := ai.SupportedAudioTypes[audio.ContentType]; ok {
		ext = e
	}
	key := objectKey(id, "audio"+ext)

	size := audio.Size
	if size <= 0 {
		size = -1
	}
	if err := a.store.UploadFile(ctx, key, body, size, audio.ContentType); err != nil {
		return "", err
	}
	return key, nil
}

func (a *Archiver) warn(msg string, run *entities.GenerationRun, err error) {
	if a.logger != nil {
		a.logger.Warn(msg,
			zap.String("request_id", run.ID.String()),
			zap.Error(err),
		)
	}
}
