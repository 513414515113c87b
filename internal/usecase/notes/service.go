package notes

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/keynotes/internal/domain/entities"
	"github.com/johnquangdev/keynotes/internal/domain/repositories"
	ucerrors "github.com/johnquangdev/keynotes/internal/usecase/errors"
	"github.com/johnquangdev/keynotes/internal/usecase/summary"
	"github.com/johnquangdev/keynotes/internal/usecase/transcript"
	"github.com/johnquangdev/keynotes/pkg/ai"
)

// Service defines meeting-notes operations
type Service interface {
	Generate(ctx context.Context, input Input) (*Output, error)
	Get(ctx context.Context, id uuid.UUID) (*entities.MeetingNotes, error)
	List(ctx context.Context, filters repositories.NotesFilters) ([]*entities.MeetingNotes, int64, error)
}

// AudioInput is an uploaded recording. Open may be called more than once.
type AudioInput struct {
	Open        func() (io.ReadCloser, error)
	ContentType string
	Filename    string
	Size        int64
}

// Input is a single generation request. Audio takes precedence over
// Transcript when both are supplied.
type Input struct {
	Transcript       string
	Audio            *AudioInput
	IdentifySpeakers bool
}

// Output is the result of a finished run
type Output struct {
	Run        *entities.GenerationRun
	Transcript string
	Summary    string
}

type notesService struct {
	recognizer ai.Recognizer
	generator  ai.Generator
	invoker    *summary.Invoker
	archiver   *Archiver
	logger     *zap.Logger
}

// NewNotesService creates the notes service. recognizer may be nil when no
// speech backend is configured; archiver may be nil when archiving is off.
func NewNotesService(recognizer ai.Recognizer, generator ai.Generator, archiver *Archiver, logger *zap.Logger) Service {
	return &notesService{
		recognizer: recognizer,
		generator:  generator,
		invoker:    summary.NewInvoker(generator, logger),
		archiver:   archiver,
		logger:     logger,
	}
}

// Generate runs the pipeline. On a stage failure the returned Output still
// carries the failed run and err is an *entities.StageError.
func (s *notesService) Generate(ctx context.Context, input Input) (*Output, error) {
	source := entities.InputSourceManual
	if input.Audio != nil {
		source = entities.InputSourceAudio
		input.Audio.ContentType = ai.AudioContentType(input.Audio.ContentType, input.Audio.Filename)
	} else if input.Transcript == "" {
		return nil, ucerrors.ErrMissingInput
	}

	run := entities.NewGenerationRun(source, input.IdentifySpeakers)
	out := &Output{Run: run}

	if s.logger != nil {
		s.logger.Info("Starting notes generation",
			zap.String("request_id", run.ID.String()),
			zap.String("source", string(source)),
			zap.Bool("identify_speakers", input.IdentifySpeakers),
		)
	}

	text := input.Transcript
	if input.Audio != nil {
		s.advance(run, entities.RunStageNormalizing)
		normalized, err := s.transcribe(ctx, input.Audio, input.IdentifySpeakers)
		if err != nil {
			return out, s.fail(run, err)
		}
		text = normalized
	}
	out.Transcript = text

	s.advance(run, entities.RunStageBuildingRequest)
	req := summary.BuildRequest(text)

	s.advance(run, entities.RunStageInvoking)
	res := s.invoker.Invoke(ctx, req).Await(ctx)
	if res.Err != nil {
		return out, s.fail(run, res.Err)
	}
	out.Summary = res.Summary

	run.MarkAsDone()
	if s.logger != nil {
		s.logger.Info("Notes generation completed",
			zap.String("request_id", run.ID.String()),
			zap.Duration("duration", run.Duration()),
			zap.Int("transcript_length", len(out.Transcript)),
			zap.Int("summary_length", len(out.Summary)),
		)
	}

	if s.archiver != nil {
		s.archiver.Archive(ctx, ArchiveRecord{
			Run:        run,
			Audio:      input.Audio,
			Transcript: out.Transcript,
			Summary:    out.Summary,
			Recognizer: s.recognizerName(input),
			Generator:  s.generator.Name(),
			ModelID:    s.generator.ModelID(),
		})
	}

	return out, nil
}

func (s *notesService) transcribe(ctx context.Context, audio *AudioInput, identifySpeakers bool) (string, error) {
	if s.recognizer == nil {
		return "", entities.NewStageError(entities.KindTranscription, ucerrors.ErrRecognizerUnavailable)
	}

	body, err := audio.Open()
	if err != nil {
		return "", entities.Errorf(entities.KindTranscription, "open audio: %w", err)
	}
	defer body.Close()

	result, err := s.recognizer.Recognize(ctx, ai.Audio{
		Body:        body,
		ContentType: audio.ContentType,
		Filename:    audio.Filename,
		Size:        audio.Size,
	}, identifySpeakers)
	if err != nil {
		if entities.KindOf(err) == entities.KindUnknown {
			err = entities.NewStageError(entities.KindTranscription, err)
		}
		return "", err
	}

	return transcript.Normalize(result, identifySpeakers)
}

func (s *notesService) advance(run *entities.GenerationRun, stage entities.RunStage) {
	if !run.Advance(stage) {
		return
	}
	if s.logger != nil {
		s.logger.Info("Run stage changed",
			zap.String("request_id", run.ID.String()),
			zap.String("stage", string(stage)),
		)
	}
}

func (s *notesService) fail(run *entities.GenerationRun, err error) error {
	run.MarkAsFailed(err)
	if s.logger != nil {
		s.logger.Error("Notes generation failed",
			zap.String("request_id", run.ID.String()),
			zap.String("failed_in", string(run.FailedIn)),
			zap.String("kind", entities.KindOf(err).String()),
			zap.Error(err),
		)
	}
	return err
}

func (s *notesService) recognizerName(input Input) string {
	if input.Audio == nil || s.recognizer == nil {
		return ""
	}
	return s.recognizer.Name()
}

// Get returns an archived run
func (s *notesService) Get(ctx context.Context, id uuid.UUID) (*entities.MeetingNotes, error) {
	if s.archiver == nil {
		return nil, ucerrors.ErrArchiveDisabled
	}
	notes, err := s.archiver.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get meeting notes: %w", err)
	}
	if notes == nil {
		return nil, ucerrors.ErrNotesNotFound
	}
	return notes, nil
}

// List returns archived runs, newest first
func (s *notesService) List(ctx context.Context, filters repositories.NotesFilters) ([]*entities.MeetingNotes, int64, error) {
	if s.archiver == nil {
		return nil, 0, ucerrors.ErrArchiveDisabled
	}
	if filters.Limit <= 0 || filters.Limit > 100 {
		filters.Limit = 20
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}
	return s.archiver.repo.List(ctx, filters)
}

// objectKey builds the artifact key for a run, e.g. notes/<id>/summary.txt
func objectKey(id uuid.UUID, name string) string {
	return strings.Join([]string{"notes", id.String(), name}, "/")
}
