package notes

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/johnquangdev/keynotes/internal/domain/entities"
	"github.com/johnquangdev/keynotes/internal/domain/repositories"
	ucerrors "github.com/johnquangdev/keynotes/internal/usecase/errors"
	"github.com/johnquangdev/keynotes/pkg/ai"
)

type fakeRecognizer struct {
	result *entities.RecognitionResult
	err    error
	gotCT  string
	gotIDs bool
	calls  int
}

func (f *fakeRecognizer) Name() string { return "fake-stt" }

func (f *fakeRecognizer) Recognize(ctx context.Context, audio ai.Audio, identifySpeakers bool) (*entities.RecognitionResult, error) {
	f.calls++
	f.gotCT = audio.ContentType
	f.gotIDs = identifySpeakers
	if _, err := io.ReadAll(audio.Body); err != nil {
		return nil, err
	}
	return f.result, f.err
}

type fakeGenerator struct {
	text   string
	err    error
	prompt string
	calls  int
}

func (f *fakeGenerator) Name() string    { return "fake-llm" }
func (f *fakeGenerator) ModelID() string { return "fake-model" }

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.text, f.err
}

type memoryRepo struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]*entities.MeetingNotes
	createErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: map[uuid.UUID]*entities.MeetingNotes{}}
}

func (r *memoryRepo) Create(ctx context.Context, n *entities.MeetingNotes) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[n.ID] = n
	return nil
}

func (r *memoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.MeetingNotes, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[id], nil
}

func (r *memoryRepo) UpdateMetadata(ctx context.Context, id uuid.UUID, meta entities.NotesMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.rows[id]
	if !ok {
		return errors.New("not found")
	}
	n.Metadata = datatypes.NewJSONType(meta)
	return nil
}

func (r *memoryRepo) List(ctx context.Context, f repositories.NotesFilters) ([]*entities.MeetingNotes, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entities.MeetingNotes, 0, len(r.rows))
	for _, n := range r.rows {
		out = append(out, n)
	}
	return out, int64(len(out)), nil
}

type memoryStore struct {
	objects map[string]string
	fail    bool
}

func (s *memoryStore) UploadFile(ctx context.Context, name string, r io.Reader, size int64, ct string) error {
	if s.fail {
		return errors.New("bucket unavailable")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.objects[name] = string(b)
	return nil
}

func (s *memoryStore) UploadText(ctx context.Context, name, content string) error {
	return s.UploadFile(ctx, name, strings.NewReader(content), int64(len(content)), "text/plain")
}

func audioInput(data, contentType, filename string) *AudioInput {
	return &AudioInput{
		Open:        func() (io.ReadCloser, error) { return io.NopCloser(strings.NewReader(data)), nil },
		ContentType: contentType,
		Filename:    filename,
		Size:        int64(len(data)),
	}
}

func utterance(text string, speakers ...string) entities.Utterance {
	u := entities.Utterance{Alternatives: []entities.Alternative{{Transcript: &text}}}
	for _, sp := range speakers {
		u.SpeakerLabels = append(u.SpeakerLabels, entities.SpeakerLabel{Speaker: entities.SpeakerID(sp)})
	}
	return u
}

func twoSpeakers() *entities.RecognitionResult {
	return &entities.RecognitionResult{Results: []entities.Utterance{
		utterance("Hello", "0"),
		utterance("team", "0"),
		utterance("Hi", "1"),
	}}
}

func TestGenerate_ManualTranscript(t *testing.T) {
	rec := &fakeRecognizer{}
	gen := &fakeGenerator{text: "1. Context"}
	svc := NewNotesService(rec, gen, nil, zap.NewNop())

	out, err := svc.Generate(t.Context(), Input{Transcript: "we shipped it"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out.Summary != "1. Context" || out.Transcript != "we shipped it" {
		t.Fatalf("unexpected output %+v", out)
	}
	if rec.calls != 0 {
		t.Fatalf("recognizer must not run for manual transcripts")
	}
	if out.Run.Stage != entities.RunStageDone || out.Run.Source != entities.InputSourceManual {
		t.Fatalf("unexpected run %+v", out.Run)
	}
	if !strings.HasSuffix(gen.prompt, "Transcript:\n\nwe shipped it") {
		t.Fatalf("prompt does not embed transcript: %q", gen.prompt)
	}
}

func TestGenerate_AudioWinsAndNormalizes(t *testing.T) {
	rec := &fakeRecognizer{result: twoSpeakers()}
	gen := &fakeGenerator{text: "notes"}
	svc := NewNotesService(rec, gen, nil, nil)

	out, err := svc.Generate(t.Context(), Input{
		Transcript:       "ignored",
		Audio:            audioInput("RIFF", "application/octet-stream", "standup.wav"),
		IdentifySpeakers: true,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out.Transcript != "\nSpeaker 0: Hello team \nSpeaker 1: Hi" {
		t.Fatalf("unexpected transcript %q", out.Transcript)
	}
	if rec.gotCT != "audio/wav" || !rec.gotIDs {
		t.Fatalf("recognizer got %q speakers=%v", rec.gotCT, rec.gotIDs)
	}
	if out.Run.Source != entities.InputSourceAudio {
		t.Fatalf("expected audio source, got %s", out.Run.Source)
	}
}

func TestGenerate_EmptyRecognitionStillInvokes(t *testing.T) {
	rec := &fakeRecognizer{result: &entities.RecognitionResult{Results: []entities.Utterance{}}}
	gen := &fakeGenerator{text: "nothing"}
	svc := NewNotesService(rec, gen, nil, nil)

	out, err := svc.Generate(t.Context(), Input{Audio: audioInput("x", "audio/mpeg", "a.mp3")})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out.Transcript != "" || gen.calls != 1 {
		t.Fatalf("expected invoker to run on empty transcript, calls=%d", gen.calls)
	}
	if !strings.HasSuffix(gen.prompt, "Transcript:\n\n") {
		t.Fatalf("expected empty transcript slot")
	}
}

func TestGenerate_InputErrors(t *testing.T) {
	svc := NewNotesService(&fakeRecognizer{}, &fakeGenerator{}, nil, nil)

	if _, err := svc.Generate(t.Context(), Input{}); !errors.Is(err, ucerrors.ErrMissingInput) {
		t.Fatalf("expected missing input, got %v", err)
	}
}

func TestGenerate_ForwardsAnyAudioType(t *testing.T) {
	rec := &fakeRecognizer{result: twoSpeakers()}
	gen := &fakeGenerator{}
	svc := NewNotesService(rec, gen, nil, nil)

	if _, err := svc.Generate(t.Context(), Input{Audio: audioInput("x", "audio/ogg; codecs=opus", "call.ogg")}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if rec.calls != 1 || rec.gotCT != "audio/ogg" {
		t.Fatalf("expected ogg audio to reach the recognizer, calls=%d ct=%q", rec.calls, rec.gotCT)
	}

	rec.err = errors.New("415 unsupported media type")
	_, err := svc.Generate(t.Context(), Input{Audio: audioInput("x", "video/webm", "call.webm")})
	if entities.KindOf(err) != entities.KindTranscription {
		t.Fatalf("expected backend rejection as transcription error, got %v", err)
	}
}

func TestGenerate_StageFailures(t *testing.T) {
	tests := []struct {
		name       string
		recognizer ai.Recognizer
		generator  *fakeGenerator
		input      Input
		wantKind   entities.ErrorKind
		wantStage  entities.RunStage
		wantCalls  int
	}{
		{
			name:       "recognizer error",
			recognizer: &fakeRecognizer{err: errors.New("401 unauthorized")},
			generator:  &fakeGenerator{},
			input:      Input{Audio: audioInput("x", "audio/flac", "a.flac")},
			wantKind:   entities.KindTranscription,
			wantStage:  entities.RunStageNormalizing,
		},
		{
			name:       "malformed recognition",
			recognizer: &fakeRecognizer{result: &entities.RecognitionResult{}},
			generator:  &fakeGenerator{},
			input:      Input{Audio: audioInput("x", "audio/flac", "a.flac")},
			wantKind:   entities.KindFormat,
			wantStage:  entities.RunStageNormalizing,
		},
		{
			name:       "no recognizer configured",
			recognizer: nil,
			generator:  &fakeGenerator{},
			input:      Input{Audio: audioInput("x", "audio/flac", "a.flac")},
			wantKind:   entities.KindTranscription,
			wantStage:  entities.RunStageNormalizing,
		},
		{
			name:       "invalid inference response",
			recognizer: &fakeRecognizer{},
			generator:  &fakeGenerator{err: entities.Errorf(entities.KindInvalidResponse, "empty results")},
			input:      Input{Transcript: "t"},
			wantKind:   entities.KindInvalidResponse,
			wantStage:  entities.RunStageInvoking,
			wantCalls:  1,
		},
		{
			name:       "inference transport error",
			recognizer: &fakeRecognizer{},
			generator:  &fakeGenerator{err: errors.New("dial tcp: timeout")},
			input:      Input{Transcript: "t"},
			wantKind:   entities.KindInference,
			wantStage:  entities.RunStageInvoking,
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewNotesService(tt.recognizer, tt.generator, nil, zap.NewNop())
			out, err := svc.Generate(t.Context(), tt.input)
			if got := entities.KindOf(err); got != tt.wantKind {
				t.Fatalf("expected %v, got %v (%v)", tt.wantKind, got, err)
			}
			if out == nil || out.Run.Stage != entities.RunStageFailed || out.Run.FailedIn != tt.wantStage {
				t.Fatalf("unexpected run %+v", out)
			}
			if out.Summary != "" {
				t.Fatalf("no partial success expected, got %q", out.Summary)
			}
			if tt.generator.calls != tt.wantCalls {
				t.Fatalf("expected %d generator calls, got %d", tt.wantCalls, tt.generator.calls)
			}
		})
	}
}

func TestGenerate_ArchivesRun(t *testing.T) {
	repo := newMemoryRepo()
	store := &memoryStore{objects: map[string]string{}}
	svc := NewNotesService(&fakeRecognizer{result: twoSpeakers()}, &fakeGenerator{text: "summary"},
		NewArchiver(repo, store, zap.NewNop()), zap.NewNop())

	out, err := svc.Generate(t.Context(), Input{
		Audio:            audioInput("fLaC", "audio/x-flac", "call.flac"),
		IdentifySpeakers: true,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	got, err := svc.Get(t.Context(), out.Run.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Summary != "summary" || got.GeneratorName != "fake-llm" || got.RecognizerName != "fake-stt" {
		t.Fatalf("unexpected archived row %+v", got)
	}

	meta := got.Metadata.Data()
	if store.objects[meta.SummaryObject] != "summary" {
		t.Fatalf("summary artifact missing: %+v", meta)
	}
	if store.objects[meta.AudioObject] != "fLaC" || !strings.HasSuffix(meta.AudioObject, "audio.flac") {
		t.Fatalf("audio artifact missing: %+v", meta)
	}
	if store.objects[meta.TranscriptObject] != out.Transcript {
		t.Fatalf("transcript artifact mismatch")
	}
}

func TestGenerate_ArchiveFailureDoesNotFailRequest(t *testing.T) {
	repo := newMemoryRepo()
	repo.createErr = errors.New("connection refused")
	svc := NewNotesService(nil, &fakeGenerator{text: "summary"},
		NewArchiver(repo, &memoryStore{objects: map[string]string{}, fail: true}, nil), nil)

	out, err := svc.Generate(t.Context(), Input{Transcript: "t"})
	if err != nil || out.Summary != "summary" {
		t.Fatalf("archive failure leaked into the request: %v", err)
	}
}

func TestGet_Errors(t *testing.T) {
	svc := NewNotesService(nil, &fakeGenerator{}, nil, nil)
	if _, err := svc.Get(t.Context(), uuid.New()); !errors.Is(err, ucerrors.ErrArchiveDisabled) {
		t.Fatalf("expected archive disabled, got %v", err)
	}
	if _, _, err := svc.List(t.Context(), repositories.NotesFilters{}); !errors.Is(err, ucerrors.ErrArchiveDisabled) {
		t.Fatalf("expected archive disabled, got %v", err)
	}

	svc = NewNotesService(nil, &fakeGenerator{}, NewArchiver(newMemoryRepo(), nil, nil), nil)
	if _, err := svc.Get(t.Context(), uuid.New()); !errors.Is(err, ucerrors.ErrNotesNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
