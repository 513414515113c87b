package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/keynotes/errors"
	"github.com/johnquangdev/keynotes/internal/domain/entities"
	"github.com/johnquangdev/keynotes/internal/domain/repositories"
	ucerrors "github.com/johnquangdev/keynotes/internal/usecase/errors"
	"github.com/johnquangdev/keynotes/internal/usecase/notes"
	"github.com/johnquangdev/keynotes/pkg/config"
	pkgvalidator "github.com/johnquangdev/keynotes/pkg/validator"
)

type fakeNotesService struct {
	gotInput  notes.Input
	gotAudio  string
	out       *notes.Output
	err       error
	stored    *entities.MeetingNotes
	getErr    error
	gotFilter repositories.NotesFilters
}

func (f *fakeNotesService) Generate(ctx context.Context, in notes.Input) (*notes.Output, error) {
	f.gotInput = in
	if in.Audio != nil {
		rc, err := in.Audio.Open()
		if err != nil {
			return nil, err
		}
		b, _ := io.ReadAll(rc)
		rc.Close()
		f.gotAudio = string(b)
	}
	return f.out, f.err
}

func (f *fakeNotesService) Get(ctx context.Context, id uuid.UUID) (*entities.MeetingNotes, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.stored, nil
}

func (f *fakeNotesService) List(ctx context.Context, filters repositories.NotesFilters) ([]*entities.MeetingNotes, int64, error) {
	f.gotFilter = filters
	if f.getErr != nil {
		return nil, 0, f.getErr
	}
	return []*entities.MeetingNotes{f.stored}, 1, nil
}

type formFile struct {
	field, name, contentType, data string
}

func multipartBody(t *testing.T, fields map[string]string, file *formFile) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+file.field+`"; filename="`+file.name+`"`)
		h.Set("Content-Type", file.contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		part.Write([]byte(file.data))
	}
	w.Close()
	return body, w.FormDataContentType()
}

func newTestServer(svc notes.Service) *echo.Echo {
	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.Renderer = NewTemplateRenderer()
	cfg := &config.Config{Server: config.ServerConfig{MaxUploadMB: 1, Environment: "test"}}
	rt := NewRouter(cfg, NewNotesController(svc, nil), NewUIController(svc, nil))
	rt.Setup(e)
	return e
}

func doGenerate(t *testing.T, e *echo.Echo, fields map[string]string, file *formFile) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := multipartBody(t, fields, file)
	req := httptest.NewRequest(http.MethodPost, "/generateMeetingNotes", body)
	req.Header.Set(echo.HeaderContentType, ct)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func finishedOutput(summary string) *notes.Output {
	run := entities.NewGenerationRun(entities.InputSourceManual, false)
	run.MarkAsDone()
	return &notes.Output{Run: run, Summary: summary}
}

func TestGenerateMeetingNotes_Created(t *testing.T) {
	svc := &fakeNotesService{out: finishedOutput("1. **Context**: sync")}
	e := newTestServer(svc)

	rec := doGenerate(t, e, map[string]string{"transcript": "hello", "identify_speakers": "true"}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["meeting_summary"] != "1. **Context**: sync" {
		t.Fatalf("unexpected body %v", resp)
	}
	if svc.gotInput.Transcript != "hello" || !svc.gotInput.IdentifySpeakers || svc.gotInput.Audio != nil {
		t.Fatalf("unexpected input %+v", svc.gotInput)
	}
}

func TestGenerateMeetingNotes_ForwardsAudio(t *testing.T) {
	svc := &fakeNotesService{out: finishedOutput("notes")}
	e := newTestServer(svc)

	rec := doGenerate(t, e, map[string]string{"transcript": "ignored"},
		&formFile{field: "audio", name: "call.mp3", contentType: "audio/mpeg", data: "ID3"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	if svc.gotInput.Audio == nil || svc.gotAudio != "ID3" {
		t.Fatalf("audio not forwarded: %+v", svc.gotInput)
	}
	if svc.gotInput.Audio.ContentType != "audio/mpeg" || svc.gotInput.Audio.Filename != "call.mp3" {
		t.Fatalf("unexpected audio metadata %+v", svc.gotInput.Audio)
	}
}

func TestGenerateMeetingNotes_Errors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"missing input", ucerrors.ErrMissingInput, http.StatusBadRequest, "Please provide either a transcript or an audio file"},
		{"transcription", entities.Errorf(entities.KindTranscription, "401"), http.StatusInternalServerError, "Audio transcription failed"},
		{"malformed recognition", entities.Errorf(entities.KindFormat, "missing results"), http.StatusInternalServerError, "Audio transcription failed"},
		{"inference", entities.Errorf(entities.KindInference, "timeout"), http.StatusInternalServerError, "Meeting notes generation failed"},
		{"invalid response", entities.Errorf(entities.KindInvalidResponse, "empty results"), http.StatusInternalServerError, "Meeting notes generation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestServer(&fakeNotesService{err: tt.err})
			rec := doGenerate(t, e, map[string]string{}, nil)
			if rec.Code != tt.status {
				t.Fatalf("expected %d got %d", tt.status, rec.Code)
			}
			var resp map[string]interface{}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp["error"] != tt.message {
				t.Fatalf("expected error %q got %v", tt.message, resp)
			}
			if len(resp) != 1 {
				t.Fatalf("expected only an error key, got %v", resp)
			}
		})
	}
}

func TestGenerateMeetingNotes_BodyLimit(t *testing.T) {
	e := newTestServer(&fakeNotesService{out: finishedOutput("x")})
	rec := doGenerate(t, e, nil, &formFile{field: "audio", name: "big.wav", contentType: "audio/wav", data: strings.Repeat("a", 2<<20)})
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 got %d", rec.Code)
	}
	assertErrorBody(t, rec, "Uploaded file is too large")
}

// rejectAll stands in for the rate limiter once a client is over its quota
func rejectAll(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Retry-After", "60")
		return errors.ErrRateLimited()
	}
}

func newLimitedServer(svc notes.Service) *echo.Echo {
	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.Renderer = NewTemplateRenderer()
	cfg := &config.Config{Server: config.ServerConfig{MaxUploadMB: 1, Environment: "test"}}
	rt := NewRouter(cfg, NewNotesController(svc, nil), NewUIController(svc, nil), WithRateLimit(rejectAll))
	rt.Setup(e)
	return e
}

func TestGenerateMeetingNotes_RateLimited(t *testing.T) {
	svc := &fakeNotesService{out: finishedOutput("x")}
	e := newLimitedServer(svc)

	rec := doGenerate(t, e, map[string]string{"transcript": "hello"}, nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Fatalf("expected Retry-After header, got %v", rec.Header())
	}
	assertErrorBody(t, rec, "Too many requests, slow down")
	if svc.gotInput.Transcript != "" {
		t.Fatalf("service must not run when rate limited")
	}
}

func TestNotesRoutes_RateLimitedUsesEnvelope(t *testing.T) {
	e := newLimitedServer(&fakeNotesService{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/notes", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", rec.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["message"] != "Too many requests, slow down" {
		t.Fatalf("unexpected body %v", resp)
	}
}

func assertErrorBody(t *testing.T, rec *httptest.ResponseRecorder, message string) {
	t.Helper()
	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["error"] != message || len(resp) != 1 {
		t.Fatalf("expected {\"error\": %q}, got %v", message, resp)
	}
}

func TestGetNotes(t *testing.T) {
	id := uuid.New()
	stored := &entities.MeetingNotes{ID: id, Source: entities.InputSourceManual, Summary: "s", GeneratorName: "watsonx", CreatedAt: time.Now()}

	tests := []struct {
		name   string
		path   string
		svc    *fakeNotesService
		status int
	}{
		{"found", "/v1/notes/" + id.String(), &fakeNotesService{stored: stored}, http.StatusOK},
		{"invalid id", "/v1/notes/not-a-uuid", &fakeNotesService{stored: stored}, http.StatusBadRequest},
		{"not found", "/v1/notes/" + id.String(), &fakeNotesService{getErr: ucerrors.ErrNotesNotFound}, http.StatusNotFound},
		{"archive disabled", "/v1/notes/" + id.String(), &fakeNotesService{getErr: ucerrors.ErrArchiveDisabled}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestServer(tt.svc)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.status {
				t.Fatalf("expected %d got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestListNotes(t *testing.T) {
	svc := &fakeNotesService{stored: &entities.MeetingNotes{ID: uuid.New(), Source: entities.InputSourceAudio}}
	e := newTestServer(svc)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/notes?source=audio&page=2&page_size=10", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotFilter.Limit != 10 || svc.gotFilter.Offset != 10 || svc.gotFilter.Source == nil || *svc.gotFilter.Source != entities.InputSourceAudio {
		t.Fatalf("unexpected filters %+v", svc.gotFilter)
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/notes?source=video", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad source, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"source":"must be one of [audio manual]"`) {
		t.Fatalf("missing field detail: %s", rec.Body.String())
	}
}

func TestExportDocx(t *testing.T) {
	id := uuid.New()
	svc := &fakeNotesService{stored: &entities.MeetingNotes{ID: id, Summary: "1. **Context**: sync", CreatedAt: time.Now()}}
	e := newTestServer(svc)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/notes/"+id.String()+"/docx", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != docxContentType {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !strings.Contains(rec.Header().Get(echo.HeaderContentDisposition), id.String()) {
		t.Fatalf("missing attachment filename")
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Fatalf("body is not a zip archive")
	}
}

func TestHealth(t *testing.T) {
	e := newTestServer(&fakeNotesService{})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
}

func TestToAppError_EchoHTTPError(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		code    errors.ErrorCode
		message string
	}{
		{echo.ErrStatusRequestEntityTooLarge, http.StatusRequestEntityTooLarge, errors.ErrorCode_PAYLOAD_TOO_LARGE, "Uploaded file is too large"},
		{echo.ErrMethodNotAllowed, http.StatusMethodNotAllowed, errors.ErrorCode_HTTP, "Method Not Allowed"},
		{echo.NewHTTPError(http.StatusTeapot), http.StatusTeapot, errors.ErrorCode_HTTP, "I'm a teapot"},
	}
	for _, tt := range tests {
		got := toAppError(tt.err)
		if got.HTTPCode != tt.status || got.Code != tt.code || got.Message != tt.message {
			t.Errorf("toAppError(%v) = %d %v %q", tt.err, got.HTTPCode, got.Code, got.Message)
		}
	}
}
