package presenter

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/keynotes/internal/domain/entities"
)

func TestRenderNotesDocx(t *testing.T) {
	n := &entities.MeetingNotes{
		ID:         uuid.New(),
		Source:     entities.InputSourceAudio,
		Transcript: "\nSpeaker 0: Hello team \nSpeaker 1: Hi",
		Summary:    "1. **Context**: Weekly sync\n2. **Action Items**:\n- Ship the **release**",
		CreatedAt:  time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	}

	b, err := RenderNotesDocx(n)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		t.Fatalf("output is not a docx archive: %v", err)
	}

	var body string
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open document.xml: %v", err)
		}
		raw, _ := io.ReadAll(rc)
		rc.Close()
		body = string(raw)
	}
	if body == "" {
		t.Fatalf("word/document.xml missing")
	}

	for _, want := range []string{"Watson KeyNotes", "Context", "Weekly sync", "release", "Speaker 1", "Hi"} {
		if !strings.Contains(body, want) {
			t.Errorf("document missing %q", want)
		}
	}
	if strings.Contains(body, "**") {
		t.Errorf("markdown markers leaked into document")
	}
}

func TestToNotesResponse(t *testing.T) {
	if ToNotesResponse(nil) != nil {
		t.Fatalf("nil notes should map to nil")
	}

	run := entities.NewGenerationRun(entities.InputSourceManual, false)
	run.MarkAsDone()
	n := entities.NewMeetingNotes(run, "t", "s")
	n.GeneratorName = "watsonx"

	resp := ToNotesResponse(n)
	if resp.ID != run.ID.String() || resp.Source != "manual" || resp.Generator != "watsonx" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Artifacts.RequestID != run.ID.String() {
		t.Fatalf("metadata not carried: %+v", resp.Artifacts)
	}

	list := ToNotesListResponse([]*entities.MeetingNotes{n}, 1, 20, 41)
	if list.Pagination.TotalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", list.Pagination.TotalPages)
	}
}
