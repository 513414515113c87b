package summary

import (
	"strings"
	"testing"
)

// sectionHeaders are the labeled sections the prompt asks for, in order
var sectionHeaders = []string{"Context", "Key Points", "Action Items", "Next Steps", "Conclusion"}

func TestBuildRequest_IsPure(t *testing.T) {
	transcript := "\nSpeaker 0: Hello team \nSpeaker 1: Hi"
	a := BuildRequest(transcript)
	b := BuildRequest(transcript)
	if a.Prompt() != b.Prompt() {
		t.Fatalf("prompts differ for the same transcript")
	}
	if !strings.HasSuffix(a.Prompt(), "Transcript:\n\n"+transcript) {
		t.Fatalf("transcript not appended verbatim: %q", a.Prompt())
	}
}

func TestBuildRequest_SectionsInOrder(t *testing.T) {
	prompt := BuildRequest("anything").Prompt()
	last := -1
	for i, header := range sectionHeaders {
		marker := "**" + header + "**"
		idx := strings.Index(prompt, marker)
		if idx < 0 {
			t.Fatalf("missing section %q", header)
		}
		if idx < last {
			t.Fatalf("section %d (%q) out of order", i+1, header)
		}
		last = idx
	}
}

func TestBuildRequest_EmptyTranscript(t *testing.T) {
	prompt := BuildRequest("").Prompt()
	for _, header := range sectionHeaders {
		if !strings.Contains(prompt, header) {
			t.Fatalf("missing section %q", header)
		}
	}
	if !strings.HasSuffix(prompt, "Transcript:\n\n") {
		t.Fatalf("expected an empty transcript slot, got %q", prompt)
	}
}

func TestBuildRequest_NoTrimming(t *testing.T) {
	transcript := "  padded \n"
	if got := BuildRequest(transcript).Prompt(); !strings.HasSuffix(got, transcript) {
		t.Fatalf("transcript was altered: %q", got)
	}
}
