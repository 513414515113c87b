package presenter

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/johnquangdev/keynotes/internal/domain/entities"
)

const (
	fontName = "Calibri"
	fontSize = 11
)

var (
	reBold     = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet   = regexp.MustCompile(`^[\-\*]\s+(.+)$`)
	reSection  = regexp.MustCompile(`^\d+\.\s+\*\*(.+?)\*\*:?\s*(.*)$`)
	reSpeakerX = regexp.MustCompile(`^(Speaker [^:]+):\s*(.*)$`)
)

// WriteNotesDocx renders an archived run as a Word document at path
func WriteNotesDocx(n *entities.MeetingNotes, path string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	addStyledRun(doc.AddParagraph(""), "Watson KeyNotes", true, 18)
	addStyledRun(doc.AddParagraph(""), n.CreatedAt.Format("January 2, 2006 15:04"), false, fontSize)

	addStyledRun(doc.AddParagraph(""), "Meeting Notes", true, 15)
	for _, line := range strings.Split(n.Summary, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if m := reSection.FindStringSubmatch(trimmed); m != nil {
			addStyledRun(doc.AddParagraph(""), m[1], true, 13)
			if m[2] != "" {
				addRichText(doc.AddParagraph(""), m[2])
			}
			continue
		}
		if m := reBullet.FindStringSubmatch(trimmed); m != nil {
			addRichText(doc.AddParagraph(""), "• "+m[1])
			continue
		}
		addRichText(doc.AddParagraph(""), trimmed)
	}

	if n.Transcript != "" {
		addStyledRun(doc.AddParagraph(""), "Transcript", true, 15)
		for _, line := range strings.Split(n.Transcript, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			p := doc.AddParagraph("")
			if m := reSpeakerX.FindStringSubmatch(trimmed); m != nil {
				p.AddText(m[1] + ": ").Font(fontName).Size(fontSize).Bold(true)
				p.AddText(m[2]).Font(fontName).Size(fontSize)
				continue
			}
			p.AddText(trimmed).Font(fontName).Size(fontSize)
		}
	}

	return doc.SaveTo(path)
}

// RenderNotesDocx renders the document into memory
func RenderNotesDocx(n *entities.MeetingNotes) ([]byte, error) {
	f, err := os.CreateTemp("", "keynotes-*.docx")
	if err != nil {
		return nil, err
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)

	if err := WriteNotesDocx(n, path); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(cleanMarkdownInline(text)).Font(fontName).Size(size)
	if bold {
		run.Bold(true)
	}
}

func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(cleanMarkdownInline(part)).Font(fontName).Size(fontSize)
		}
		if i < len(matches) {
			p.AddText(cleanMarkdownInline(matches[i][1])).Font(fontName).Size(fontSize).Bold(true)
		}
	}
}

func cleanMarkdownInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	return strings.ReplaceAll(s, "`", "")
}
