package handler

import (
	"embed"
	"html/template"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/keynotes/errors"
	notesDTO "github.com/johnquangdev/keynotes/internal/adapter/dto/notes"
	"github.com/johnquangdev/keynotes/internal/domain/entities"
	"github.com/johnquangdev/keynotes/internal/usecase/notes"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageTemplate = "keynotes.html"

	inputModeAudio  = "audio"
	inputModeManual = "manual"

	msgMissingInput = "Please upload an audio file or enter a transcript to proceed."
)

// TemplateRenderer renders the embedded HTML templates for echo
type TemplateRenderer struct {
	templates *template.Template
}

// NewTemplateRenderer parses the embedded templates
func NewTemplateRenderer() *TemplateRenderer {
	return &TemplateRenderer{
		templates: template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

// Render implements echo.Renderer
func (r *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// notesPage is the view model of the interactive page
type notesPage struct {
	IdentifySpeakers bool
	InputMode        string
	ManualTranscript string
	Warning          string
	Error            string
	Transcribed      bool
	Transcript       string
	Done             bool
	Summary          string
}

// UIController serves the interactive page
type UIController struct {
	svc    notes.Service
	logger *zap.Logger
}

// NewUIController creates a new UI controller
func NewUIController(svc notes.Service, logger *zap.Logger) *UIController {
	return &UIController{svc: svc, logger: logger}
}

// Index renders the empty form
func (uc *UIController) Index(c echo.Context) error {
	return c.Render(http.StatusOK, pageTemplate, notesPage{
		IdentifySpeakers: true,
		InputMode:        inputModeAudio,
	})
}

// renderError shows a request-level failure (upload too large, rate limited)
func (uc *UIController) renderError(c echo.Context, appErr errors.AppError) error {
	if uc.logger != nil {
		uc.logger.Warn("ui.request.rejected",
			zap.Stringer("app_code", appErr.Code),
			zap.Error(appErr),
		)
	}
	return c.Render(appErr.HTTPCode, pageTemplate, notesPage{
		IdentifySpeakers: true,
		InputMode:        inputModeAudio,
		Error:            appErr.Message,
	})
}

// Generate handles the "Generate Meeting Notes" action
func (uc *UIController) Generate(c echo.Context) error {
	var form notesDTO.GenerateNotesPageForm
	if err := c.Bind(&form); err != nil {
		form = notesDTO.GenerateNotesPageForm{IdentifySpeakers: true}
	}
	if err := c.Validate(&form); err != nil {
		form.InputMode = inputModeAudio
	}

	page := notesPage{
		IdentifySpeakers: form.IdentifySpeakers,
		InputMode:        form.InputMode,
		ManualTranscript: form.Transcript,
	}

	input := notes.Input{IdentifySpeakers: form.IdentifySpeakers}
	switch form.InputMode {
	case inputModeAudio:
		if fh, err := c.FormFile("audio"); err == nil {
			input.Audio = audioFromFileHeader(fh)
		}
	case inputModeManual:
		input.Transcript = form.Transcript
	}

	if input.Audio == nil && input.Transcript == "" {
		page.Warning = msgMissingInput
		return c.Render(http.StatusOK, pageTemplate, page)
	}

	out, err := uc.svc.Generate(c.Request().Context(), input)
	if err != nil {
		if uc.logger != nil {
			uc.logger.Error("ui.generate.error",
				zap.String("input_mode", form.InputMode),
				zap.Error(err),
			)
		}
		if input.Audio != nil {
			page.Error = "Error during transcription or summarization: " + err.Error()
		} else {
			page.Error = "Error during summarization: " + err.Error()
		}
		if out != nil && out.Run.FailedIn != entities.RunStageNormalizing && input.Audio != nil {
			page.Transcribed = true
			page.Transcript = out.Transcript
		}
		return c.Render(http.StatusOK, pageTemplate, page)
	}

	page.Transcribed = input.Audio != nil
	page.Transcript = out.Transcript
	page.Done = true
	page.Summary = out.Summary
	return c.Render(http.StatusOK, pageTemplate, page)
}
