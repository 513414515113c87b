package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/keynotes/errors"
	notesDTO "github.com/johnquangdev/keynotes/internal/adapter/dto/notes"
	"github.com/johnquangdev/keynotes/internal/adapter/presenter"
	"github.com/johnquangdev/keynotes/internal/domain/entities"
	"github.com/johnquangdev/keynotes/internal/domain/repositories"
	"github.com/johnquangdev/keynotes/internal/usecase/notes"
	pkgvalidator "github.com/johnquangdev/keynotes/pkg/validator"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// NotesController handles meeting-notes endpoints
type NotesController struct {
	svc    notes.Service
	logger *zap.Logger
}

// NewNotesController creates a new notes controller
func NewNotesController(svc notes.Service, logger *zap.Logger) *NotesController {
	return &NotesController{svc: svc, logger: logger}
}

// GenerateMeetingNotes generates notes from a transcript or an audio recording
// @Summary      Generate meeting notes
// @Description  Accepts a transcript and/or an audio file. When both are sent the audio is transcribed and the transcript is ignored.
// @Tags         Notes
// @Accept       multipart/form-data
// @Produce      json
// @Param        transcript         formData  string  false  "Meeting transcript"
// @Param        audio              formData  file    false  "Recording (wav, mp3 or flac)"
// @Param        identify_speakers  formData  bool    false  "Label speakers in the transcript"
// @Success      201  {object}  notes.GenerateNotesResponse
// @Failure      400  {object}  notes.GenerateNotesError  "Neither transcript nor audio supplied"
// @Failure      500  {object}  notes.GenerateNotesError  "Transcription or generation failed"
// @Router       /generateMeetingNotes [post]
func (nc *NotesController) GenerateMeetingNotes(c echo.Context) error {
	var form notesDTO.GenerateNotesForm
	if err := c.Bind(&form); err != nil {
		return nc.respondNotesError(c, errors.ErrInvalidArgument("Invalid form data"))
	}

	input := notes.Input{
		Transcript:       form.Transcript,
		IdentifySpeakers: form.IdentifySpeakers,
	}
	if fh, err := c.FormFile("audio"); err == nil {
		input.Audio = audioFromFileHeader(fh)
	}

	out, err := nc.svc.Generate(c.Request().Context(), input)
	if err != nil {
		return nc.respondNotesError(c, toAppError(err))
	}

	return c.JSON(http.StatusCreated, notesDTO.GenerateNotesResponse{
		MeetingSummary: out.Summary,
		RequestID:      out.Run.ID.String(),
	})
}

// respondNotesError writes the {"error": ...} body used by /generateMeetingNotes
func (nc *NotesController) respondNotesError(c echo.Context, appErr errors.AppError) error {
	if nc.logger != nil {
		nc.logger.Error("http.response.error",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Stringer("app_code", appErr.Code),
			zap.Error(appErr),
		)
	}
	return c.JSON(appErr.HTTPCode, notesDTO.GenerateNotesError{Error: appErr.Message})
}

// GetNotes returns an archived run
// @Summary      Get archived meeting notes
// @Tags         Notes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Notes ID (UUID)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}  "Invalid ID"
// @Failure      404  {object}  map[string]interface{}  "Not found or archive disabled"
// @Router       /v1/notes/{id} [get]
func (nc *NotesController) GetNotes(c echo.Context) error {
	n, err := nc.findNotes(c)
	if err != nil {
		return HandleError(nc.logger, c, err)
	}
	return HandleSuccess(nc.logger, c, presenter.ToNotesResponse(n))
}

// ListNotes returns archived runs, newest first
// @Summary      List archived meeting notes
// @Tags         Notes
// @Produce      json
// @Security     BearerAuth
// @Param        source     query     string  false  "audio or manual"
// @Param        page       query     int     false  "Page number"  default(1)
// @Param        page_size  query     int     false  "Page size"    default(20)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /v1/notes [get]
func (nc *NotesController) ListNotes(c echo.Context) error {
	var req notesDTO.ListNotesRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(nc.logger, c, errors.ErrInvalidArgument("Invalid query parameters"))
	}
	if err := c.Validate(&req); err != nil {
		appErr := errors.ErrInvalidArgument("Invalid query parameters")
		for field, msg := range pkgvalidator.FieldErrors(err) {
			appErr = appErr.WithDetail(field, msg)
		}
		return HandleError(nc.logger, c, appErr)
	}

	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	filters := repositories.NotesFilters{
		Limit:  req.PageSize,
		Offset: (req.Page - 1) * req.PageSize,
	}
	if req.Source != "" {
		source := entities.InputSource(req.Source)
		filters.Source = &source
	}

	items, total, err := nc.svc.List(c.Request().Context(), filters)
	if err != nil {
		return HandleError(nc.logger, c, toAppError(err))
	}
	return HandleSuccess(nc.logger, c, presenter.ToNotesListResponse(items, req.Page, req.PageSize, total))
}

// ExportDocx downloads an archived run as a Word document
// @Summary      Export meeting notes as DOCX
// @Tags         Notes
// @Produce      application/vnd.openxmlformats-officedocument.wordprocessingml.document
// @Security     BearerAuth
// @Param        id   path      string  true  "Notes ID (UUID)"
// @Success      200  {file}    file
// @Failure      404  {object}  map[string]interface{}
// @Router       /v1/notes/{id}/docx [get]
func (nc *NotesController) ExportDocx(c echo.Context) error {
	n, err := nc.findNotes(c)
	if err != nil {
		return HandleError(nc.logger, c, err)
	}

	b, err := presenter.RenderNotesDocx(n)
	if err != nil {
		return HandleError(nc.logger, c, errors.ErrInternal(err))
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", "meeting-notes-"+n.ID.String()+".docx"))
	return c.Blob(http.StatusOK, docxContentType, b)
}

func (nc *NotesController) findNotes(c echo.Context) (*entities.MeetingNotes, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, errors.ErrInvalidArgument("Invalid notes ID")
	}

	n, err := nc.svc.Get(c.Request().Context(), id)
	if err != nil {
		return nil, toAppError(err)
	}
	return n, nil
}

// audioFromFileHeader exposes an uploaded file as re-openable audio
func audioFromFileHeader(fh *multipart.FileHeader) *notes.AudioInput {
	return &notes.AudioInput{
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Filename:    fh.Filename,
		Size:        fh.Size,
	}
}
