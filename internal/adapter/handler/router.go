package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/johnquangdev/keynotes/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg             *config.Config
	notesController *NotesController
	uiController    *UIController
	authMiddleware  echo.MiddlewareFunc
	rateLimiter     echo.MiddlewareFunc
	providers       map[string]string
}

// RouterOption configures optional router dependencies
type RouterOption func(*Router)

// WithAuth protects the /v1 group
func WithAuth(mw echo.MiddlewareFunc) RouterOption {
	return func(rt *Router) { rt.authMiddleware = mw }
}

// WithRateLimit throttles the generation endpoints
func WithRateLimit(mw echo.MiddlewareFunc) RouterOption {
	return func(rt *Router) { rt.rateLimiter = mw }
}

// WithProviders reports backend names on /health
func WithProviders(stt, inference string) RouterOption {
	return func(rt *Router) {
		rt.providers = map[string]string{"stt": stt, "inference": inference}
	}
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, notesController *NotesController, uiController *UIController, opts ...RouterOption) *Router {
	rt := &Router{
		cfg:             cfg,
		notesController: notesController,
		uiController:    uiController,
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Setup configures the API routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	e.POST("/generateMeetingNotes", rt.notesController.GenerateMeetingNotes,
		rt.generateMiddleware(rt.notesErrors)...)

	v1 := e.Group("/v1", rt.apiErrors)
	if rt.authMiddleware != nil {
		v1.Use(rt.authMiddleware)
	}
	if rt.rateLimiter != nil {
		v1.Use(rt.rateLimiter)
	}
	rt.setupNotesRoutes(v1)
}

// SetupUI configures the interactive page routes
func (rt *Router) SetupUI(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)
	e.GET("/", rt.uiController.Index)

	e.POST("/", rt.uiController.Generate, rt.generateMiddleware(rt.uiErrors)...)
}

// generateMiddleware wraps the body limit and rate limiter in shape, which
// turns their errors into the endpoint's own error body
func (rt *Router) generateMiddleware(shape echo.MiddlewareFunc) []echo.MiddlewareFunc {
	chain := []echo.MiddlewareFunc{shape, rt.bodyLimit()}
	if rt.rateLimiter != nil {
		chain = append(chain, rt.rateLimiter)
	}
	return chain
}

// notesErrors renders middleware errors as {"error": ...}
func (rt *Router) notesErrors(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		if err == nil || c.Response().Committed {
			return err
		}
		return rt.notesController.respondNotesError(c, toAppError(err))
	}
}

// apiErrors renders middleware errors with the standard error envelope
func (rt *Router) apiErrors(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		if err == nil || c.Response().Committed {
			return err
		}
		return HandleError(rt.notesController.logger, c, toAppError(err))
	}
}

// uiErrors renders middleware errors on the page
func (rt *Router) uiErrors(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		if err == nil || c.Response().Committed {
			return err
		}
		return rt.uiController.renderError(c, toAppError(err))
	}
}

// setupNotesRoutes configures archived notes routes
func (rt *Router) setupNotesRoutes(g *echo.Group) {
	notesGroup := g.Group("/notes")
	notesGroup.GET("", rt.notesController.ListNotes)
	notesGroup.GET("/:id", rt.notesController.GetNotes)
	notesGroup.GET("/:id/docx", rt.notesController.ExportDocx)
}

func (rt *Router) bodyLimit() echo.MiddlewareFunc {
	return middleware.BodyLimit(fmt.Sprintf("%dM", rt.cfg.Server.MaxUploadMB))
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	body := map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
		"archive":     rt.cfg.Archive.Enabled,
	}
	if rt.providers != nil {
		body["providers"] = rt.providers
	}
	return c.JSON(http.StatusOK, body)
}
