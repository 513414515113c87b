// Package app wires the meeting-notes pipeline shared by the API and UI servers.
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/johnquangdev/keynotes/internal/adapter/handler"
	"github.com/johnquangdev/keynotes/internal/adapter/repository"
	"github.com/johnquangdev/keynotes/internal/infrastructure/cache"
	"github.com/johnquangdev/keynotes/internal/infrastructure/database"
	httpmw "github.com/johnquangdev/keynotes/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/keynotes/internal/infrastructure/storage"
	"github.com/johnquangdev/keynotes/internal/usecase/notes"
	pkgai "github.com/johnquangdev/keynotes/pkg/ai"
	"github.com/johnquangdev/keynotes/pkg/config"
	"github.com/johnquangdev/keynotes/pkg/jwt"
	pkgvalidator "github.com/johnquangdev/keynotes/pkg/validator"
)

// App holds the long-lived dependencies of a server process
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Notes   notes.Service
	Router  *handler.Router
	closers []func() error
}

// New builds every dependency selected by cfg. Close must be called on shutdown.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	log.Println("🤖 Initializing AI components...")
	recognizer, err := pkgai.NewRecognizer(cfg)
	if err != nil {
		// Manual transcripts keep working without a speech backend
		logger.Warn("Speech recognition disabled", zap.String("provider", cfg.Providers.STT), zap.Error(err))
		recognizer = nil
	}

	generator, err := pkgai.NewGenerator(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize generator: %w", err)
	}

	var archiver *notes.Archiver
	if cfg.Archive.Enabled {
		archiver, err = a.newArchiver(ctx)
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	a.Notes = notes.NewNotesService(recognizer, generator, archiver, logger)

	opts := []handler.RouterOption{
		handler.WithProviders(providerName(recognizer), generator.Name()),
	}

	if cfg.Server.RateLimit > 0 {
		counter, err := a.newCounter(ctx)
		if err != nil {
			a.Close()
			return nil, err
		}
		opts = append(opts, handler.WithRateLimit(httpmw.RateLimit(counter, cfg.Server.RateLimit, time.Minute, logger)))
	}

	if cfg.JWT.Secret != "" {
		log.Println("🔑 Initializing JWT manager...")
		opts = append(opts, handler.WithAuth(httpmw.EchoAuth(jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer), logger)))
	}

	a.Router = handler.NewRouter(cfg,
		handler.NewNotesController(a.Notes, logger),
		handler.NewUIController(a.Notes, logger),
		opts...,
	)
	return a, nil
}

func (a *App) newArchiver(ctx context.Context) (*notes.Archiver, error) {
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(ctx, a.Config)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() error { return database.CloseDB(db) })

	if err := a.migrate(db); err != nil {
		return nil, err
	}

	log.Printf("🗄️  Connecting to %s artifact storage...", a.Config.Storage.Type)
	store, err := storage.New(ctx, &a.Config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return notes.NewArchiver(repository.NewNotesRepository(db), store, a.Logger), nil
}

// migrate runs sql-migrate at startup only when explicitly enabled
func (a *App) migrate(db *gorm.DB) error {
	if !a.Config.Database.AutoMigrate {
		log.Println("🔄 Skipping auto-migrate; run cmd/migrate to manage the schema")
		return nil
	}
	if a.Config.IsProduction() {
		return fmt.Errorf("DB_AUTO_MIGRATE is enabled in production; manage the schema with cmd/migrate")
	}
	return database.AutoMigrate(db)
}

func (a *App) newCounter(ctx context.Context) (cache.Counter, error) {
	var counter cache.Counter
	if a.Config.Redis.Host != "" {
		log.Println("📦 Connecting to Redis...")
		rs, err := cache.NewRedisStore(ctx, a.Config)
		if err != nil {
			return nil, err
		}
		counter = rs
	} else {
		counter = cache.NewMemoryStore()
	}
	a.closers = append(a.closers, counter.Close)
	return counter, nil
}

// NewEcho returns an Echo instance with the middleware both servers share
func (a *App) NewEcho() *echo.Echo {
	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HideBanner = true

	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${id} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: a.Config.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	return e
}

// Close releases database, storage and cache connections in reverse order
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Logger.Warn("Failed to close dependency", zap.Error(err))
		}
	}
	a.closers = nil
}

func providerName(r pkgai.Recognizer) string {
	if r == nil {
		return "disabled"
	}
	return r.Name()
}
