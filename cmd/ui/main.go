package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/keynotes/internal/adapter/handler"
	"github.com/johnquangdev/keynotes/internal/app"
	"github.com/johnquangdev/keynotes/pkg/config"
	"github.com/johnquangdev/keynotes/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	a, err := app.New(context.Background(), cfg, zl)
	if err != nil {
		zl.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer a.Close()

	e := a.NewEcho()
	e.Renderer = handler.NewTemplateRenderer()
	a.Router.SetupUI(e)

	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.UIPort)
		log.Printf("🖥️  Starting KeyNotes UI on http://%s", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			zl.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		zl.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	log.Println("✅ UI stopped gracefully")
}
