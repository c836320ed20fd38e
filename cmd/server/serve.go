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

	"github.com/nethmitharushika56/portfolio/internal/api"
	"github.com/nethmitharushika56/portfolio/internal/config"
	"github.com/nethmitharushika56/portfolio/internal/core"
	"github.com/nethmitharushika56/portfolio/internal/navigation"
	"github.com/nethmitharushika56/portfolio/internal/overlay"
	"github.com/nethmitharushika56/portfolio/internal/scene"
	"github.com/nethmitharushika56/portfolio/internal/store"
)

func runServer() error {
	cfg := config.AppConfig

	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	// Initialize transcript store
	dbStore, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize transcript store: %w", err)
	}
	defer dbStore.Close()

	// Initialize chat: the Gemini session is only opened on the first message
	remote := core.NewGeminiRemote(cfg.APIKey(), cfg.GeminiModel)
	defer remote.Close()
	chatService := core.NewChatService(remote, core.BuildSystemInstruction(reg))
	chatWidget, err := core.NewChatWidget(chatService, dbStore)
	if err != nil {
		return fmt.Errorf("failed to initialize chat widget: %w", err)
	}

	// Navigation state shared by both render surfaces
	nav := navigation.NewMachine()
	scenePresenter := scene.NewPresenter(nav, reg, scene.Config{
		Aspect: cfg.ViewportAspect,
		Debug:  cfg.Debug(),
	})
	defer scenePresenter.Close()
	overlayPresenter := overlay.NewPresenter(nav, reg, overlay.Config{Debug: cfg.Debug()})
	defer overlayPresenter.Close()

	renderer, err := overlay.NewRenderer()
	if err != nil {
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}

	// Initialize API Handler and Router
	apiHandler := api.NewAPIHandler(api.Services{
		Registry:   reg,
		Navigation: nav,
		Scene:      scenePresenter,
		Overlay:    overlayPresenter,
		Renderer:   renderer,
		Chat:       chatWidget,
		StreamRate: cfg.StreamRate,
		Debug:      cfg.Debug(),
	})
	router := api.NewRouter(apiHandler, cfg.CORSAllowAll)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go scenePresenter.Run(ctx, cfg.FrameRate)

	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("could not listen on %s: %w", serverAddr, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return err
	}
	log.Println("Shutting down server...")

	cancel()
	apiHandler.Close()
	chatWidget.Unmount()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	// remote.Close() and dbStore.Close() are called by their defers.
	log.Println("Server exiting gracefully")
	return nil
}
