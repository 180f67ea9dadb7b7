package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"exam-admin-console/internal/api"
	"exam-admin-console/internal/apiclient"
	"exam-admin-console/internal/config"
	"exam-admin-console/internal/console"
	"exam-admin-console/internal/health"
	"exam-admin-console/internal/logger"
	"exam-admin-console/internal/resource"
	"exam-admin-console/internal/session"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.Get()

	log.Info().Str("version", cfg.App.Version).Msg("Starting admin console")

	// Initialize the remote exam service client
	client := apiclient.New(cfg)

	// Initialize the token store backing the operator session
	var tokens session.TokenStore
	switch cfg.Session.Store {
	case "redis":
		tokens, err = session.NewRedisStore(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
	default:
		tokens = session.NewFileStore(cfg.Session.TokenFile)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Restore a previous session before serving anything
	sessions := session.NewStore(client, tokens)
	sessions.Restore(ctx)

	// Build one screen per administered resource
	screens := make(map[string]*console.Screen)
	for name, res := range resource.All() {
		screens[name] = console.NewScreen(res, client, sessions)
	}

	// Start the background health poller
	poller := health.NewPoller(client, sessions, cfg.Health.Interval)
	poller.Start(ctx)

	// Initialize API handler
	handler := api.NewHandler(cfg, sessions, screens, poller)

	// Setup Gin router
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(api.RequestIDMiddleware())
	router.Use(api.CORSMiddleware())
	router.Use(api.LoggingMiddleware())
	router.Use(api.RecoveryMiddleware())

	// Setup routes
	api.SetupRoutes(router, handler)

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	cancel()

	// Create context for graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Shutdown server
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
