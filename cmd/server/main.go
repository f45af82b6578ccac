package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/items-api/internal/config"
	"github.com/deppfellow/items-api/internal/database"
	"github.com/deppfellow/items-api/internal/handler"
	"github.com/deppfellow/items-api/internal/logger"
	"github.com/deppfellow/items-api/internal/middleware"
	"github.com/deppfellow/items-api/internal/repository"
	"github.com/deppfellow/items-api/internal/router"
	"github.com/deppfellow/items-api/internal/server"
	"github.com/deppfellow/items-api/internal/service"
	"github.com/rs/zerolog"
)

// shutdownTimeout bounds how long in-flight requests may take to finish
// after a termination signal before the process exits anyway.
const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.New()
	if err != nil {
		// No logger exists yet at this point; build a bare one for the
		// single fatal line.
		failLog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		failLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(cfg)

	// Bring the schema up to date before the pool opens for traffic.
	if err := database.Migrate(context.Background(), &log, cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to run database migrations")
	}

	s, err := server.New(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	middlewares := middleware.NewMiddlewares(s)
	repos := repository.NewRepositories(s)

	services, err := service.NewServices(s, repos)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize services")
	}

	handlers := handler.NewHandlers(s, services)

	e := router.New(middlewares, handlers)
	s.SetupHTTPServer(e)

	// Run the listener in the background so the main goroutine can wait for
	// termination signals.
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		// http.ErrServerClosed only arrives after Shutdown; anything else
		// here means the listener died on its own.
		log.Fatal().Err(err).Msg("server stopped unexpectedly")

	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
			os.Exit(1)
		}

		log.Info().Msg("server stopped")
	}
}
