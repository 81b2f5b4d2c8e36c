package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/querylab/internal/config"
	"github.com/deppfellow/querylab/internal/database"
	"github.com/deppfellow/querylab/internal/fixture"
	"github.com/deppfellow/querylab/internal/handler"
	"github.com/deppfellow/querylab/internal/logger"
	"github.com/deppfellow/querylab/internal/repository"
	"github.com/deppfellow/querylab/internal/router"
	"github.com/deppfellow/querylab/internal/server"
	"github.com/deppfellow/querylab/internal/service"
)

const (
	startupTimeout  = 60 * time.Second
	shutdownTimeout = 30 * time.Second
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	defer loggerService.Shutdown()

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), startupTimeout)
	defer cancelStartup()

	if err := database.Migrate(startupCtx, &log, cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	if cfg.Database.SeedFixtures {
		imported, err := fixture.ImportIfEmpty(startupCtx, srv.DB.ORM)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to import fixtures")
		}
		log.Info().Bool("imported", imported).Msg("fixture check finished")
	}

	repos := repository.NewRepositories()

	services, err := service.NewService(srv, repos)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create services")
	}

	handlers := handler.NewHandlers(srv, services)
	r := router.NewRouter(srv, handlers)

	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped unexpectedly")
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
