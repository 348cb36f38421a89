package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	v1 "github.com/workboards/workboards/internal/api/v1"
	"github.com/workboards/workboards/internal/config"
	"github.com/workboards/workboards/internal/domain"
	"github.com/workboards/workboards/internal/hub"
	"github.com/workboards/workboards/internal/pipeline"
	"github.com/workboards/workboards/internal/server"
	"github.com/workboards/workboards/internal/store/memory"
	"github.com/workboards/workboards/internal/store/postgres"
	redisstore "github.com/workboards/workboards/internal/store/redis"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Initialize structured logging from environment.
	logLevel := os.Getenv("WORKBOARDS_LOG_LEVEL")
	level, parseErr := zerolog.ParseLevel(logLevel)
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logFormat := os.Getenv("WORKBOARDS_LOG_FORMAT")
	if logFormat == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Select the persistence backend.
	var store interface {
		v1.DataStore
		pipeline.Store
	}
	switch cfg.Store.Driver {
	case "memory":
		store = memory.New()
	default:
		if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
			return fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
		}
		pg, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
		if err != nil {
			return err
		}
		defer pg.Close()
		store = pg
	}

	// Optional Redis event mirror.
	var mirror hub.Mirror
	if cfg.Redis.Addr != "" {
		pubsub, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer pubsub.Close()
		mirror = pubsub
	}

	// Mutation pipeline feeding the broadcast hub through an event channel.
	events := make(chan domain.Event, 256)
	pl := pipeline.New(store, events, pipeline.WithMaxImportRows(cfg.Import.MaxRows))
	broadcast := hub.New()
	dispatcher := hub.NewDispatcher(broadcast, mirror, events)

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go dispatcher.Run(ctx)

	srv := server.New(ctx, cfg, store, pl, broadcast)

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Str("store", cfg.Store.Driver).Msg("starting server")
		if startErr := srv.Start(); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}
