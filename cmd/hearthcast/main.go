package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hearthcast/hearthcast/pkg/cache"
	"github.com/hearthcast/hearthcast/pkg/climate"
	"github.com/hearthcast/hearthcast/pkg/estimator"
	"github.com/hearthcast/hearthcast/pkg/log"
	"github.com/hearthcast/hearthcast/pkg/rates"
	"github.com/hearthcast/hearthcast/pkg/server"
	"github.com/hearthcast/hearthcast/pkg/storage"
	"github.com/hearthcast/hearthcast/pkg/types"

	"github.com/levenlabs/go-lflag"
	"github.com/levenlabs/go-llog"
)

func main() {
	// init packages
	degreeDays, err := climate.NewDegreeDays()
	if err != nil {
		panic(fmt.Errorf("failed to load climate normals: %w", err))
	}
	weather := climate.ConfiguredOpenMeteo()
	ratesChain := rates.Configured()
	db := storage.Configured()

	engine := estimator.New(degreeDays, weather, ratesChain, cache.NewMemory[types.CostEstimate]())

	// init server
	srv := server.Configured(engine, ratesChain, degreeDays, db)

	// parse flags
	lflag.Configure()

	if err := weather.Validate(); err != nil {
		panic(fmt.Errorf("weather validation failed: %w", err))
	}

	var level slog.Level
	// lflag automatically sets llog's level, but we need to set the slog level
	switch llog.GetLevel() {
	case llog.DebugLevel:
		level = slog.LevelDebug
	case llog.InfoLevel:
		level = slog.LevelInfo
	case llog.WarnLevel:
		level = slog.LevelWarn
	case llog.ErrorLevel:
		level = slog.LevelError
	default:
		panic(fmt.Errorf("unknown log level: %s", llog.GetLevel().String()))
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	slog.Debug("logger configured", slog.String("level", level.String()))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	defer func() {
		if err := db.Close(); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to close storage", "error", err)
		}
	}()

	// Run will block until context is canceled or error happens
	if err := srv.Run(ctx); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "server failed", "error", err)
		os.Exit(1)
	}
	log.Ctx(ctx).InfoContext(ctx, "server exited cleanly")
}
