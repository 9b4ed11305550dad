package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Phalatsane/wings-cafe/internal/config"
	"github.com/Phalatsane/wings-cafe/internal/infra"
	"github.com/Phalatsane/wings-cafe/internal/repository"
	"github.com/Phalatsane/wings-cafe/internal/router"
	"github.com/Phalatsane/wings-cafe/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// @title        Wings Cafe Inventory API
// @version      1.0
// @description  Products, stock additions and sales for a single cafe.
// @BasePath     /
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := openStore(cfg)

	// Redis is optional: without it ledger events are simply not published.
	var (
		rdb     *redis.Client
		breaker *infra.CircuitBreaker
	)
	if cfg.RedisURL != "" {
		rdb, err = infra.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()
		breaker = infra.NewCircuitBreaker(infra.BreakerConfig{})
		worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize)
	}

	r := router.New(cfg, store, rdb, breaker)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Str("data_file", cfg.DataFile).Msgf("inventory service listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}

// setupLogger configures the global zerolog logger: pretty console output in
// development, JSON in production, plus a rotated JSON file when LOG_FILE is set.
func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	if cfg.IsProduction() {
		out = os.Stderr
	}
	if cfg.LogFile != "" {
		out = zerolog.MultiLevelWriter(out, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
		})
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

func openStore(cfg *config.Config) repository.Store {
	if cfg.DataFile == config.MemoryDataFile {
		log.Warn().Msg("using in-memory store; data is lost on exit")
		return repository.NewMemoryStore()
	}
	return repository.NewFileStore(cfg.DataFile)
}
