package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/gmviana11/fornecedor-conecta/internal/cache"
	"github.com/gmviana11/fornecedor-conecta/internal/config"
	"github.com/gmviana11/fornecedor-conecta/internal/log"
	"github.com/gmviana11/fornecedor-conecta/internal/observability"
	"github.com/gmviana11/fornecedor-conecta/internal/queue"
	"github.com/gmviana11/fornecedor-conecta/internal/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, cfg.Logging.Level).With().Str("component", "worker").Logger()

	if !cfg.Redis.Enabled() {
		logger.Fatal().Msg("worker needs redis.addr to read the event stream")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.Setup(ctx, cfg.OTel.ServiceName+"-worker", cfg.OTel.Endpoint)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init tracing")
	}
	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init metrics")
	}

	client, err := cache.NewRedisClient(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	defer client.Close()

	processor := tasks.NewProcessor(logger, metrics)
	consumer := queue.NewConsumer(client, cfg.Redis, logger, processor)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("consumer stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	select {
	case <-done:
	case <-shutdownCtx.Done():
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("tracing shutdown error")
	}
}
