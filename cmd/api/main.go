package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gmviana11/fornecedor-conecta/internal/cache"
	"github.com/gmviana11/fornecedor-conecta/internal/config"
	"github.com/gmviana11/fornecedor-conecta/internal/database"
	"github.com/gmviana11/fornecedor-conecta/internal/events"
	"github.com/gmviana11/fornecedor-conecta/internal/handlers"
	"github.com/gmviana11/fornecedor-conecta/internal/jobs"
	"github.com/gmviana11/fornecedor-conecta/internal/log"
	"github.com/gmviana11/fornecedor-conecta/internal/observability"
	"github.com/gmviana11/fornecedor-conecta/internal/repository"
	"github.com/gmviana11/fornecedor-conecta/internal/search"
	"github.com/gmviana11/fornecedor-conecta/internal/security"
	"github.com/gmviana11/fornecedor-conecta/internal/seed"
	"github.com/gmviana11/fornecedor-conecta/internal/server"
	"github.com/gmviana11/fornecedor-conecta/internal/service"
	"github.com/gmviana11/fornecedor-conecta/internal/storage"
	"github.com/gmviana11/fornecedor-conecta/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, cfg.Logging.Level)

	ctx := context.Background()

	shutdownTracing, err := observability.Setup(ctx, cfg.OTel.ServiceName, cfg.OTel.Endpoint)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init tracing")
	}
	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init metrics")
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect redis")
		}
	}

	base, dbPool, err := openStore(ctx, cfg, redisClient, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("failed to open store")
	}
	kv := store.Instrument(base, metrics)

	if err := seed.Initialize(ctx, kv, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed store")
	}

	suppliers, err := repository.NewSupplierRepository(ctx, kv)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load suppliers")
	}
	requests, err := repository.NewServiceRequestRepository(ctx, kv)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load service requests")
	}
	users, err := repository.NewUserRepository(ctx, kv)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load users")
	}

	creds, err := security.NewCredentialTable(seed.Credentials(), security.DefaultParams)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to hash credentials")
	}

	index, err := openIndex(ctx, cfg.Search)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init search index")
	}

	var publisher events.Publisher = events.NewLogPublisher(logger)
	if redisClient != nil {
		publisher = events.NewStreamPublisher(redisClient, cfg.Redis.Stream, cfg.Redis.StreamMaxLen)
	}

	supplierService := service.NewSupplierService(suppliers, index, publisher, logger)
	if err := supplierService.RebuildIndex(ctx); err != nil {
		logger.Warn().Err(err).Msg("search index rebuild failed")
	}
	statsService := service.NewStatsService(suppliers, requests)
	exportService := service.NewExportService(suppliers, requests, users)

	sessions := service.NewSessionManager(kv, users, creds, service.SessionConfig{
		Secret:     cfg.Security.JWTSecret,
		TokenTTL:   cfg.Security.TokenTTL,
		LoginDelay: cfg.Security.LoginDelay,
	}, logger)

	deps := handlers.Deps{
		Log:       logger,
		Config:    cfg,
		Store:     kv,
		Sessions:  sessions,
		Suppliers: supplierService,
		Requests:  service.NewRequestService(requests, suppliers, publisher, logger),
		Leads:     service.NewLeadService(suppliers, publisher, logger),
		Stats:     statsService,
		Exports:   exportService,
	}
	if redisClient != nil {
		deps.Cache = redisClient
	}
	httpServer := server.NewHTTPServer(cfg, logger, handlers.NewHandlerSet(deps), metrics)

	var objects jobs.ObjectWriter
	if cfg.Storage.Enabled() {
		objectStore, err := storage.NewObjectStore(cfg.Storage)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init object store")
		}
		if err := objectStore.EnsureBucket(ctx); err != nil {
			logger.Warn().Err(err).Msg("ensure bucket failed")
		}
		objects = objectStore
	}

	scheduler := jobs.NewScheduler(cfg.Jobs, exportService, objects, statsService, sessions, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, dbPool, redisClient, shutdownTracing)
}

func openStore(ctx context.Context, cfg *config.AppConfig, redisClient *redis.Client, logger zerolog.Logger) (store.Store, *pgxpool.Pool, error) {
	switch cfg.Store.Driver {
	case config.StoreMemory:
		return store.NewMemoryStore(), nil, nil
	case config.StoreFile:
		s, err := store.NewFileStore(cfg.Store.Dir)
		return s, nil, err
	case config.StoreRedis:
		if redisClient == nil {
			return nil, nil, fmt.Errorf("redis store needs redis.addr")
		}
		return store.NewRedisStore(redisClient, cfg.Redis.Namespace), nil, nil
	case config.StorePostgres:
		pool, err := database.NewPostgresPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		version, err := database.Migrate(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info().Int64("schema_version", version).Msg("postgres migrated")
		return store.NewPostgresStore(pool), pool, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func openIndex(ctx context.Context, cfg config.SearchConfig) (search.Index, error) {
	if cfg.Driver != config.SearchTypesense {
		return search.NewMemoryIndex(), nil
	}
	idx := search.NewTypesenseIndex(cfg.URL, cfg.APIKey)
	if err := idx.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return idx, nil
}

func waitForShutdown(
	logger zerolog.Logger,
	srv *server.HTTPServer,
	scheduler *jobs.Scheduler,
	db *pgxpool.Pool,
	redisClient *redis.Client,
	shutdownTracing func(context.Context) error,
) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	select {
	case <-scheduler.Stop().Done():
	case <-shutdownCtx.Done():
		logger.Warn().Msg("scheduled jobs still running at exit")
	}

	if db != nil {
		db.Close()
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("tracing shutdown error")
	}

	logger.Info().Msg("server exited cleanly")
}
