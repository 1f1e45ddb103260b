// Package bootstrap is the composition root: construction and wiring live
// here so module code stays framework-agnostic.
package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	permission "atlas/contexts/identity-access/permission-service"
	permissionevents "atlas/contexts/identity-access/permission-service/adapters/events"
	permissionmemory "atlas/contexts/identity-access/permission-service/adapters/memory"
	postgresadapter "atlas/contexts/identity-access/permission-service/adapters/postgres"
	redisadapter "atlas/contexts/identity-access/permission-service/adapters/redis"
	"atlas/contexts/identity-access/permission-service/ports"
	"atlas/internal/platform/config"
	"atlas/internal/platform/db"
	"atlas/internal/platform/httpserver"
	"atlas/internal/platform/messaging"

	goredis "github.com/go-redis/redis/v8"
)

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	redis    *goredis.Client
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	module       permission.Module
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)

	var redisClient *goredis.Client
	var decisionCache ports.DecisionCache
	if cfg.EnableDecisionCache {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		decisionCache = redisadapter.NewDecisionCache(redisClient, logger)
	} else {
		decisionCache = permissionmemory.NewStore(nil)
	}

	module := permission.NewModule(permission.Dependencies{
		Repository:      repo,
		Idempotency:     repo,
		DecisionCache:   decisionCache,
		Outbox:          repo,
		Publisher:       permissionevents.NewPublisher(logger),
		Clock:           postgresadapter.SystemClock{},
		IDGenerator:     postgresadapter.UUIDGenerator{},
		IdempotencyTTL:  cfg.IdempotencyTTL,
		DecisionTTL:     cfg.DecisionCacheTTL,
		OutboxBatchSize: cfg.OutboxBatchSize,
		Logger:          logger,
	})

	server := httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		redis:    redisClient,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	module := permission.NewModule(permission.Dependencies{
		Repository:      repo,
		Idempotency:     repo,
		DecisionCache:   permissionmemory.NewStore(nil),
		Outbox:          repo,
		Publisher:       kafka,
		Clock:           postgresadapter.SystemClock{},
		IDGenerator:     postgresadapter.UUIDGenerator{},
		IdempotencyTTL:  cfg.IdempotencyTTL,
		DecisionTTL:     cfg.DecisionCacheTTL,
		OutboxBatchSize: cfg.OutboxBatchSize,
		Logger:          logger,
	})

	return &WorkerApp{
		postgres:     pg,
		module:       module,
		pollInterval: cfg.OutboxPollInterval,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.module.OutboxRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
