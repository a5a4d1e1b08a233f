package main

import (
	"context"
	"fmt"
	"log/slog"

	"contentapi/internal/config"
	"contentapi/internal/database"
	"contentapi/internal/database/migration"
	"contentapi/internal/repository"
	"contentapi/internal/repository/file"
	"contentapi/internal/repository/memory"
	"contentapi/internal/repository/objectstore"
	"contentapi/internal/repository/postgres"
	"contentapi/internal/repository/redisstore"
	"contentapi/internal/storage"
)

// openStore builds the content store for the configured backend. The
// returned close func releases its connections.
func openStore(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (repository.ContentStore, func(), error) {
	noop := func() {}

	switch cfg.Store.Backend {
	case config.BackendFile:
		store, err := file.NewContentStore(cfg.Store.FileDir, cfg.Store.Key)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("content_store_opened", slog.String("backend", "file"), slog.String("path", store.Path()))
		return store, noop, nil

	case config.BackendPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, noop, err
		}
		if err := migration.EnsureMigrated(ctx, db, logger); err != nil {
			db.Close()
			return nil, noop, err
		}
		logger.Info("content_store_opened", slog.String("backend", "postgres"), slog.String("key", cfg.Store.Key))
		return postgres.NewContentStore(db, cfg.Store.Key), func() { db.Close() }, nil

	case config.BackendRedis:
		client, err := redisstore.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("content_store_opened", slog.String("backend", "redis"), slog.String("key", cfg.Store.Key))
		return redisstore.NewContentStore(client, cfg.Store.Key), func() { client.Close() }, nil

	case config.BackendMinIO:
		objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("content_store_opened", slog.String("backend", "minio"), slog.String("bucket", cfg.MinIO.Bucket))
		return objectstore.NewContentStore(objStore, cfg.Store.Key), noop, nil

	case config.BackendMemory:
		logger.Warn("content_store_opened", slog.String("backend", "memory"), slog.Bool("durable", false))
		return memory.NewContentStore(), noop, nil
	}

	return nil, noop, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}
