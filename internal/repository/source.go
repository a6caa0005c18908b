package repository

import (
	"context"
	"fmt"

	"customerSegmentation/business/segmentation"
	"customerSegmentation/internal/repository/file"
	"customerSegmentation/internal/repository/postgres"
	redisRepo "customerSegmentation/internal/repository/redis"
	"customerSegmentation/pkg/config"
	"customerSegmentation/pkg/database"
	redisClient "customerSegmentation/pkg/database/redis"
)

// OpenBundleSource returns the repository selected by cfg.Bundle.Source plus a
// func that releases its connections. The bundle is read once, so callers may
// close the source right after loading.
func OpenBundleSource(ctx context.Context, cfg *config.Config) (segmentation.BundleRepository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Bundle.Source {
	case config.BundleSourceFile:
		return file.NewBundleRepository(cfg.Bundle.Path), noop, nil

	case config.BundleSourceInline:
		return file.NewInlineBundleRepository(cfg.Bundle.Inline), noop, nil

	case config.BundleSourcePostgres:
		db, err := database.InitPostgres(cfg)
		if err != nil {
			return nil, noop, err
		}
		return postgres.NewBundleRepository(db), func() error { return database.ClosePostgres(db) }, nil

	case config.BundleSourceRedis:
		client, err := redisClient.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		return redisRepo.NewBundleRepository(client, cfg.Bundle.RedisKey), func() error {
			return redisClient.CloseRedisClient(client)
		}, nil

	default:
		return nil, noop, fmt.Errorf("unknown bundle source %q", cfg.Bundle.Source)
	}
}
