package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"customerSegmentation/business/segmentation"
	"customerSegmentation/domain"

	"github.com/redis/go-redis/v9"
)

const DefaultBundleKey = "segmentation:bundle"

type BundleRepository struct {
	client *redis.Client
	key    string
}

var (
	_ segmentation.BundleRepository = (*BundleRepository)(nil)
	_ segmentation.BundleWriter     = (*BundleRepository)(nil)
)

func NewBundleRepository(client *redis.Client, key string) *BundleRepository {
	if key == "" {
		key = DefaultBundleKey
	}
	return &BundleRepository{
		client: client,
		key:    key,
	}
}

func (r *BundleRepository) LoadBundle(ctx context.Context) (domain.ModelBundle, error) {
	val, err := r.client.Get(ctx, r.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.ModelBundle{}, fmt.Errorf("bundle not found at key %q", r.key)
		}
		return domain.ModelBundle{}, fmt.Errorf("failed to get bundle from Redis: %w", err)
	}

	var b domain.ModelBundle
	if err := json.Unmarshal([]byte(val), &b); err != nil {
		return domain.ModelBundle{}, fmt.Errorf("failed to unmarshal bundle: %w", err)
	}
	return b, nil
}

// SaveBundle publishes b under the configured key without expiry.
func (r *BundleRepository) SaveBundle(ctx context.Context, b domain.ModelBundle) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal bundle: %w", err)
	}

	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store bundle in Redis: %w", err)
	}
	return nil
}
