package segmentation

import (
	"context"
	"fmt"

	"customerSegmentation/domain"
	"customerSegmentation/pkg/logger"
)

// BundleRepository reads a model bundle from some backing store.
type BundleRepository interface {
	LoadBundle(ctx context.Context) (domain.ModelBundle, error)
}

// BundleWriter stores a bundle so later processes can load it.
type BundleWriter interface {
	SaveBundle(ctx context.Context, b domain.ModelBundle) error
}

// LoadEngine loads and validates the bundle once. Any error here is fatal for the process.
func LoadEngine(ctx context.Context, repo BundleRepository, source string) (*Engine, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	b, err := repo.LoadBundle(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bundle from %s: %w", source, err)
	}

	engine, err := NewEngine(b, source)
	if err != nil {
		return nil, fmt.Errorf("validate bundle from %s: %w", source, err)
	}

	logger.Info("model bundle loaded",
		"source", source,
		"segments", len(b.Centroids),
		"priced_segments", len(b.PriceRecommendations),
	)
	return engine, nil
}
