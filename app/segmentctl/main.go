package main

import (
	"context"
	"fmt"
	"os"

	"customerSegmentation/business/segmentation"
	"customerSegmentation/internal/repository"
	"customerSegmentation/internal/repository/file"
	"customerSegmentation/pkg/config"
	"customerSegmentation/pkg/logger"

	"github.com/spf13/cobra"
)

var bundlePath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "segmentctl",
		Short: "Assign customers to segments and inspect the model bundle",
		Long: `segmentctl serves the customer segmentation model from the command line.

By default the bundle is read from the source configured in the environment
(BUNDLE_SOURCE, BUNDLE_PATH, ...). Pass --bundle to read a local JSON/YAML file instead.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&bundlePath, "bundle", "", "Path to a JSON or YAML model bundle (overrides BUNDLE_SOURCE)")

	root.AddCommand(
		newPredictCmd(),
		newStrategyCmd(),
		newSegmentsCmd(),
		newBundleCmd(),
		newTokenCmd(),
	)
	return root
}

func main() {
	logger.Init(os.Getenv("APP_ENV"))
	defer func() { _ = logger.Sync() }()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadEngine reads the bundle from --bundle or the configured source and validates it.
func loadEngine(ctx context.Context) (*segmentation.Engine, error) {
	if bundlePath != "" {
		return segmentation.LoadEngine(ctx, file.NewBundleRepository(bundlePath), config.BundleSourceFile)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	repo, closeSource, err := repository.OpenBundleSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = closeSource() }()

	return segmentation.LoadEngine(ctx, repo, cfg.Bundle.Source)
}
