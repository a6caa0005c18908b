package main

import (
	"fmt"

	"customerSegmentation/business/segmentation"
	"customerSegmentation/internal/repository/file"
	"customerSegmentation/internal/repository/postgres"
	redisRepo "customerSegmentation/internal/repository/redis"
	"customerSegmentation/pkg/config"
	"customerSegmentation/pkg/database"
	redisClient "customerSegmentation/pkg/database/redis"

	"github.com/spf13/cobra"
)

func newBundleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Validate, encode and publish model bundles",
	}
	cmd.AddCommand(newBundleValidateCmd(), newBundleEncodeCmd(), newBundlePublishCmd())
	return cmd
}

func newBundleValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the bundle and run the startup integrity checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := loadEngine(cmd.Context())
			if err != nil {
				return err
			}

			info := engine.Info()
			fmt.Fprintf(cmd.OutOrStdout(), "bundle OK: %d segments, %d priced, %d without pricing\n",
				info.NumSegments, len(info.PricedLabels), len(info.UnpricedLabels))
			return nil
		},
	}
}

func newBundleEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode",
		Short: "Print the bundle as a MODEL_BUNDLE_BASE64 value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := loadEngine(cmd.Context())
			if err != nil {
				return err
			}

			encoded, err := file.EncodeInline(engine.Bundle())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), encoded)
			return nil
		},
	}
}

func newBundlePublishCmd() *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Copy a validated bundle into Postgres or Redis",
		Example: `  segmentctl bundle publish --bundle model/segment_bundle.json --to postgres
  segmentctl bundle publish --bundle model/segment_bundle.yaml --to redis`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if target != config.BundleSourcePostgres && target != config.BundleSourceRedis {
				return fmt.Errorf("unsupported publish target %q (want %s or %s)",
					target, config.BundleSourcePostgres, config.BundleSourceRedis)
			}

			engine, err := loadEngine(ctx)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			var writer segmentation.BundleWriter
			switch target {
			case config.BundleSourcePostgres:
				db, err := database.InitPostgres(cfg)
				if err != nil {
					return err
				}
				defer func() { _ = database.ClosePostgres(db) }()

				repo := postgres.NewBundleRepository(db)
				if err := repo.Migrate(ctx); err != nil {
					return fmt.Errorf("migrate bundle tables: %w", err)
				}
				writer = repo

			case config.BundleSourceRedis:
				client, err := redisClient.NewRedisClient(ctx, cfg.Redis)
				if err != nil {
					return err
				}
				defer func() { _ = redisClient.CloseRedisClient(client) }()

				writer = redisRepo.NewBundleRepository(client, cfg.Bundle.RedisKey)

			}

			if err := writer.SaveBundle(ctx, engine.Bundle()); err != nil {
				return fmt.Errorf("publish bundle: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "published %d segments to %s\n", engine.Info().NumSegments, target)
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "to", config.BundleSourcePostgres, "Target store: postgres or redis")
	return cmd
}
