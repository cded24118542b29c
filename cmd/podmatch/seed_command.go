package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"podmatch/internal/config"
	"podmatch/internal/middleware"
	"podmatch/internal/service"
	"podmatch/internal/storage"
)

func newSeedCommand() *cobra.Command {
	var regions []string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed trending topics and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), regions)
		},
	}
	cmd.Flags().StringSliceVar(&regions, "regions", nil, "Regions to seed (default: global, us, uk, in)")

	return cmd
}

func runSeed(ctx context.Context, regions []string) error {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "podmatch-seed")

	store, err := storage.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	trending := service.NewTrendingService(store, cache, seedOverrides(cfg))
	n, err := trending.RefreshAll(ctx, regions)
	if err != nil {
		return fmt.Errorf("seed trending topics: %w", err)
	}

	log.Printf("seeded %d trending topics", n)
	return nil
}
