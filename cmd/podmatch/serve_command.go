package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"podmatch/internal/config"
	"podmatch/internal/engine"
	"podmatch/internal/handler"
	"podmatch/internal/inference"
	"podmatch/internal/middleware"
	"podmatch/internal/router"
	"podmatch/internal/service"
	"podmatch/internal/storage"
	"podmatch/internal/wiki"
	"podmatch/internal/youtube"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the PodMatch API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(cmdCtx context.Context) error {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "podmatch-api")

	ctx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := storage.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	// Pool gauges only exist on the Postgres backend.
	var pool *pgxpool.Pool
	if pg, ok := store.(*storage.Postgres); ok {
		pool = pg.Pool()
	}
	handler.InitMetrics(pool)

	trending := service.NewTrendingService(store, cache, seedOverrides(cfg))
	if err := trending.SeedIfEmpty(ctx); err != nil {
		log.Printf("trending: seed error: %v", err)
	}

	relevance := service.NewRelevanceEngine(relevanceWeights(cfg))

	adapters := service.Adapters{Wiki: wiki.NewClient()}
	if cfg.HuggingFaceAPIKey != "" {
		adapters.HF = inference.NewHuggingFace(cfg.HuggingFaceAPIKey)
	}
	if cfg.YouTubeAPIKey != "" {
		yt, err := youtube.NewClient(ctx, cfg.YouTubeAPIKey)
		if err != nil {
			log.Printf("youtube: client init failed, falling back to simulated channel data: %v", err)
		} else {
			adapters.YouTube = yt
		}
	}

	analysis := service.NewAnalysisService(store, cache, trending, relevance, adapters)
	guests := service.NewGuestService(store, cache)

	engineClient := engine.NewClient(cfg.EngineURL)
	engineManager := engine.NewManager(engineClient, cfg.EngineCommand, cfg.EngineAutostart)

	worker := service.NewTrendingWorker(trending, cfg.TrendingCron)
	if err := worker.Start(ctx); err != nil {
		return fmt.Errorf("start trending worker: %w", err)
	}
	defer worker.Stop()

	app := fiber.New(fiber.Config{
		AppName:      "PodMatch API",
		ServerHeader: "PodMatch",
	})

	h := &router.Handlers{
		Analyze:  handler.NewAnalyzeHandler(analysis),
		Engine:   handler.NewEngineHandler(engineClient, engineManager),
		Guest:    handler.NewGuestHandler(guests),
		History:  handler.NewHistoryHandler(analysis),
		Trending: handler.NewTrendingHandler(trending),
		Stats:    handler.NewStatsHandler(store),
		Health:   handler.NewHealthHandler(store, cache.Client(), engineClient),
	}
	router.Setup(app, h, cfg.CORSOrigins)

	go func() {
		<-ctx.Done()
		log.Println("shutting down...")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}()

	log.Printf("PodMatch API starting on :%s (env=%s)", cfg.Port, cfg.Environment)
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// relevanceWeights layers YAML overrides over the default weights. Zero
// values mean "not set".
func relevanceWeights(cfg *config.Config) service.RelevanceWeights {
	w := service.DefaultRelevanceWeights()
	if cfg.Overrides == nil {
		return w
	}
	o := cfg.Overrides.Weights
	if o.TopicAlignment > 0 {
		w.TopicAlignment = o.TopicAlignment
	}
	if o.Authority > 0 {
		w.Authority = o.Authority
	}
	if o.AudienceAppeal > 0 {
		w.AudienceAppeal = o.AudienceAppeal
	}
	if o.Uniqueness > 0 {
		w.Uniqueness = o.Uniqueness
	}
	if o.Engagement > 0 {
		w.Engagement = o.Engagement
	}
	return w
}

func seedOverrides(cfg *config.Config) map[string][]string {
	if cfg.Overrides == nil {
		return nil
	}
	return cfg.Overrides.SeedTopics
}
