package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"podmatch/internal/config"
	"podmatch/internal/engine"
	"podmatch/internal/inference"
	"podmatch/internal/middleware"
)

func newEngineCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "engine",
		Short: "Run the AI analysis engine sidecar",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEngine(cmd.Context())
		},
	}
}

func runEngine(cmdCtx context.Context) error {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "podmatch-engine")

	ctx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ollama := inference.NewOllama(cfg.OllamaURL, cfg.OllamaModel)
	if ok, msg := ollama.TestConnection(ctx); ok {
		log.Printf("engine: %s", msg)
	} else {
		log.Printf("engine: %s (analyses will fail until Ollama is up)", msg)
	}

	app := engine.NewServer(ollama).App()

	go func() {
		<-ctx.Done()
		log.Println("engine: shutting down...")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.Printf("engine: shutdown error: %v", err)
		}
	}()

	log.Printf("PodMatch AI engine starting on :%s (model=%s)", cfg.EnginePort, cfg.OllamaModel)
	if err := app.Listen(":" + cfg.EnginePort); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}
