package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/aniket-charjan/ui-diff-detector/internal/config"
	"github.com/aniket-charjan/ui-diff-detector/internal/server"
	"github.com/aniket-charjan/ui-diff-detector/internal/store"
	"github.com/aniket-charjan/ui-diff-detector/pkg/client"
	"github.com/aniket-charjan/ui-diff-detector/pkg/differ"
	"github.com/aniket-charjan/ui-diff-detector/pkg/ollama"
	"github.com/aniket-charjan/ui-diff-detector/pkg/openrouter"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer zl.Sync()
	logger := zl.Sugar()

	st, err := store.New(cfg.DatabasePath)
	if err != nil {
		logger.Fatalw("failed to open store", "error", err, "path", cfg.DatabasePath)
	}
	defer st.Close()

	backend, err := newBackend(cfg)
	if err != nil {
		logger.Fatalw("failed to create vision backend", "error", err, "backend", cfg.Backend)
	}

	d := differ.New(differ.Config{
		Client:       backend,
		Model:        cfg.Model,
		OutputDir:    cfg.OutputsDir,
		MaxDimension: cfg.MaxDimension,
		Logger:       logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, st, d, logger)
	if err := srv.Run(ctx); err != nil {
		logger.Fatalw("server failed", "error", err)
	}
	logger.Infow("server stopped")
}

func newBackend(cfg *config.Config) (client.VisionClient, error) {
	switch cfg.Backend {
	case "openrouter":
		return openrouter.NewClient(openrouter.Config{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		}), nil
	default:
		return ollama.NewClient(cfg.OllamaURL)
	}
}
