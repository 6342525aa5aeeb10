// Package main provides the CLI tool for posterbadge.
// Uses Cobra for command parsing — Cobra is the standard Go CLI framework
// (used by kubectl, docker, hugo, and many others).
//
// Run with: go run ./cmd/badge apply --items library.json
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bestopensors/posterbadge/internal/badge"
	"github.com/bestopensors/posterbadge/internal/config"
	"github.com/bestopensors/posterbadge/internal/model"
	"github.com/bestopensors/posterbadge/internal/provider"
	"github.com/bestopensors/posterbadge/internal/service"
	"github.com/bestopensors/posterbadge/internal/storage"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootCmd creates the root command. Cobra builds a tree of commands:
// badge apply --items library.json
// badge preview --poster cover.jpg --items library.json --item tt0111161 --out preview.png
func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "badge",
		Short: "Poster badge CLI tools",
	}

	root.AddCommand(applyCmd())
	root.AddCommand(previewCmd())
	return root
}

func applyCmd() *cobra.Command {
	var itemsPath string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Badge every poster described in an items file",
		// RunE returns an error (vs Run which doesn't). Cobra prints the error automatically.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(itemsPath)
		},
	}

	cmd.Flags().StringVar(&itemsPath, "items", "", "JSON file with media items (required)")
	_ = cmd.MarkFlagRequired("items")
	return cmd
}

func previewCmd() *cobra.Command {
	var posterPath, itemsPath, itemID, outPath string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render badges onto one poster without writing to the library",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(posterPath, itemsPath, itemID, outPath)
		},
	}

	cmd.Flags().StringVar(&posterPath, "poster", "", "Poster image to badge (required)")
	cmd.Flags().StringVar(&itemsPath, "items", "", "JSON file with media items (required)")
	cmd.Flags().StringVar(&itemID, "item", "", "Item ID to preview (defaults to the only item in the file)")
	cmd.Flags().StringVar(&outPath, "out", "preview.png", "Output PNG path")
	_ = cmd.MarkFlagRequired("poster")
	_ = cmd.MarkFlagRequired("items")
	return cmd
}

func runApply(itemsPath string) error {
	cfg, logger, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	items, err := loadItems(itemsPath)
	if err != nil {
		return err
	}

	// Apply keeps job bookkeeping, so it needs the database.
	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}
	db, err := storage.NewDatabase(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	svc, err := buildService(cfg, storage.NewBadgeJobRepository(db), logger)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	results, err := svc.ApplyBatch(ctx, items)
	if err != nil {
		return fmt.Errorf("applying badges: %w", err)
	}

	var applied, skipped, failed int
	for _, res := range results {
		switch res.Status {
		case model.StatusApplied:
			applied++
		case model.StatusSkipped:
			skipped++
		default:
			failed++
			logger.Warn("item failed",
				zap.String("item", res.ItemID),
				zap.String("detail", res.Detail),
			)
		}
	}

	logger.Info("apply complete",
		zap.Int("total", len(results)),
		zap.Int("applied", applied),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
	)
	return nil
}

func runPreview(posterPath, itemsPath, itemID, outPath string) error {
	cfg, logger, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	items, err := loadItems(itemsPath)
	if err != nil {
		return err
	}
	item, err := pickItem(items, itemID)
	if err != nil {
		return err
	}

	poster, err := os.ReadFile(posterPath)
	if err != nil {
		return fmt.Errorf("reading poster: %w", err)
	}

	// Preview runs without job bookkeeping — no database needed.
	svc, err := buildService(cfg, nil, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	data, res, err := svc.Preview(ctx, item, poster)
	if err != nil {
		return fmt.Errorf("previewing badges: %w", err)
	}
	if res.Status != model.StatusApplied {
		return fmt.Errorf("item %s: %s (%s)", res.ItemID, res.Status, res.Detail)
	}

	if err := storage.NewFileSystem().WritePosterAtomic(outPath, data); err != nil {
		return fmt.Errorf("writing preview: %w", err)
	}

	logger.Info("preview written",
		zap.String("path", outPath),
		zap.Int("badges", res.BadgeCount),
	)
	return nil
}

// loadEnvironment loads config and a development-mode logger (CLI output is
// for humans, not log aggregators).
func loadEnvironment() (*config.Config, *zap.Logger, error) {
	configPath := os.Getenv("BADGE_CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	return cfg, logger, nil
}

func loadItems(path string) ([]model.MediaItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading items file: %w", err)
	}
	var items []model.MediaItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing items file: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("items file %s is empty", path)
	}
	return items, nil
}

func pickItem(items []model.MediaItem, itemID string) (model.MediaItem, error) {
	if itemID == "" {
		if len(items) == 1 {
			return items[0], nil
		}
		return model.MediaItem{}, fmt.Errorf("items file has %d items, pass --item to pick one", len(items))
	}
	for _, it := range items {
		if it.ID == itemID {
			return it, nil
		}
	}
	return model.MediaItem{}, fmt.Errorf("item %s not found in items file", itemID)
}

func buildService(cfg *config.Config, jobs storage.BadgeJobRepository, logger *zap.Logger) (*service.PosterService, error) {
	fonts, err := badge.NewFontResolver()
	if err != nil {
		return nil, fmt.Errorf("resolving badge font: %w", err)
	}

	timeout := time.Duration(cfg.Ratings.TimeoutSeconds) * time.Second
	ratings := provider.NewHTTPRatingsProvider(cfg.Ratings.BaseURL, cfg.Ratings.APIKey, timeout, logger)

	return service.NewPosterService(cfg, ratings, jobs, storage.NewFileSystem(), fonts, logger), nil
}

// signalContext returns a context cancelled on Ctrl+C or SIGTERM so a long
// batch stops between items instead of mid-write.
func signalContext(logger *zap.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("cancelling...")
		cancel()
	}()

	return ctx, cancel
}
