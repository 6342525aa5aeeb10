package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bestopensors/posterbadge/internal/badge"
	"github.com/bestopensors/posterbadge/internal/config"
	"github.com/bestopensors/posterbadge/internal/facts"
	"github.com/bestopensors/posterbadge/internal/model"
	"github.com/bestopensors/posterbadge/internal/provider"
	"github.com/bestopensors/posterbadge/internal/storage"
)

// batchWorkers bounds concurrent poster composition. Items are fully
// independent (own canvas, own facts), so the limit is about memory, not
// correctness: four decoded posters in flight is plenty.
const batchWorkers = 4

// maxPosterWidth downscales oversized source images before compositing.
const maxPosterWidth = 2000

// ItemResult is the per-item outcome of a badge pass. The pipeline never
// raises per-item failures to the caller — it resolves every failure mode to
// "produce no change and report why".
type ItemResult struct {
	ItemID     string          `json:"item_id"`
	ItemName   string          `json:"item_name"`
	Status     model.JobStatus `json:"status"`
	Detail     string          `json:"detail,omitempty"`
	BadgeCount int             `json:"badge_count"`
}

// PosterService is the main entry point for badge application. It wires the
// pipeline: facts → skip rule → external ratings → content → layout →
// shapes → render → atomic write.
type PosterService struct {
	cfg     *config.Config
	ratings provider.RatingsProvider // nil if no API key configured
	jobs    storage.BadgeJobRepository
	fs      *storage.FileSystem
	fonts   *badge.FontResolver
	logger  *zap.Logger
}

// NewPosterService creates a service with its collaborators wired up.
// ratings may be nil (external ratings disabled); jobs may be nil (no
// bookkeeping, used by preview-only callers).
func NewPosterService(
	cfg *config.Config,
	ratings provider.RatingsProvider,
	jobs storage.BadgeJobRepository,
	fs *storage.FileSystem,
	fonts *badge.FontResolver,
	logger *zap.Logger,
) *PosterService {
	return &PosterService{
		cfg:     cfg,
		ratings: ratings,
		jobs:    jobs,
		fs:      fs,
		fonts:   fonts,
		logger:  logger,
	}
}

// Preview composes badges onto the given poster bytes and returns the PNG
// without touching disk or the database. A skipped item returns a nil image
// with the skip reason in the result.
func (s *PosterService) Preview(ctx context.Context, item model.MediaItem, poster []byte) ([]byte, ItemResult, error) {
	res := ItemResult{ItemID: item.ID, ItemName: item.Name}

	badges, skipReason, err := s.buildBadges(ctx, item)
	if err != nil {
		return nil, res, err // cancellation only
	}
	if skipReason != "" {
		res.Status = model.StatusSkipped
		res.Detail = skipReason
		return nil, res, nil
	}

	data, count, err := s.compose(badges, poster)
	if err != nil {
		res.Status = model.StatusFailed
		res.Detail = err.Error()
		return nil, res, nil
	}

	res.Status = model.StatusApplied
	res.BadgeCount = count
	return data, res, nil
}

// ApplyItem runs the full durable pipeline for one item: read the poster,
// compose, atomic-write the result, record the outcome. Only cancellation
// is returned as an error; everything else lands in the result.
func (s *PosterService) ApplyItem(ctx context.Context, item model.MediaItem) (ItemResult, error) {
	res := ItemResult{ItemID: item.ID, ItemName: item.Name}

	badges, skipReason, err := s.buildBadges(ctx, item)
	if err != nil {
		return res, err
	}
	if skipReason != "" {
		res.Status = model.StatusSkipped
		res.Detail = skipReason
		s.record(ctx, res)
		return res, nil
	}

	// Image I/O happens only after the skip rules have passed.
	poster, err := s.fs.ReadPoster(item.PosterPath)
	if err != nil {
		// Missing poster is "nothing to do", not a failure.
		res.Status = model.StatusSkipped
		res.Detail = "no poster image"
		s.logger.Debug("poster read skipped",
			zap.String("item", item.ID),
			zap.Error(err),
		)
		s.record(ctx, res)
		return res, nil
	}

	data, count, err := s.compose(badges, poster)
	if err != nil {
		res.Status = model.StatusFailed
		res.Detail = err.Error()
		s.logger.Warn("badge composition failed",
			zap.String("item", item.ID),
			zap.Error(err),
		)
		s.record(ctx, res)
		return res, nil
	}

	dest := s.outputPath(item)
	if err := s.fs.WritePosterAtomic(dest, data); err != nil {
		res.Status = model.StatusFailed
		res.Detail = err.Error()
		s.logger.Warn("poster write failed",
			zap.String("item", item.ID),
			zap.String("path", dest),
			zap.Error(err),
		)
		s.record(ctx, res)
		return res, nil
	}

	res.Status = model.StatusApplied
	res.BadgeCount = count
	s.logger.Info("poster badged",
		zap.String("item", item.ID),
		zap.String("path", dest),
		zap.Int("badges", count),
	)
	s.record(ctx, res)
	return res, nil
}

// ApplyBatch processes items concurrently with a bounded worker count.
// Every item gets a result; the only early exit is context cancellation.
func (s *PosterService) ApplyBatch(ctx context.Context, items []model.MediaItem) ([]ItemResult, error) {
	results := make([]ItemResult, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchWorkers)

	for i, item := range items {
		g.Go(func() error {
			res, err := s.ApplyItem(gctx, item)
			results[i] = res
			return err // non-nil only on cancellation
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// buildBadges extracts facts, applies the skip rules, fetches external
// ratings when a rating badge wants them, and derives the badge list.
// A non-empty skipReason means the item produces zero changes by design.
// The returned error is non-nil only for cancellation.
func (s *PosterService) buildBadges(ctx context.Context, item model.MediaItem) ([]model.Badge, string, error) {
	f := facts.Extract(item)
	bcfg := s.cfg.Badges

	// The skip rule runs before image or network I/O so a skipped item
	// costs nothing beyond the stream scan.
	if badge.ShouldSkip(f, bcfg) {
		return nil, "no audio language detected", nil
	}

	if s.wantsExternalRatings(bcfg) {
		external, err := s.fetchExternalRatings(ctx, item)
		if err != nil {
			return nil, "", err
		}
		f.ExternalRatings = external
	}

	badges := badge.BuildContent(f, bcfg)
	if len(badges) == 0 {
		return nil, "no badges to draw", nil
	}
	return badges, "", nil
}

func (s *PosterService) wantsExternalRatings(bcfg config.BadgesConfig) bool {
	return s.ratings != nil && (bcfg.IMDb.Enabled || bcfg.RottenTomato.Enabled)
}

// fetchExternalRatings looks up third-party ratings under a bounded budget.
// A timeout or provider hiccup degrades to built-in ratings; cancellation of
// the caller's context is the one error that propagates.
func (s *PosterService) fetchExternalRatings(ctx context.Context, item model.MediaItem) (map[string]float64, error) {
	timeout := time.Duration(s.cfg.Ratings.TimeoutSeconds) * time.Second
	rctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	external, err := s.ratings.Ratings(rctx, item.Kind, item.ExternalID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// Our own deadline fired: proceed with built-in ratings.
		if errors.Is(err, context.DeadlineExceeded) {
			s.logger.Debug("ratings lookup timed out",
				zap.String("item", item.ID),
				zap.Duration("timeout", timeout),
			)
			return nil, nil
		}
		s.logger.Debug("ratings lookup failed",
			zap.String("item", item.ID),
			zap.Error(err),
		)
		return nil, nil
	}
	return external, nil
}

// compose runs the drawing half of the pipeline on decoded poster bytes.
// Per-badge draw failures are non-fatal: the rest of the badges render and
// the image is still produced.
func (s *PosterService) compose(badges []model.Badge, poster []byte) ([]byte, int, error) {
	canvas, err := DecodePoster(poster, maxPosterWidth)
	if err != nil {
		return nil, 0, fmt.Errorf("decoding poster: %w", err)
	}

	face, err := s.fonts.Face(s.cfg.Badges.FontSize)
	if err != nil {
		return nil, 0, fmt.Errorf("resolving font: %w", err)
	}

	bounds := canvas.Bounds()
	padding := s.cfg.Badges.Padding
	placed := badge.Place(bounds.Dx(), bounds.Dy(), face, badges, padding)

	failures := badge.Render(canvas, placed, face, padding, s.cfg.Badges.Curvature)
	for _, ferr := range failures {
		s.logger.Warn("badge skipped during render", zap.Error(ferr))
	}

	data, err := badge.EncodePNG(canvas)
	if err != nil {
		return nil, 0, err
	}
	return data, len(placed) - len(failures), nil
}

// outputPath picks the destination for a badged poster: the configured
// output directory when set, otherwise the source location with a .png
// extension (the badged poster replaces the original in place).
func (s *PosterService) outputPath(item model.MediaItem) string {
	base := strings.TrimSuffix(filepath.Base(item.PosterPath), filepath.Ext(item.PosterPath)) + ".png"
	if s.cfg.Storage.OutputDir != "" {
		return filepath.Join(s.cfg.Storage.OutputDir, base)
	}
	return filepath.Join(filepath.Dir(item.PosterPath), base)
}

// record persists the pass outcome, best-effort. Preview-only deployments
// run without a repository.
func (s *PosterService) record(ctx context.Context, res ItemResult) {
	if s.jobs == nil {
		return
	}
	job := &model.BadgeJob{
		ItemID:     res.ItemID,
		ItemName:   res.ItemName,
		BadgeCount: res.BadgeCount,
		Status:     res.Status,
	}
	if res.Detail != "" {
		job.Detail = &res.Detail
	}
	if err := s.jobs.Record(ctx, job); err != nil {
		s.logger.Warn("recording badge job",
			zap.String("item", res.ItemID),
			zap.Error(err),
		)
	}
}
