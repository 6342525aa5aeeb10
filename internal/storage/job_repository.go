package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bestopensors/posterbadge/internal/model"
)

// ErrNotFound is returned when no job record exists for an item.
// Go uses sentinel errors (predefined error values) instead of exception types.
// Callers check with errors.Is(err, ErrNotFound).
var ErrNotFound = errors.New("badge job not found")

// BadgeJobRepository persists the outcome of badge-application passes.
// Go interfaces are implicit — any struct with these methods satisfies it,
// which makes the service testable with an in-memory fake.
type BadgeJobRepository interface {
	GetByItem(ctx context.Context, itemID string) (*model.BadgeJob, error)
	Record(ctx context.Context, job *model.BadgeJob) error
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status model.JobStatus) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]model.BadgeJob, error)
}

// sqliteBadgeJobRepository is the SQLite implementation. The struct is
// unexported — only the interface is public.
type sqliteBadgeJobRepository struct {
	db *sqlx.DB
}

// NewBadgeJobRepository creates a new SQLite-backed BadgeJobRepository.
func NewBadgeJobRepository(db *sqlx.DB) BadgeJobRepository {
	return &sqliteBadgeJobRepository{db: db}
}

func (r *sqliteBadgeJobRepository) GetByItem(ctx context.Context, itemID string) (*model.BadgeJob, error) {
	var job model.BadgeJob
	err := r.db.GetContext(ctx, &job, "SELECT * FROM badge_jobs WHERE item_id = ?", itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting job for item %s: %w", itemID, err)
	}
	return &job, nil
}

// Record upserts the latest pass for an item. An item is re-badged whenever
// its poster or config changes, so one row per item with the latest outcome
// is all the history we keep.
func (r *sqliteBadgeJobRepository) Record(ctx context.Context, job *model.BadgeJob) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO badge_jobs (item_id, item_name, badge_count, status, detail)
		VALUES (:item_id, :item_name, :badge_count, :status, :detail)
		ON CONFLICT(item_id) DO UPDATE SET
			item_name   = excluded.item_name,
			badge_count = excluded.badge_count,
			status      = excluded.status,
			detail      = excluded.detail,
			updated_at  = CURRENT_TIMESTAMP
	`, job)
	if err != nil {
		return fmt.Errorf("recording job for item %s: %w", job.ItemID, err)
	}
	return nil
}

func (r *sqliteBadgeJobRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM badge_jobs")
	return count, err
}

func (r *sqliteBadgeJobRepository) CountByStatus(ctx context.Context, status model.JobStatus) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM badge_jobs WHERE status = ?", status)
	return count, err
}

func (r *sqliteBadgeJobRepository) ListRecent(ctx context.Context, limit int) ([]model.BadgeJob, error) {
	var jobs []model.BadgeJob
	err := r.db.SelectContext(ctx, &jobs,
		"SELECT * FROM badge_jobs ORDER BY updated_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent jobs: %w", err)
	}
	return jobs, nil
}
