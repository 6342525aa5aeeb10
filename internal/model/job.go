package model

import "time"

// JobStatus is the outcome of one badge-application pass over an item.
type JobStatus string

const (
	StatusApplied JobStatus = "applied" // poster written with badges
	StatusSkipped JobStatus = "skipped" // nothing to do (by rule or missing data)
	StatusFailed  JobStatus = "failed"  // transient failure, poster unchanged
)

// BadgeJob records one application pass for an item. Each field has two tags:
//   - `db:"column_name"` — used by sqlx to scan database rows
//   - `json:"field_name"` — used for JSON serialization (API responses)
type BadgeJob struct {
	ID         int64     `db:"id" json:"id"`
	ItemID     string    `db:"item_id" json:"item_id"`
	ItemName   string    `db:"item_name" json:"item_name"`
	BadgeCount int       `db:"badge_count" json:"badge_count"`
	Status     JobStatus `db:"status" json:"status"`
	Detail     *string   `db:"detail" json:"detail,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
