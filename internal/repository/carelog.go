package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"tendatree/internal/model"
)

// CareLogRepository handles the append-only care action log.
type CareLogRepository struct {
	pool *pgxpool.Pool
}

// NewCareLogRepository creates a new CareLogRepository instance.
func NewCareLogRepository(pool *pgxpool.Pool) *CareLogRepository {
	return &CareLogRepository{pool: pool}
}

// Append records one care action for a tree.
func (r *CareLogRepository) Append(ctx context.Context, treeID int64, action, actor string) (*model.CareLog, error) {
	const query = `
		INSERT INTO care_logs (tree_id, action, actor, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, tree_id, action, actor, created_at
	`

	var entry model.CareLog
	err := r.pool.QueryRow(ctx, query, treeID, action, actor).Scan(
		&entry.ID,
		&entry.TreeID,
		&entry.Action,
		&entry.Actor,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to append care log: %w", err)
	}

	return &entry, nil
}

// AppendWithTime records a care action with a specific timestamp.
// Useful for testing window boundaries.
func (r *CareLogRepository) AppendWithTime(ctx context.Context, treeID int64, action, actor string, createdAt time.Time) (*model.CareLog, error) {
	const query = `
		INSERT INTO care_logs (tree_id, action, actor, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, tree_id, action, actor, created_at
	`

	var entry model.CareLog
	err := r.pool.QueryRow(ctx, query, treeID, action, actor, createdAt).Scan(
		&entry.ID,
		&entry.TreeID,
		&entry.Action,
		&entry.Actor,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to append care log: %w", err)
	}

	return &entry, nil
}

// CountsSince returns per-dimension care action counts for a tree at or
// after the given round window start.
func (r *CareLogRepository) CountsSince(ctx context.Context, treeID int64, since time.Time) (model.ActionCounts, error) {
	const query = `
		SELECT
			COALESCE(SUM(CASE WHEN action = 'water' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN action = 'sunlight' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN action = 'feed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN action = 'love' THEN 1 ELSE 0 END), 0)
		FROM care_logs
		WHERE tree_id = $1 AND created_at >= $2
	`

	var counts model.ActionCounts
	err := r.pool.QueryRow(ctx, query, treeID, since).Scan(
		&counts.Water,
		&counts.Sunlight,
		&counts.Feed,
		&counts.Love,
	)
	if err != nil {
		return model.ActionCounts{}, fmt.Errorf("failed to count care actions: %w", err)
	}

	return counts, nil
}
