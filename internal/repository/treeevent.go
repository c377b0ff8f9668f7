package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tendatree/internal/model"
)

// TreeEventRepository handles the append-only narrative event log.
type TreeEventRepository struct {
	pool *pgxpool.Pool
}

// NewTreeEventRepository creates a new TreeEventRepository instance.
func NewTreeEventRepository(pool *pgxpool.Pool) *TreeEventRepository {
	return &TreeEventRepository{pool: pool}
}

const eventColumns = "id, tree_id, event_type, description, metadata, created_at"

func scanEvent(row pgx.Row) (*model.TreeEvent, error) {
	var (
		ev  model.TreeEvent
		raw []byte
	)
	err := row.Scan(
		&ev.ID,
		&ev.TreeID,
		&ev.Kind,
		&ev.Description,
		&raw,
		&ev.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		var payload model.EventPayload
		if err := json.Unmarshal(raw, &payload); err == nil {
			ev.Payload = &payload
		}
	}
	return &ev, nil
}

// Append records a narrative event for a tree.
func (r *TreeEventRepository) Append(ctx context.Context, treeID int64, kind, description string, payload *model.EventPayload) (*model.TreeEvent, error) {
	var raw []byte
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode event payload: %w", err)
		}
	}

	const query = `
		INSERT INTO tree_events (tree_id, event_type, description, metadata, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING ` + eventColumns

	ev, err := scanEvent(r.pool.QueryRow(ctx, query, treeID, kind, description, raw))
	if err != nil {
		return nil, fmt.Errorf("failed to append tree event: %w", err)
	}

	return ev, nil
}

// Latest returns the most recent event for a tree.
// Returns ErrEventNotFound when the tree has no events yet.
func (r *TreeEventRepository) Latest(ctx context.Context, treeID int64) (*model.TreeEvent, error) {
	const query = `
		SELECT ` + eventColumns + `
		FROM tree_events
		WHERE tree_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	ev, err := scanEvent(r.pool.QueryRow(ctx, query, treeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get latest event: %w", err)
	}

	return ev, nil
}

// Recent returns the N most recent events for a tree, newest first.
func (r *TreeEventRepository) Recent(ctx context.Context, treeID int64, limit int) ([]*model.TreeEvent, error) {
	const query = `
		SELECT ` + eventColumns + `
		FROM tree_events
		WHERE tree_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, treeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent events: %w", err)
	}
	defer rows.Close()

	var events []*model.TreeEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}
