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

// TreeRepository handles per-tree state persistence. Round metadata is a
// JSONB column decoded defensively here; nothing past this boundary sees a
// raw blob.
type TreeRepository struct {
	pool *pgxpool.Pool
}

// NewTreeRepository creates a new TreeRepository instance.
func NewTreeRepository(pool *pgxpool.Pool) *TreeRepository {
	return &TreeRepository{pool: pool}
}

const treeColumns = "id, owner_id, species_id, growth_stage, metadata, created_at, updated_at"

// decodeMeta parses a stored metadata blob. A malformed blob yields the
// zero value; the evaluator synthesizes safe defaults from it.
func decodeMeta(raw []byte) model.RoundMeta {
	var meta model.RoundMeta
	if len(raw) == 0 {
		return meta
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return model.RoundMeta{}
	}
	return meta
}

func encodeMeta(meta model.RoundMeta) ([]byte, error) {
	raw, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tree metadata: %w", err)
	}
	return raw, nil
}

func scanTree(row pgx.Row) (*model.Tree, error) {
	var (
		t   model.Tree
		raw []byte
	)
	err := row.Scan(
		&t.ID,
		&t.OwnerID,
		&t.SpeciesID,
		&t.Stage,
		&raw,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Meta = decodeMeta(raw)
	return &t, nil
}

// Create creates a tree for an owner with the given starting metadata.
func (r *TreeRepository) Create(ctx context.Context, ownerID, speciesID int64, stage model.GrowthStage, meta model.RoundMeta) (*model.Tree, error) {
	raw, err := encodeMeta(meta)
	if err != nil {
		return nil, err
	}

	const query = `
		INSERT INTO trees (owner_id, species_id, growth_stage, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING ` + treeColumns

	tree, err := scanTree(r.pool.QueryRow(ctx, query, ownerID, speciesID, stage, raw))
	if err != nil {
		return nil, fmt.Errorf("failed to create tree: %w", err)
	}

	return tree, nil
}

// GetByID retrieves a tree by id.
// Returns ErrTreeNotFound if the tree does not exist.
func (r *TreeRepository) GetByID(ctx context.Context, treeID int64) (*model.Tree, error) {
	const query = `SELECT ` + treeColumns + ` FROM trees WHERE id = $1`

	tree, err := scanTree(r.pool.QueryRow(ctx, query, treeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTreeNotFound
		}
		return nil, fmt.Errorf("failed to get tree: %w", err)
	}

	return tree, nil
}

// GetByOwner retrieves the owner's most recent tree.
// Returns ErrTreeNotFound if the owner has no tree.
func (r *TreeRepository) GetByOwner(ctx context.Context, ownerID int64) (*model.Tree, error) {
	const query = `SELECT ` + treeColumns + ` FROM trees WHERE owner_id = $1 ORDER BY id DESC LIMIT 1`

	tree, err := scanTree(r.pool.QueryRow(ctx, query, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTreeNotFound
		}
		return nil, fmt.Errorf("failed to get tree by owner: %w", err)
	}

	return tree, nil
}

// List retrieves all trees, ordered by id. The evaluation scheduler walks
// this list once per cycle.
func (r *TreeRepository) List(ctx context.Context) ([]*model.Tree, error) {
	const query = `SELECT ` + treeColumns + ` FROM trees ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list trees: %w", err)
	}
	defer rows.Close()

	var trees []*model.Tree
	for rows.Next() {
		tree, err := scanTree(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tree: %w", err)
		}
		trees = append(trees, tree)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trees: %w", err)
	}

	return trees, nil
}

// UpdateRound persists a round outcome: new stage plus the full metadata
// (points, fresh targets, evaluation timestamp).
func (r *TreeRepository) UpdateRound(ctx context.Context, treeID int64, stage model.GrowthStage, meta model.RoundMeta) error {
	raw, err := encodeMeta(meta)
	if err != nil {
		return err
	}

	const query = `
		UPDATE trees
		SET growth_stage = $2, metadata = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, treeID, stage, raw)
	if err != nil {
		return fmt.Errorf("failed to update tree round: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrTreeNotFound
	}

	return nil
}

// UpdateMeta persists metadata changes that leave the stage untouched
// (weather point deltas, activity bumps).
func (r *TreeRepository) UpdateMeta(ctx context.Context, treeID int64, meta model.RoundMeta) error {
	raw, err := encodeMeta(meta)
	if err != nil {
		return err
	}

	const query = `
		UPDATE trees
		SET metadata = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, treeID, raw)
	if err != nil {
		return fmt.Errorf("failed to update tree metadata: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrTreeNotFound
	}

	return nil
}

// SetRawMeta stores an arbitrary metadata blob. Used by tests to exercise
// the defensive decode path.
func (r *TreeRepository) SetRawMeta(ctx context.Context, treeID int64, raw string) error {
	const query = `UPDATE trees SET metadata = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, treeID, raw)
	if err != nil {
		return fmt.Errorf("failed to set raw metadata: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrTreeNotFound
	}

	return nil
}
