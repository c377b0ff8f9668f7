package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tendatree/internal/model"
)

// SpeciesRepository handles the species catalog and per-species care
// parameters. Pure reference data; no algorithmic content.
type SpeciesRepository struct {
	pool *pgxpool.Pool
}

// NewSpeciesRepository creates a new SpeciesRepository instance.
func NewSpeciesRepository(pool *pgxpool.Pool) *SpeciesRepository {
	return &SpeciesRepository{pool: pool}
}

// List returns the full species catalog.
func (r *SpeciesRepository) List(ctx context.Context) ([]*model.Species, error) {
	const query = `SELECT id, name, description FROM tree_species ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list species: %w", err)
	}
	defer rows.Close()

	var species []*model.Species
	for rows.Next() {
		var s model.Species
		if err := rows.Scan(&s.ID, &s.Name, &s.Description); err != nil {
			return nil, fmt.Errorf("failed to scan species: %w", err)
		}
		species = append(species, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating species: %w", err)
	}

	return species, nil
}

// GetByName retrieves a species by its name.
// Returns ErrSpeciesNotFound if it does not exist.
func (r *SpeciesRepository) GetByName(ctx context.Context, name string) (*model.Species, error) {
	const query = `SELECT id, name, description FROM tree_species WHERE name = $1`

	var s model.Species
	err := r.pool.QueryRow(ctx, query, name).Scan(&s.ID, &s.Name, &s.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSpeciesNotFound
		}
		return nil, fmt.Errorf("failed to get species: %w", err)
	}

	return &s, nil
}

// GetByID retrieves a species by id.
// Returns ErrSpeciesNotFound if it does not exist.
func (r *SpeciesRepository) GetByID(ctx context.Context, id int64) (*model.Species, error) {
	const query = `SELECT id, name, description FROM tree_species WHERE id = $1`

	var s model.Species
	err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSpeciesNotFound
		}
		return nil, fmt.Errorf("failed to get species: %w", err)
	}

	return &s, nil
}

// GetParams returns the stored care parameters for a species.
func (r *SpeciesRepository) GetParams(ctx context.Context, speciesID int64) ([]*model.CareParameter, error) {
	const query = `
		SELECT id, species_id, param_name, param_value
		FROM care_parameters
		WHERE species_id = $1
		ORDER BY param_name
	`

	rows, err := r.pool.Query(ctx, query, speciesID)
	if err != nil {
		return nil, fmt.Errorf("failed to get care parameters: %w", err)
	}
	defer rows.Close()

	var params []*model.CareParameter
	for rows.Next() {
		var p model.CareParameter
		if err := rows.Scan(&p.ID, &p.SpeciesID, &p.Name, &p.Value); err != nil {
			return nil, fmt.Errorf("failed to scan care parameter: %w", err)
		}
		params = append(params, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating care parameters: %w", err)
	}

	return params, nil
}

// UpsertParam inserts or updates one named care parameter for a species.
func (r *SpeciesRepository) UpsertParam(ctx context.Context, speciesID int64, name, value string) error {
	const query = `
		INSERT INTO care_parameters (species_id, param_name, param_value)
		VALUES ($1, $2, $3)
		ON CONFLICT (species_id, param_name) DO UPDATE SET param_value = EXCLUDED.param_value
	`

	if _, err := r.pool.Exec(ctx, query, speciesID, name, value); err != nil {
		return fmt.Errorf("failed to upsert care parameter: %w", err)
	}

	return nil
}
