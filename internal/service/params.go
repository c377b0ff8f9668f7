package service

import (
	"context"
	"errors"
	"fmt"

	"tendatree/internal/model"
	"tendatree/internal/repository"
)

// ErrSpeciesNotFound is surfaced when a parameter query names an unknown
// species.
var ErrSpeciesNotFound = errors.New("species not found")

// paramKeys are the care parameter names a species may carry. Writes to
// any other key are ignored.
var paramKeys = []string{
	"min_water", "max_water",
	"min_sunlight", "max_sunlight",
	"min_feed", "max_feed",
	"min_love", "max_love",
}

// defaultParams mirrors the target draw range: every dimension spans 1-15
// unless an admin has overridden it for the species.
func defaultParams() map[string]string {
	return map[string]string{
		"min_water": "1", "max_water": "15",
		"min_sunlight": "1", "max_sunlight": "15",
		"min_feed": "1", "max_feed": "15",
		"min_love": "1", "max_love": "15",
	}
}

// ParamsService handles per-species care parameter reference data.
// Pass-through data access with no algorithmic content.
type ParamsService struct {
	speciesRepo *repository.SpeciesRepository
}

// NewParamsService creates a new ParamsService instance.
func NewParamsService(speciesRepo *repository.SpeciesRepository) *ParamsService {
	return &ParamsService{speciesRepo: speciesRepo}
}

// ListSpecies returns the species catalog.
func (s *ParamsService) ListSpecies(ctx context.Context) ([]*model.Species, error) {
	return s.speciesRepo.List(ctx)
}

// GetParams returns the species' care parameters merged over the defaults,
// so every expected key is always present.
func (s *ParamsService) GetParams(ctx context.Context, speciesID int64) (map[string]string, error) {
	if _, err := s.speciesRepo.GetByID(ctx, speciesID); err != nil {
		if errors.Is(err, repository.ErrSpeciesNotFound) {
			return nil, ErrSpeciesNotFound
		}
		return nil, err
	}

	stored, err := s.speciesRepo.GetParams(ctx, speciesID)
	if err != nil {
		return nil, err
	}

	params := defaultParams()
	for _, p := range stored {
		params[p.Name] = p.Value
	}
	return params, nil
}

// UpdateParams upserts the given parameter values for a species. Unknown
// keys are skipped. Returns the merged result.
func (s *ParamsService) UpdateParams(ctx context.Context, speciesID int64, values map[string]string) (map[string]string, error) {
	if _, err := s.speciesRepo.GetByID(ctx, speciesID); err != nil {
		if errors.Is(err, repository.ErrSpeciesNotFound) {
			return nil, ErrSpeciesNotFound
		}
		return nil, err
	}

	for _, key := range paramKeys {
		value, ok := values[key]
		if !ok {
			continue
		}
		if err := s.speciesRepo.UpsertParam(ctx, speciesID, key, value); err != nil {
			return nil, fmt.Errorf("failed to update parameter %s: %w", key, err)
		}
	}

	return s.GetParams(ctx, speciesID)
}
