package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"tendatree/internal/game/round"
	"tendatree/internal/model"
	"tendatree/internal/pkg/lock"
	"tendatree/internal/repository"
)

// Common errors for tree operations.
var (
	ErrTreeNotFound  = errors.New("tree not found")
	ErrInvalidAction = errors.New("invalid care action")
)

// RoundProgress is the read-only view of the current round: counts since
// the last evaluation, the stored targets, and the points an evaluation
// would award right now. No state is mutated computing it.
type RoundProgress struct {
	TreeID          int64              `json:"tree_id"`
	Counts          model.ActionCounts `json:"counts"`
	Targets         model.Targets      `json:"targets"`
	PotentialPoints int                `json:"potential_points"`
	LastEvaluation  *time.Time         `json:"last_evaluation"`
}

// TreeService handles care actions and tree/event queries for the API
// surface. Metadata writes take the tree lock so they never race a round
// evaluation in flight.
type TreeService struct {
	treeRepo  *repository.TreeRepository
	careRepo  *repository.CareLogRepository
	eventRepo *repository.TreeEventRepository
	species   *repository.SpeciesRepository
	locks     *lock.TreeLock
}

// NewTreeService creates a new TreeService instance.
func NewTreeService(
	treeRepo *repository.TreeRepository,
	careRepo *repository.CareLogRepository,
	eventRepo *repository.TreeEventRepository,
	species *repository.SpeciesRepository,
	locks *lock.TreeLock,
) *TreeService {
	return &TreeService{
		treeRepo:  treeRepo,
		careRepo:  careRepo,
		eventRepo: eventRepo,
		species:   species,
		locks:     locks,
	}
}

// resolveTree finds the target tree: an explicit id when given, otherwise
// the owner's tree. Returns ErrTreeNotFound when neither resolves.
func (s *TreeService) resolveTree(ctx context.Context, ownerID int64, treeID int64) (*model.Tree, error) {
	var (
		tree *model.Tree
		err  error
	)
	if treeID > 0 {
		tree, err = s.treeRepo.GetByID(ctx, treeID)
	} else {
		tree, err = s.treeRepo.GetByOwner(ctx, ownerID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrTreeNotFound) {
			return nil, ErrTreeNotFound
		}
		return nil, err
	}
	return tree, nil
}

// RecordCareAction appends one care log entry and bumps the tree's
// last-activity timestamp. The action must be one of the four care
// dimensions; a missing tree is a not-found condition and writes nothing.
func (s *TreeService) RecordCareAction(ctx context.Context, user *model.User, treeID int64, action string) error {
	if !model.ValidAction(action) {
		return fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	tree, err := s.resolveTree(ctx, user.ID, treeID)
	if err != nil {
		return err
	}

	return s.locks.WithLock(tree.ID, func() error {
		actor := strconv.FormatInt(user.ID, 10)
		if _, err := s.careRepo.Append(ctx, tree.ID, action, actor); err != nil {
			return fmt.Errorf("failed to record care action: %w", err)
		}

		// Re-read under the lock: an evaluation may have rewritten the
		// metadata since the tree was resolved.
		current, err := s.treeRepo.GetByID(ctx, tree.ID)
		if err != nil {
			return err
		}
		meta := current.Meta
		meta.LastActivity = time.Now().UTC()
		return s.treeRepo.UpdateMeta(ctx, tree.ID, meta)
	})
}

// BumpActivity refreshes the owner's tree last-activity timestamp without
// recording a care action. A user with no tree is a no-op.
func (s *TreeService) BumpActivity(ctx context.Context, ownerID int64) error {
	tree, err := s.resolveTree(ctx, ownerID, 0)
	if err != nil {
		if errors.Is(err, ErrTreeNotFound) {
			return nil
		}
		return err
	}

	return s.locks.WithLock(tree.ID, func() error {
		current, err := s.treeRepo.GetByID(ctx, tree.ID)
		if err != nil {
			return err
		}
		meta := current.Meta
		meta.LastActivity = time.Now().UTC()
		return s.treeRepo.UpdateMeta(ctx, tree.ID, meta)
	})
}

// GetMyTree returns the owner's tree together with its species.
func (s *TreeService) GetMyTree(ctx context.Context, ownerID int64) (*model.Tree, *model.Species, error) {
	tree, err := s.resolveTree(ctx, ownerID, 0)
	if err != nil {
		return nil, nil, err
	}

	species, err := s.species.GetByID(ctx, tree.SpeciesID)
	if err != nil && !errors.Is(err, repository.ErrSpeciesNotFound) {
		return nil, nil, err
	}

	return tree, species, nil
}

// GetRoundProgress computes the current round's progress for a tree.
func (s *TreeService) GetRoundProgress(ctx context.Context, ownerID, treeID int64) (*RoundProgress, error) {
	tree, err := s.resolveTree(ctx, ownerID, treeID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	since := round.WindowStart(tree.Meta.LastEvaluation, now)
	counts, err := s.careRepo.CountsSince(ctx, tree.ID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to read care window: %w", err)
	}

	_, potential := round.Score(counts, tree.Meta.Targets)

	progress := &RoundProgress{
		TreeID:          tree.ID,
		Counts:          counts,
		Targets:         tree.Meta.Targets,
		PotentialPoints: potential,
	}
	if !tree.Meta.LastEvaluation.IsZero() {
		t := tree.Meta.LastEvaluation
		progress.LastEvaluation = &t
	}

	return progress, nil
}

// GetLatestEvent returns the most recent narrative event for a tree, or
// nil when the tree has none yet.
func (s *TreeService) GetLatestEvent(ctx context.Context, treeID int64) (*model.TreeEvent, error) {
	ev, err := s.eventRepo.Latest(ctx, treeID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ev, nil
}

// GetRecentEvents returns up to limit recent narrative events, newest
// first.
func (s *TreeService) GetRecentEvents(ctx context.Context, treeID int64, limit int) ([]*model.TreeEvent, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.eventRepo.Recent(ctx, treeID, limit)
}
