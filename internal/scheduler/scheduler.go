// Package scheduler drives round evaluation across the tree population,
// on a fixed interval and on demand, with at most one run in flight.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"tendatree/internal/game/round"
	"tendatree/internal/game/weather"
	"tendatree/internal/model"
	"tendatree/internal/pkg/lock"
)

// Mode distinguishes caller-triggered runs from timer cycles. Only auto
// cycles inject weather events after the evaluation pass.
type Mode string

// Evaluation modes.
const (
	ModeManual Mode = "manual"
	ModeAuto   Mode = "auto"
)

// ErrEvaluationInProgress is returned when a run is requested while
// another run holds the process-wide evaluation slot.
var ErrEvaluationInProgress = errors.New("evaluation already in progress")

// TreeStore is the tree record access the scheduler needs.
type TreeStore interface {
	List(ctx context.Context) ([]*model.Tree, error)
	GetByID(ctx context.Context, treeID int64) (*model.Tree, error)
	UpdateRound(ctx context.Context, treeID int64, stage model.GrowthStage, meta model.RoundMeta) error
	UpdateMeta(ctx context.Context, treeID int64, meta model.RoundMeta) error
}

// CareLogStore provides windowed care action counts.
type CareLogStore interface {
	CountsSince(ctx context.Context, treeID int64, since time.Time) (model.ActionCounts, error)
}

// EventStore appends narrative tree events.
type EventStore interface {
	Append(ctx context.Context, treeID int64, kind, description string, payload *model.EventPayload) (*model.TreeEvent, error)
}

// Scheduler owns the evaluation lifecycle: a run-in-progress slot shared by
// the timer and manual triggers, and a per-tree lock around each
// read-evaluate-write unit.
type Scheduler struct {
	trees    TreeStore
	logs     CareLogStore
	events   EventStore
	locks    *lock.TreeLock
	interval time.Duration
	rng      *rand.Rand

	runMu  sync.Mutex // evaluation slot; TryLock, never held across runs
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a Scheduler. rng may be seeded for deterministic tests; pass
// nil for a time-seeded source.
func New(trees TreeStore, logs CareLogStore, events EventStore, locks *lock.TreeLock, interval time.Duration, rng *rand.Rand) *Scheduler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Scheduler{
		trees:    trees,
		logs:     logs,
		events:   events,
		locks:    locks,
		interval: interval,
		rng:      rng,
	}
}

// Start launches the periodic evaluation loop.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.run(ctx)
}

// Stop cancels the loop and waits for any in-flight cycle to finish its
// current tree, so a round window is never advanced without its points.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	log.Info().Dur("interval", s.interval).Msg("Evaluation scheduler started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.Evaluate(ctx, ModeAuto); err != nil {
				if errors.Is(err, ErrEvaluationInProgress) {
					log.Warn().Msg("Auto evaluation skipped: run already in progress")
					continue
				}
				log.Error().Err(err).Msg("Auto evaluation cycle failed")
			}
		case <-ctx.Done():
			log.Info().Msg("Evaluation scheduler stopped")
			return
		}
	}
}

// Evaluate runs one evaluation pass over every tree and returns the number
// of trees processed. A second caller while a pass is in flight gets
// ErrEvaluationInProgress; no tree is ever evaluated twice against the
// same care-log window. Auto mode injects a weather event per tree after
// the pass completes.
func (s *Scheduler) Evaluate(ctx context.Context, mode Mode) (int, error) {
	if !s.runMu.TryLock() {
		return 0, ErrEvaluationInProgress
	}
	defer s.runMu.Unlock()

	start := time.Now()

	trees, err := s.trees.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list trees: %w", err)
	}

	processed := 0
	failed := 0
	for _, tree := range trees {
		// A shutdown lets the current tree's atomic unit finish but
		// starts no new ones.
		if ctx.Err() != nil {
			break
		}
		if err := s.evaluateTree(ctx, tree, mode); err != nil {
			failed++
			log.Error().Err(err).Int64("tree_id", tree.ID).Msg("Tree evaluation failed, skipping until next cycle")
			continue
		}
		processed++
	}

	if mode == ModeAuto {
		s.injectWeather(ctx, trees)
	}

	log.Info().
		Str("mode", string(mode)).
		Int("processed", processed).
		Int("failed", failed).
		Int("total", len(trees)).
		Dur("elapsed", time.Since(start)).
		Msg("Evaluation pass complete")

	return processed, nil
}

// evaluateTree runs one tree's read-evaluate-write unit under that tree's
// lock. The List snapshot only names the trees to visit; the record is
// re-read under the lock so an activity bump committed in the meantime is
// never clobbered. Missing or malformed metadata has already decayed to
// the zero value at the repository boundary; the evaluator fills in
// defaults.
func (s *Scheduler) evaluateTree(ctx context.Context, tree *model.Tree, mode Mode) error {
	return s.locks.WithLock(tree.ID, func() error {
		current, err := s.trees.GetByID(ctx, tree.ID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		meta := current.Meta

		since := round.WindowStart(meta.LastEvaluation, now)
		counts, err := s.logs.CountsSince(ctx, tree.ID, since)
		if err != nil {
			return fmt.Errorf("failed to read care window: %w", err)
		}

		res := round.Evaluate(round.Input{
			Now:            now,
			Stage:          current.Stage,
			Points:         meta.GrowthPoints,
			Targets:        meta.Targets,
			LastEvaluation: meta.LastEvaluation,
			LastActivity:   meta.LastActivity,
			Counts:         counts,
		}, s.rng)

		newMeta := meta
		newMeta.GrowthPoints = res.NewPoints
		newMeta.Targets = res.NewTargets
		newMeta.LastEvaluation = now
		if newMeta.Health == "" {
			newMeta.Health = model.HealthHealthy
		}

		if err := s.trees.UpdateRound(ctx, tree.ID, res.Stage, newMeta); err != nil {
			return err
		}

		desc := fmt.Sprintf("Round evaluated (%s). +%d pts, -%d penalty.", mode, res.TotalEarned, res.Penalty)
		payload := &model.EventPayload{PointChange: res.TotalEarned - res.Penalty}
		if _, err := s.events.Append(ctx, tree.ID, model.EventKindEvaluation, desc, payload); err != nil {
			return err
		}

		if res.BecameFullTree {
			log.Info().Int64("tree_id", tree.ID).Msg("Tree reached full_tree stage")
		}

		return nil
	})
}

// injectWeather draws one catalog event per tree, applies its point delta,
// and records the narrative entry. Runs strictly after the evaluation pass
// so the delta is additive to the round's points. Per-tree failures are
// logged and skipped like evaluation failures.
func (s *Scheduler) injectWeather(ctx context.Context, trees []*model.Tree) {
	for _, tree := range trees {
		if ctx.Err() != nil {
			return
		}

		treeID := tree.ID
		err := s.locks.WithLock(treeID, func() error {
			// Re-read: the evaluation pass just rewrote the metadata.
			current, err := s.trees.GetByID(ctx, treeID)
			if err != nil {
				return err
			}

			ev := weather.Pick(s.rng)
			points, delta := weather.ApplyPoints(current.Meta.GrowthPoints, ev)

			meta := current.Meta
			meta.GrowthPoints = points
			if err := s.trees.UpdateMeta(ctx, treeID, meta); err != nil {
				return err
			}

			_, err = s.events.Append(ctx, treeID, ev.Name, weather.Describe(ev, delta), weather.Payload(ev, delta))
			return err
		})
		if err != nil {
			log.Error().Err(err).Int64("tree_id", treeID).Msg("Weather event injection failed")
		}
	}
}
