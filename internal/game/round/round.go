// Package round implements the growth-evaluation scoring engine: per-round
// care counts are compared against hidden randomized targets, points are
// awarded with a precision bonus, inactivity is penalized, and accumulated
// points advance the tree through its growth stages.
package round

import (
	"math/rand"
	"time"

	"tendatree/internal/model"
)

// Scoring constants.
const (
	TargetMin = 1  // Lowest drawable per-dimension target
	TargetMax = 15 // Highest drawable per-dimension target

	PrecisionBonus = 25 // Awarded when a dimension count hits its target exactly

	StageCost = 100 // Points consumed by one stage advance

	PenaltyPerBlock = 5                   // Points deducted per complete inactivity block
	InactivityBlock = 12 * time.Hour      // Inactivity block size
	LookbackFloor   = 12*time.Hour + time.Second // Window start for trees with no prior evaluation
)

// Input is everything the evaluator needs to score one tree's round.
type Input struct {
	Now            time.Time
	Stage          model.GrowthStage
	Points         int
	Targets        model.Targets // zero-valued dimensions trigger a fresh draw
	LastEvaluation time.Time     // zero means no prior evaluation
	LastActivity   time.Time     // zero means treat as Now (no penalty)
	Counts         model.ActionCounts
}

// Result is the outcome of evaluating one round for one tree.
type Result struct {
	Targets       model.Targets      // targets the round was scored against
	Earned        model.ActionCounts // per-dimension points awarded
	TotalEarned   int
	Penalty       int
	NewPoints     int
	NewTargets    model.Targets // freshly drawn for the next round
	Stage         model.GrowthStage
	StageAdvanced bool
	BecameFullTree bool // first arrival at full_tree, a client-visible milestone
}

// DrawTargets draws four independent uniform targets in [TargetMin, TargetMax].
func DrawTargets(rng *rand.Rand) model.Targets {
	return model.Targets{
		Water:    drawTarget(rng),
		Sunlight: drawTarget(rng),
		Feed:     drawTarget(rng),
		Love:     drawTarget(rng),
	}
}

// fillTargets draws a fresh target for each dimension that was never
// drawn, keeping stored dimensions untouched.
func fillTargets(t model.Targets, rng *rand.Rand) model.Targets {
	if t.Water < TargetMin {
		t.Water = drawTarget(rng)
	}
	if t.Sunlight < TargetMin {
		t.Sunlight = drawTarget(rng)
	}
	if t.Feed < TargetMin {
		t.Feed = drawTarget(rng)
	}
	if t.Love < TargetMin {
		t.Love = drawTarget(rng)
	}
	return t
}

// drawTarget draws one target. A nil rng falls back to the package-level
// math/rand source, which is safe for concurrent use.
func drawTarget(rng *rand.Rand) int {
	if rng == nil {
		return rand.Intn(TargetMax-TargetMin+1) + TargetMin
	}
	return rng.Intn(TargetMax-TargetMin+1) + TargetMin
}

// ScoreDimension awards points for one care dimension: the precision bonus
// on an exact target hit, otherwise one point per action. A target of zero
// (never drawn) can never match, so activity still earns its count.
func ScoreDimension(count, target int) int {
	if target >= TargetMin && count == target {
		return PrecisionBonus
	}
	return count
}

// Score awards points for all four dimensions against the given targets.
func Score(counts model.ActionCounts, targets model.Targets) (model.ActionCounts, int) {
	earned := model.ActionCounts{
		Water:    ScoreDimension(counts.Water, targets.Water),
		Sunlight: ScoreDimension(counts.Sunlight, targets.Sunlight),
		Feed:     ScoreDimension(counts.Feed, targets.Feed),
		Love:     ScoreDimension(counts.Love, targets.Love),
	}
	return earned, earned.Total()
}

// InactivityPenalty computes the deduction for elapsed time since the last
// recorded care action: PenaltyPerBlock per complete 12-hour block once more
// than one block has elapsed, capped at the tree's pre-round point total so
// points can never go negative.
func InactivityPenalty(now, lastActivity time.Time, points int) int {
	if lastActivity.IsZero() || !now.After(lastActivity) {
		return 0
	}
	// Elapsed time is floored to whole hours before blocks are counted,
	// so the penalty starts at 13h, not 12h1s.
	blockHours := int(InactivityBlock.Hours())
	hours := int(now.Sub(lastActivity).Hours())
	if hours <= blockHours {
		return 0
	}
	penalty := (hours / blockHours) * PenaltyPerBlock
	if penalty > points {
		penalty = points
	}
	return penalty
}

// WindowStart returns the lookback start for a round: the previous round's
// evaluation timestamp, or the 12-hour floor when no prior evaluation exists.
// Round windows are contiguous: each round starts where the last one ended.
func WindowStart(lastEvaluation, now time.Time) time.Time {
	if lastEvaluation.IsZero() {
		return now.Add(-LookbackFloor)
	}
	return lastEvaluation
}

// Evaluate computes the round outcome for a single tree. Pure function of
// its inputs and the provided random source; persistence is the caller's
// concern.
func Evaluate(in Input, rng *rand.Rand) Result {
	// Legacy or partial records: any dimension never drawn gets a fresh
	// target; stored dimensions score as they are.
	targets := fillTargets(in.Targets, rng)

	earned, total := Score(in.Counts, targets)
	penalty := InactivityPenalty(in.Now, in.LastActivity, in.Points)

	points := in.Points - penalty + total
	if points < 0 {
		points = 0
	}

	prevStage := in.Stage
	if !prevStage.Valid() {
		prevStage = model.StageSeedling
	}
	stage, points, advanced := AdvanceStage(prevStage, points)

	return Result{
		Targets:        targets,
		Earned:         earned,
		TotalEarned:    total,
		Penalty:        penalty,
		NewPoints:      points,
		NewTargets:     DrawTargets(rng),
		Stage:          stage,
		StageAdvanced:  advanced,
		BecameFullTree: advanced && stage == model.StageFullTree && prevStage != model.StageFullTree,
	}
}
