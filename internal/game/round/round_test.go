package round

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tendatree/internal/model"
)

func TestScoreDimension(t *testing.T) {
	tests := []struct {
		name   string
		count  int
		target int
		want   int
	}{
		{"exact hit earns bonus", 5, 5, PrecisionBonus},
		{"undershoot earns count", 1, 3, 1},
		{"overshoot earns count", 9, 7, 9},
		{"zero count zero points", 0, 2, 0},
		{"zero target never matches", 0, 0, 0},
		{"activity against unset target earns count", 4, 0, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreDimension(tt.count, tt.target))
		})
	}
}

func TestScoreMixedRound(t *testing.T) {
	// Two exact hits, one undershoot, one miss at zero.
	targets := model.Targets{Water: 5, Sunlight: 3, Feed: 7, Love: 2}
	counts := model.ActionCounts{Water: 5, Sunlight: 1, Feed: 7, Love: 0}

	earned, total := Score(counts, targets)

	assert.Equal(t, PrecisionBonus, earned.Water)
	assert.Equal(t, 1, earned.Sunlight)
	assert.Equal(t, PrecisionBonus, earned.Feed)
	assert.Equal(t, 0, earned.Love)
	assert.Equal(t, 51, total)
}

func TestInactivityPenalty(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		lastActivity time.Time
		points       int
		want         int
	}{
		{"zero activity no penalty", time.Time{}, 50, 0},
		{"recent activity no penalty", now.Add(-2 * time.Hour), 50, 0},
		{"exactly twelve hours no penalty", now.Add(-12 * time.Hour), 50, 0},
		{"twelve and a half hours still no penalty", now.Add(-12*time.Hour - 30*time.Minute), 50, 0},
		{"thirteen hours one block", now.Add(-13 * time.Hour), 50, 5},
		{"thirty hours two blocks", now.Add(-30 * time.Hour), 40, 10},
		{"five days ten blocks", now.Add(-120 * time.Hour), 100, 50},
		{"penalty capped at points", now.Add(-120 * time.Hour), 8, 8},
		{"future activity no penalty", now.Add(time.Hour), 50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InactivityPenalty(now, tt.lastActivity, tt.points))
		})
	}
}

func TestWindowStart(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("no prior evaluation uses lookback floor", func(t *testing.T) {
		got := WindowStart(time.Time{}, now)
		assert.Equal(t, now.Add(-LookbackFloor), got)
	})

	t.Run("prior evaluation starts the window", func(t *testing.T) {
		prev := now.Add(-45 * time.Minute)
		assert.Equal(t, prev, WindowStart(prev, now))
	})
}

func TestEvaluateMixedRound(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(1))

	res := Evaluate(Input{
		Now:            now,
		Stage:          model.StageSprout,
		Points:         10,
		Targets:        model.Targets{Water: 5, Sunlight: 3, Feed: 7, Love: 2},
		LastEvaluation: now.Add(-time.Hour),
		LastActivity:   now.Add(-time.Hour),
		Counts:         model.ActionCounts{Water: 5, Sunlight: 1, Feed: 7, Love: 0},
	}, rng)

	assert.Equal(t, 51, res.TotalEarned)
	assert.Equal(t, 0, res.Penalty)
	assert.Equal(t, 61, res.NewPoints)
	assert.Equal(t, model.StageSprout, res.Stage)
	assert.False(t, res.StageAdvanced)
	assert.True(t, res.NewTargets.Set())
}

func TestEvaluateStageAdvance(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(1))

	// 80 banked points plus a 51-point round crosses the threshold once.
	res := Evaluate(Input{
		Now:            now,
		Stage:          model.StageSprout,
		Points:         80,
		Targets:        model.Targets{Water: 5, Sunlight: 3, Feed: 7, Love: 2},
		LastEvaluation: now.Add(-time.Hour),
		LastActivity:   now.Add(-time.Hour),
		Counts:         model.ActionCounts{Water: 5, Sunlight: 1, Feed: 7, Love: 0},
	}, rng)

	assert.Equal(t, 131-StageCost, res.NewPoints)
	assert.Equal(t, model.StageSapling, res.Stage)
	assert.True(t, res.StageAdvanced)
	assert.False(t, res.BecameFullTree)
}

func TestEvaluateInactivityPenaltyApplied(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(1))

	// 30 hours idle: two complete blocks, 10 points deducted before the
	// round's 10 earned points are added back.
	res := Evaluate(Input{
		Now:            now,
		Stage:          model.StageSeedling,
		Points:         40,
		Targets:        model.Targets{Water: 5, Sunlight: 3, Feed: 7, Love: 2},
		LastEvaluation: now.Add(-time.Hour),
		LastActivity:   now.Add(-30 * time.Hour),
		Counts:         model.ActionCounts{Water: 4, Sunlight: 2, Feed: 4, Love: 0},
	}, rng)

	assert.Equal(t, 10, res.TotalEarned)
	assert.Equal(t, 10, res.Penalty)
	assert.Equal(t, 40, res.NewPoints)
	assert.Equal(t, model.StageSeedling, res.Stage)
}

func TestEvaluateEmptyWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(1))

	res := Evaluate(Input{
		Now:            now,
		Stage:          model.StageSeedling,
		Points:         12,
		Targets:        model.Targets{Water: 5, Sunlight: 3, Feed: 7, Love: 2},
		LastEvaluation: now.Add(-time.Hour),
		LastActivity:   now.Add(-time.Hour),
	}, rng)

	assert.Equal(t, 0, res.TotalEarned)
	assert.Equal(t, 0, res.Penalty)
	assert.Equal(t, 12, res.NewPoints)
}

func TestEvaluateDrawsTargetsForUninitializedRecord(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(1))

	res := Evaluate(Input{
		Now:          now,
		Stage:        model.StageSeedling,
		LastActivity: now,
		Counts:       model.ActionCounts{Water: 3},
	}, rng)

	require.True(t, res.Targets.Set())
	assert.True(t, res.NewTargets.Set())
	assert.GreaterOrEqual(t, res.NewPoints, 0)
}

func TestEvaluateFillsMissingTargetDimension(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(1))

	// Only the sunlight target is missing; the other three must score
	// against their stored values.
	res := Evaluate(Input{
		Now:            now,
		Stage:          model.StageSeedling,
		Points:         0,
		Targets:        model.Targets{Water: 5, Sunlight: 0, Feed: 7, Love: 2},
		LastEvaluation: now.Add(-time.Hour),
		LastActivity:   now.Add(-time.Hour),
		Counts:         model.ActionCounts{Water: 5, Sunlight: 0, Feed: 7, Love: 2},
	}, rng)

	assert.Equal(t, 5, res.Targets.Water)
	assert.Equal(t, 7, res.Targets.Feed)
	assert.Equal(t, 2, res.Targets.Love)
	assert.GreaterOrEqual(t, res.Targets.Sunlight, TargetMin)
	assert.LessOrEqual(t, res.Targets.Sunlight, TargetMax)

	assert.Equal(t, PrecisionBonus, res.Earned.Water)
	assert.Equal(t, PrecisionBonus, res.Earned.Feed)
	assert.Equal(t, PrecisionBonus, res.Earned.Love)
}

func TestEvaluateFullTreeTerminal(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(1))

	// A full-grown tree still spends the threshold but never advances.
	res := Evaluate(Input{
		Now:            now,
		Stage:          model.StageFullTree,
		Points:         120,
		Targets:        model.Targets{Water: 5, Sunlight: 3, Feed: 7, Love: 2},
		LastEvaluation: now.Add(-time.Hour),
		LastActivity:   now.Add(-time.Hour),
	}, rng)

	assert.Equal(t, model.StageFullTree, res.Stage)
	assert.False(t, res.StageAdvanced)
	assert.False(t, res.BecameFullTree)
	assert.Equal(t, 20, res.NewPoints)
}

func TestEvaluateBecameFullTree(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(1))

	res := Evaluate(Input{
		Now:            now,
		Stage:          model.StageSapling,
		Points:         99,
		Targets:        model.Targets{Water: 5, Sunlight: 3, Feed: 7, Love: 2},
		LastEvaluation: now.Add(-time.Hour),
		LastActivity:   now.Add(-time.Hour),
		Counts:         model.ActionCounts{Water: 1},
	}, rng)

	assert.Equal(t, model.StageFullTree, res.Stage)
	assert.True(t, res.StageAdvanced)
	assert.True(t, res.BecameFullTree)
	assert.Equal(t, 0, res.NewPoints)
}

func TestNextStage(t *testing.T) {
	tests := []struct {
		in   model.GrowthStage
		want model.GrowthStage
	}{
		{model.StageSeedling, model.StageSprout},
		{model.StageSprout, model.StageSapling},
		{model.StageSapling, model.StageFullTree},
		{model.StageFullTree, model.StageFullTree},
		{model.GrowthStage("bonsai"), model.StageSeedling},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NextStage(tt.in), "NextStage(%s)", tt.in)
	}
}

func TestAdvanceStage(t *testing.T) {
	t.Run("below threshold keeps stage and points", func(t *testing.T) {
		stage, points, advanced := AdvanceStage(model.StageSprout, 99)
		assert.Equal(t, model.StageSprout, stage)
		assert.Equal(t, 99, points)
		assert.False(t, advanced)
	})

	t.Run("at threshold advances one step and carries remainder", func(t *testing.T) {
		stage, points, advanced := AdvanceStage(model.StageSprout, 137)
		assert.Equal(t, model.StageSapling, stage)
		assert.Equal(t, 37, points)
		assert.True(t, advanced)
	})

	t.Run("single step even with excess points", func(t *testing.T) {
		stage, points, advanced := AdvanceStage(model.StageSeedling, 250)
		assert.Equal(t, model.StageSprout, stage)
		assert.Equal(t, 150, points)
		assert.True(t, advanced)
	})

	t.Run("invalid stage resets to seedling", func(t *testing.T) {
		stage, points, advanced := AdvanceStage(model.GrowthStage("weed"), 10)
		assert.Equal(t, model.StageSeedling, stage)
		assert.Equal(t, 10, points)
		assert.False(t, advanced)
	})
}

func TestDrawTargetsRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		targets := DrawTargets(rng)
		for _, v := range []int{targets.Water, targets.Sunlight, targets.Feed, targets.Love} {
			require.GreaterOrEqual(t, v, TargetMin)
			require.LessOrEqual(t, v, TargetMax)
		}
	}
}

func TestDrawTargetsNilSource(t *testing.T) {
	targets := DrawTargets(nil)
	assert.True(t, targets.Set())
}
