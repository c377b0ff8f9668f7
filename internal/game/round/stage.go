package round

import "tendatree/internal/model"

// NextStage returns the stage one step after s in the fixed ordering.
// full_tree is terminal and returns itself. Unknown stages are treated
// as seedling so a corrupted record re-enters the ladder at the bottom.
func NextStage(s model.GrowthStage) model.GrowthStage {
	for i, st := range model.StageOrder {
		if st == s {
			if i == len(model.StageOrder)-1 {
				return st
			}
			return model.StageOrder[i+1]
		}
	}
	return model.StageSeedling
}

// AdvanceStage consumes accumulated points into at most one stage step.
// When points reach StageCost the stage moves exactly one step forward and
// the cost is subtracted; the remainder is carried, never spent on further
// advances in the same round. Returns the new stage, remaining points, and
// whether an advance happened.
func AdvanceStage(stage model.GrowthStage, points int) (model.GrowthStage, int, bool) {
	if !stage.Valid() {
		stage = model.StageSeedling
	}
	if points < StageCost {
		return stage, points, false
	}
	next := NextStage(stage)
	return next, points - StageCost, next != stage
}
