// Package weather implements the random event injector: after each
// scheduled evaluation cycle every tree draws one catalog event whose
// health impact nudges its growth points and leaves a narrative log entry.
package weather

import (
	"fmt"
	"math/rand"

	"tendatree/internal/model"
)

// Point deltas by health impact.
const (
	PositiveDelta = 5
	NegativeDelta = -5
)

// Pick selects one catalog event with uniform probability. A nil rng falls
// back to the package-level math/rand source.
func Pick(rng *rand.Rand) Event {
	if rng == nil {
		return Catalog[rand.Intn(len(Catalog))]
	}
	return Catalog[rng.Intn(len(Catalog))]
}

// PointDelta maps an event's health impact to its growth point effect.
func PointDelta(e Event) int {
	switch e.HealthImpact {
	case model.HealthPositive:
		return PositiveDelta
	case model.HealthNegative:
		return NegativeDelta
	}
	return 0
}

// ApplyPoints applies an event's point delta to a tree's growth points,
// clamped so the total never goes below zero.
func ApplyPoints(points int, e Event) (int, int) {
	delta := PointDelta(e)
	next := points + delta
	if next < 0 {
		next = 0
	}
	return next, delta
}

// Describe renders the narrative description for an injected event, with
// the signed point delta appended as in the client event log.
func Describe(e Event, delta int) string {
	return fmt.Sprintf("%s %+d points.", e.Description, delta)
}

// Payload builds the structured event payload stored for client display.
// The per-dimension modifiers are cosmetic: they are never fed back into
// the next round's care counts.
func Payload(e Event, delta int) *model.EventPayload {
	return &model.EventPayload{
		Emoji:            e.Emoji,
		HealthImpact:     e.HealthImpact,
		WaterModifier:    e.WaterModifier,
		SunlightModifier: e.SunlightModifier,
		FeedModifier:     e.FeedModifier,
		LoveModifier:     e.LoveModifier,
		PointChange:      delta,
	}
}
