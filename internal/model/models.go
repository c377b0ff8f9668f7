// Package model defines the data models for the TendATree service.
package model

import "time"

// GrowthStage is one of the four ordered lifecycle states of a tree.
type GrowthStage string

// Growth stages in advancement order.
const (
	StageSeedling GrowthStage = "seedling"
	StageSprout   GrowthStage = "sprout"
	StageSapling  GrowthStage = "sapling"
	StageFullTree GrowthStage = "full_tree"
)

// StageOrder is the fixed advancement ordering. full_tree is terminal.
var StageOrder = []GrowthStage{StageSeedling, StageSprout, StageSapling, StageFullTree}

// Valid reports whether s is a known growth stage.
func (s GrowthStage) Valid() bool {
	for _, st := range StageOrder {
		if s == st {
			return true
		}
	}
	return false
}

// Care action kinds. One care log entry is recorded per action.
const (
	ActionWater    = "water"
	ActionSunlight = "sunlight"
	ActionFeed     = "feed"
	ActionLove     = "love"
)

// ActionKinds returns the four care dimensions in canonical order.
func ActionKinds() []string {
	return []string{ActionWater, ActionSunlight, ActionFeed, ActionLove}
}

// ValidAction reports whether kind is one of the four care dimensions.
func ValidAction(kind string) bool {
	for _, k := range ActionKinds() {
		if kind == k {
			return true
		}
	}
	return false
}

// Targets holds the per-dimension goals for the current round.
// A zero value on any dimension means the target was never drawn.
type Targets struct {
	Water    int `json:"water"`
	Sunlight int `json:"sunlight"`
	Feed     int `json:"feed"`
	Love     int `json:"love"`
}

// Set reports whether all four targets have been drawn.
func (t Targets) Set() bool {
	return t.Water > 0 && t.Sunlight > 0 && t.Feed > 0 && t.Love > 0
}

// ActionCounts holds per-dimension care log counts for a round window.
type ActionCounts struct {
	Water    int `json:"water"`
	Sunlight int `json:"sunlight"`
	Feed     int `json:"feed"`
	Love     int `json:"love"`
}

// Total returns the sum across all four dimensions.
func (c ActionCounts) Total() int {
	return c.Water + c.Sunlight + c.Feed + c.Love
}

// RoundMeta is the round bookkeeping embedded in a tree record.
// It is persisted as a JSONB blob and parsed defensively at the repository
// boundary; a malformed blob decodes to the zero value and the evaluator
// synthesizes safe defaults from it.
type RoundMeta struct {
	GrowthPoints   int       `json:"growth_points"`
	Targets        Targets   `json:"targets"`
	LastEvaluation time.Time `json:"last_evaluation"`
	LastActivity   time.Time `json:"last_user_activity"`
	Health         string    `json:"health"`
}

// Tree is a user's virtual tree. Created at registration, mutated only by
// the round evaluator and the weather injector.
type Tree struct {
	ID        int64       `db:"id"`
	OwnerID   int64       `db:"owner_id"`
	SpeciesID int64       `db:"species_id"`
	Stage     GrowthStage `db:"growth_stage"`
	Meta      RoundMeta   `db:"metadata"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

// User is a registered account. Identity is resolved from the opaque API
// token; credential verification lives outside this service.
type User struct {
	ID          int64     `db:"id"`
	Email       string    `db:"email"`
	DisplayName string    `db:"display_name"`
	Role        string    `db:"role"`
	APIToken    string    `db:"api_token"`
	CreatedAt   time.Time `db:"created_at"`
}

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Species is a catalog entry for tree species reference data.
type Species struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
}

// CareParameter is a single named per-species tuning value.
type CareParameter struct {
	ID        int64  `db:"id"`
	SpeciesID int64  `db:"species_id"`
	Name      string `db:"param_name"`
	Value     string `db:"param_value"`
}

// CareLog is an append-only record of one care action. Immutable once
// written; the evaluator only reads entries at or after a tree's last
// evaluation timestamp.
type CareLog struct {
	ID        int64     `db:"id"`
	TreeID    int64     `db:"tree_id"`
	Action    string    `db:"action"`
	Actor     string    `db:"actor"`
	CreatedAt time.Time `db:"created_at"`
}

// EventKindEvaluation marks round-summary events; weather events use the
// catalog entry name as their kind.
const EventKindEvaluation = "evaluation"

// EventPayload is the structured portion of a narrative tree event,
// persisted as JSONB for client display. Modifiers are informational only.
type EventPayload struct {
	Emoji            string `json:"emoji,omitempty"`
	HealthImpact     string `json:"health_impact,omitempty"`
	WaterModifier    int    `json:"water_modifier"`
	SunlightModifier int    `json:"sunlight_modifier"`
	FeedModifier     int    `json:"feed_modifier"`
	LoveModifier     int    `json:"love_modifier"`
	PointChange      int    `json:"point_change"`
}

// TreeEvent is an append-only narrative log entry, written only by the
// evaluation scheduler and the weather injector.
type TreeEvent struct {
	ID          int64         `db:"id"`
	TreeID      int64         `db:"tree_id"`
	Kind        string        `db:"event_type"`
	Description string        `db:"description"`
	Payload     *EventPayload `db:"metadata"`
	CreatedAt   time.Time     `db:"created_at"`
}

// Health tags carried in round metadata and weather events.
const (
	HealthPositive = "positive"
	HealthNegative = "negative"
	HealthNeutral  = "neutral"
	HealthHealthy  = "healthy"
)
