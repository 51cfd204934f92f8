// Package combat resolves engagements and utility effects between agents.
package combat

import (
	"time"

	"github.com/samdwyer/strikeband/internal/gamedata"
)

// EventKind tags the closed set of combat event variants.
type EventKind string

const (
	// EventKill records a death-dealing engagement.
	EventKill EventKind = "kill"
	// EventDamage records a non-lethal hit.
	EventDamage EventKind = "damage"
	// EventUtility records damage dealt by a thrown consumable.
	EventUtility EventKind = "utility"
	// EventTrade records a kill that avenged the attacker's own recent death.
	EventTrade EventKind = "trade"
)

// Event is an immutable record of a single combat outcome. Events are
// appended to a bounded log owned by the orchestrator.
type Event struct {
	Kind         EventKind         `json:"kind"`
	AttackerID   string            `json:"attackerId"`
	AttackerName string            `json:"attackerName"`
	VictimID     string            `json:"victimId,omitempty"`
	VictimName   string            `json:"victimName,omitempty"`
	Weapon       string            `json:"weapon,omitempty"`
	Damage       int               `json:"damage"`
	Headshot     bool              `json:"headshot,omitempty"`
	StrategyKill bool              `json:"strategyKill,omitempty"`
	TradeKill    bool              `json:"tradeKill,omitempty"`
	Wallbang     bool              `json:"wallbang,omitempty"`
	Position     gamedata.Position `json:"position"`
	Timestamp    time.Duration     `json:"timestamp"`
}
