package entity

import (
	"github.com/samdwyer/strikeband/internal/gamedata"
)

const (
	// MaxHealth is the health every agent starts a round with.
	MaxHealth = 100
	// MaxArmor is the armor value granted by a kevlar purchase.
	MaxArmor = 100
)

// Skills holds an agent's six skill dimensions, each in [0,1].
type Skills struct {
	Aim         float64
	Reaction    float64
	Positioning float64
	Utility     float64
	Leadership  float64
	Clutch      float64
}

// MatchStats accumulates an agent's combat statistics across a match.
type MatchStats struct {
	Kills         int
	Deaths        int
	Assists       int
	UtilityDamage int
	FlashAssists  int
}

// StrategyStats tracks how well an agent is executing the active strategy.
type StrategyStats struct {
	UtilityUsage      int     // Consumables used this match
	PositioningScore  float64 // 1 at the tactic target, 0 far away
	StrategyAdherence float64 // Running average of positioning score
	ImpactRating      float64 // Composite combat + adherence score
	adherenceSamples  int
}

// RecordPositioning folds a fresh positioning score into the running
// adherence average.
func (s *StrategyStats) RecordPositioning(score float64) {
	s.PositioningScore = score
	s.adherenceSamples++
	s.StrategyAdherence += (score - s.StrategyAdherence) / float64(s.adherenceSamples)
}

// Agent represents a single combatant on a team roster.
type Agent struct {
	ID       string
	Name     string
	Side     Side
	Role     Role
	Position gamedata.Position
	Health   int
	Armor    int
	Alive    bool

	Weapons   []string // Weapon IDs, primary first
	Equipment []string // Equipment IDs

	Skills   Skills
	Stats    MatchStats
	Strategy StrategyStats
}

// ApplyDamage reduces health, clamping to [0,MaxHealth], and marks the
// agent dead at zero. Returns the damage actually applied.
func (a *Agent) ApplyDamage(amount int) int {
	if amount <= 0 || !a.Alive {
		return 0
	}
	actual := amount
	if actual > a.Health {
		actual = a.Health
	}
	a.Health -= actual
	if a.Health <= 0 {
		a.Health = 0
		a.Alive = false
	}
	return actual
}

// HasArmor reports whether the agent has armor remaining.
func (a *Agent) HasArmor() bool {
	return a.Armor > 0
}

// PrimaryWeapon returns the agent's first weapon ID, or "" when unarmed.
func (a *Agent) PrimaryWeapon() string {
	if len(a.Weapons) == 0 {
		return ""
	}
	return a.Weapons[0]
}

// HasEquipment reports whether the agent carries the given item.
func (a *Agent) HasEquipment(id string) bool {
	return containsString(a.Equipment, id)
}

// ConsumeEquipment removes one instance of the given item, returning
// false if the agent does not carry it.
func (a *Agent) ConsumeEquipment(id string) bool {
	for i, item := range a.Equipment {
		if item == id {
			a.Equipment = append(a.Equipment[:i], a.Equipment[i+1:]...)
			a.Strategy.UtilityUsage++
			return true
		}
	}
	return false
}

// ResetForRound restores the agent to round-start condition at the given
// spawn position. Weapons and money survive between rounds; health,
// armor, and liveness do not carry debts forward.
func (a *Agent) ResetForRound(spawn gamedata.Position) {
	a.Health = MaxHealth
	a.Armor = 0
	a.Alive = true
	a.Position = spawn
	a.Strategy.PositioningScore = 0
}

// RecomputeImpactRating blends combat output with strategy adherence.
// Rounds played must be at least 1.
func (a *Agent) RecomputeImpactRating(roundsPlayed int) {
	if roundsPlayed < 1 {
		roundsPlayed = 1
	}
	combat := float64(2*a.Stats.Kills+a.Stats.Assists-a.Stats.Deaths) / float64(3*roundsPlayed)
	if combat < 0 {
		combat = 0
	}
	if combat > 1 {
		combat = 1
	}
	a.Strategy.ImpactRating = combat*0.7 + a.Strategy.StrategyAdherence*0.3
}

func containsString(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}
