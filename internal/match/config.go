package match

import (
	"fmt"
	"time"

	"github.com/samdwyer/strikeband/internal/entity"
)

// TickInterval is the canonical simulation step. The loop advances
// simulated time by exactly this much per tick; combat runs every
// CombatCadence ticks.
const (
	TickInterval  = time.Second
	CombatCadence = 2
	// EventLogCap bounds the append-only combat event log.
	EventLogCap = 256
)

// Difficulty names the supported bot skill levels.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

// SkillMultiplier maps difficulty to the factor applied to every skill
// dimension at roster generation.
func (d Difficulty) SkillMultiplier() float64 {
	switch d {
	case DifficultyEasy:
		return 0.7
	case DifficultyMedium:
		return 0.85
	case DifficultyExpert:
		return 1.2
	default:
		return 1.0
	}
}

// Valid reports whether the difficulty is a known level.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert:
		return true
	default:
		return false
	}
}

// Config carries match initialization parameters.
type Config struct {
	MaxRounds       int
	StartingSide    entity.Side // The side the player-managed team takes
	InitialStrategy string
	Difficulty      Difficulty
	Seed            int64 // 0 means derive from the wall clock

	// AutoBuy makes the orchestrator purchase loadouts for both teams at
	// freezetime, so a match can run unattended.
	AutoBuy bool
}

// Validate fails fast on configuration the match cannot run with.
func (c Config) Validate() error {
	if c.MaxRounds < 1 {
		return fmt.Errorf("maxRounds must be at least 1, got %d", c.MaxRounds)
	}
	if !c.StartingSide.Valid() {
		return fmt.Errorf("startingSide must be %q or %q, got %q", entity.SideT, entity.SideCT, c.StartingSide)
	}
	if c.InitialStrategy == "" {
		return fmt.Errorf("initialStrategy must not be empty")
	}
	if !c.Difficulty.Valid() {
		return fmt.Errorf("unknown difficulty %q", c.Difficulty)
	}
	return nil
}
