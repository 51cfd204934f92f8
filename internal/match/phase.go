// Package match owns the round lifecycle state machine and the
// orchestrator that drives a full match simulation.
package match

import "time"

// Phase represents the current stage of a round's lifecycle.
type Phase int

const (
	// PhaseWarmup precedes the first round of a match.
	PhaseWarmup Phase = iota
	// PhaseFreezetime is the buy period; strategy changes are only legal here.
	PhaseFreezetime
	// PhaseLive is active play; mid-round calls are only legal here.
	PhaseLive
	// PhasePlanted means the bomb is down and the timer is the fuse.
	PhasePlanted
	// PhaseEnded holds the round result for the post-round delay.
	PhaseEnded
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseWarmup:
		return "warmup"
	case PhaseFreezetime:
		return "freezetime"
	case PhaseLive:
		return "live"
	case PhasePlanted:
		return "planted"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Round timing constants. The loop ticks once per second, so all of
// these are whole seconds.
const (
	WarmupTime    = 5 * time.Second
	FreezeTime    = 15 * time.Second
	RoundTime     = 115 * time.Second
	BombTime      = 40 * time.Second
	PostRoundTime = 5 * time.Second
	CallLifetime  = 20 * time.Second
)

// Round end reasons.
const (
	ReasonTimeout      = "Time ran out"
	ReasonDetonation   = "Bomb detonated"
	ReasonDefusal      = "Bomb defused"
	ReasonTEliminated  = "Attackers eliminated"
	ReasonCTEliminated = "Defenders eliminated"
)
