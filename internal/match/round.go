package match

import (
	"time"

	"github.com/samdwyer/strikeband/internal/entity"
)

// MidRoundCall is a transient tactical override issued during live play.
// It expires automatically at its deadline, checked inside the tick loop.
type MidRoundCall struct {
	Side      entity.Side   `json:"side"`
	Waypoint  string        `json:"waypoint"`
	ExpiresAt time.Duration `json:"expiresAt"` // Sim time
}

// RoundState holds everything about the round in progress. It is
// replaced wholesale when a new round starts.
type RoundState struct {
	Number      int
	Phase       Phase
	TimeLeft    time.Duration
	BombPlanted bool
	BombSite    string
	PlantedAt   time.Duration
	Winner      entity.Side
	Reason      string

	Strategies map[entity.Side]string
	Call       *MidRoundCall

	startedAt time.Duration // Sim time the round went live
}

// Outcome is the immutable summary of a finished round, accumulated for
// strategy success-rate aggregation.
type Outcome struct {
	Round      int                    `json:"round"`
	Winner     entity.Side            `json:"winner"`
	Reason     string                 `json:"reason"`
	Strategies map[entity.Side]string `json:"strategies"`
	Kills      int                    `json:"kills"`
	Objective  bool                   `json:"objective"` // Bomb planted or defused
	Duration   time.Duration          `json:"duration"`
}

// TimerResult describes what a timer advance did.
type TimerResult int

const (
	// TimerRunning means the phase is unchanged.
	TimerRunning TimerResult = iota
	// TimerPhaseChanged means the round moved to its next phase.
	TimerPhaseChanged
	// TimerRoundEnded means the round just ended (timeout or detonation).
	TimerRoundEnded
	// TimerRoundOver means the post-round delay has elapsed.
	TimerRoundOver
)

// RoundEngine owns the round phase state machine, its timers, the bomb,
// and the round outcome history. Invalid transition requests are no-ops.
type RoundEngine struct {
	state   RoundState
	history []Outcome
}

// NewRoundEngine creates a round engine with both sides on the initial
// strategy and round one waiting in warmup.
func NewRoundEngine(initialStrategy string) *RoundEngine {
	return &RoundEngine{
		state: RoundState{
			Number:   1,
			Phase:    PhaseWarmup,
			TimeLeft: WarmupTime,
			Strategies: map[entity.Side]string{
				entity.SideT:  initialStrategy,
				entity.SideCT: initialStrategy,
			},
		},
	}
}

// State returns the live round state. Callers outside the orchestrator
// must treat it as read-only.
func (r *RoundEngine) State() *RoundState {
	return &r.state
}

// History returns the accumulated round outcomes.
func (r *RoundEngine) History() []Outcome {
	return r.history
}

// AdvanceTimer moves the round clock forward by elapsed and applies at
// most one phase transition, which guards against cascading through
// several phases in a single oversized tick.
func (r *RoundEngine) AdvanceTimer(elapsed, now time.Duration) TimerResult {
	r.state.TimeLeft -= elapsed
	if r.state.TimeLeft > 0 {
		return TimerRunning
	}
	r.state.TimeLeft = 0

	switch r.state.Phase {
	case PhaseWarmup:
		r.state.Phase = PhaseFreezetime
		r.state.TimeLeft = FreezeTime
		return TimerPhaseChanged
	case PhaseFreezetime:
		r.state.Phase = PhaseLive
		r.state.TimeLeft = RoundTime
		r.state.startedAt = now
		return TimerPhaseChanged
	case PhaseLive:
		// Defenders hold until the clock runs out.
		r.endRound(entity.SideCT, ReasonTimeout)
		return TimerRoundEnded
	case PhasePlanted:
		r.endRound(entity.SideT, ReasonDetonation)
		return TimerRoundEnded
	case PhaseEnded:
		return TimerRoundOver
	default:
		return TimerRunning
	}
}

// PlantBomb transitions live play to the planted phase. A no-op outside
// the live phase.
func (r *RoundEngine) PlantBomb(site string, now time.Duration) bool {
	if r.state.Phase != PhaseLive {
		return false
	}
	r.state.Phase = PhasePlanted
	r.state.TimeLeft = BombTime
	r.state.BombPlanted = true
	r.state.BombSite = site
	r.state.PlantedAt = now
	return true
}

// DefuseBomb ends a planted round in the defenders' favor. A no-op
// outside the planted phase.
func (r *RoundEngine) DefuseBomb() bool {
	if r.state.Phase != PhasePlanted {
		return false
	}
	r.endRound(entity.SideCT, ReasonDefusal)
	return true
}

// EndRound force-ends live or planted play, used for elimination wins.
// A no-op once the round has already ended.
func (r *RoundEngine) EndRound(winner entity.Side, reason string) bool {
	if r.state.Phase != PhaseLive && r.state.Phase != PhasePlanted {
		return false
	}
	r.endRound(winner, reason)
	return true
}

func (r *RoundEngine) endRound(winner entity.Side, reason string) {
	r.state.Phase = PhaseEnded
	r.state.TimeLeft = PostRoundTime
	r.state.Winner = winner
	r.state.Reason = reason
	r.state.Call = nil
}

// SetStrategy assigns a side's strategy. Legal only during freezetime.
func (r *RoundEngine) SetStrategy(side entity.Side, key string) bool {
	if r.state.Phase != PhaseFreezetime || !side.Valid() {
		return false
	}
	r.state.Strategies[side] = key
	return true
}

// Strategy returns the side's active strategy key.
func (r *RoundEngine) Strategy(side entity.Side) string {
	return r.state.Strategies[side]
}

// MakeCall issues a mid-round call for a side. Legal only while live;
// the call expires CallLifetime after now.
func (r *RoundEngine) MakeCall(side entity.Side, waypoint string, now time.Duration) bool {
	if r.state.Phase != PhaseLive || !side.Valid() {
		return false
	}
	r.state.Call = &MidRoundCall{
		Side:      side,
		Waypoint:  waypoint,
		ExpiresAt: now + CallLifetime,
	}
	return true
}

// ExpireCall clears the active call once its deadline passes, reporting
// whether it did so. Called from the tick loop, never from a timer.
func (r *RoundEngine) ExpireCall(now time.Duration) bool {
	if r.state.Call == nil || now < r.state.Call.ExpiresAt {
		return false
	}
	r.state.Call = nil
	return true
}

// CallFor returns the active call waypoint for a side, or "".
func (r *RoundEngine) CallFor(side entity.Side) string {
	if r.state.Call == nil || r.state.Call.Side != side {
		return ""
	}
	return r.state.Call.Waypoint
}

// RecordOutcome appends the finished round to the history. The kill
// count is supplied by the orchestrator, which owns the event log.
func (r *RoundEngine) RecordOutcome(kills int, now time.Duration) Outcome {
	strategies := map[entity.Side]string{
		entity.SideT:  r.state.Strategies[entity.SideT],
		entity.SideCT: r.state.Strategies[entity.SideCT],
	}
	duration := now - r.state.startedAt
	if r.state.startedAt == 0 || duration < 0 {
		duration = 0
	}
	outcome := Outcome{
		Round:      r.state.Number,
		Winner:     r.state.Winner,
		Reason:     r.state.Reason,
		Strategies: strategies,
		Kills:      kills,
		Objective:  r.state.BombPlanted,
		Duration:   duration,
	}
	r.history = append(r.history, outcome)
	return outcome
}

// StartNextRound replaces the round state wholesale, carrying the
// active strategies forward and incrementing the round counter.
func (r *RoundEngine) StartNextRound() {
	r.state = RoundState{
		Number:   r.state.Number + 1,
		Phase:    PhaseFreezetime,
		TimeLeft: FreezeTime,
		Strategies: map[entity.Side]string{
			entity.SideT:  r.state.Strategies[entity.SideT],
			entity.SideCT: r.state.Strategies[entity.SideCT],
		},
	}
}
