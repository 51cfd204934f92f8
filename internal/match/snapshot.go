package match

import (
	"time"

	"github.com/samdwyer/strikeband/internal/combat"
	"github.com/samdwyer/strikeband/internal/entity"
	"github.com/samdwyer/strikeband/internal/gamedata"
)

// Status is the match lifecycle state.
type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
	StatusPaused  Status = "paused"
	StatusEnded   Status = "ended"
)

// MatchView is the immutable match-level slice of a snapshot.
type MatchView struct {
	ID        string              `json:"id"`
	Status    Status              `json:"status"`
	Round     int                 `json:"round"`
	MaxRounds int                 `json:"maxRounds"`
	Score     map[entity.Side]int `json:"score"`
	Winner    entity.Side         `json:"winner,omitempty"`
	StartedAt time.Time           `json:"startedAt,omitempty"`
	EndedAt   time.Time           `json:"endedAt,omitempty"`
}

// RoundView is the immutable round-level slice of a snapshot.
type RoundView struct {
	Number      int                    `json:"number"`
	Phase       string                 `json:"phase"`
	TimeLeft    float64                `json:"timeLeft"` // Seconds
	BombPlanted bool                   `json:"bombPlanted"`
	BombSite    string                 `json:"bombSite,omitempty"`
	Winner      entity.Side            `json:"winner,omitempty"`
	Reason      string                 `json:"reason,omitempty"`
	Strategies  map[entity.Side]string `json:"strategies"`
	Call        *MidRoundCall          `json:"call,omitempty"`
}

// AgentView is an immutable per-agent snapshot row.
type AgentView struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Role         string              `json:"role"`
	Position     gamedata.Position   `json:"position"`
	Health       int                 `json:"health"`
	Armor        int                 `json:"armor"`
	Alive        bool                `json:"alive"`
	Weapons      []string            `json:"weapons,omitempty"`
	Equipment    []string            `json:"equipment,omitempty"`
	Stats        entity.MatchStats   `json:"stats"`
	Positioning  float64             `json:"positioning"`
	Adherence    float64             `json:"adherence"`
	ImpactRating float64             `json:"impactRating"`
}

// TeamView is an immutable per-team snapshot row.
type TeamView struct {
	Side            entity.Side        `json:"side"`
	Name            string             `json:"name"`
	Money           int                `json:"money"`
	LossBonus       int                `json:"lossBonus"`
	RoundWins       int                `json:"roundWins"`
	Strategy        string             `json:"strategy"`
	Agents          []AgentView        `json:"agents"`
	StrategySuccess map[string]float64 `json:"strategySuccess"`
	LastSuccessful  string             `json:"lastSuccessful,omitempty"`
}

// Snapshot is the complete state value delivered to subscribers after
// every mutating operation. Consumers must treat it as read-only; all
// reference fields are copies.
type Snapshot struct {
	Match        MatchView                  `json:"match"`
	Round        RoundView                  `json:"round"`
	Teams        map[entity.Side]TeamView   `json:"teams"`
	History      []Outcome                  `json:"history"`
	Events       []combat.Event             `json:"events"`
	CombatResult []combat.Event             `json:"combatResult,omitempty"`
}

func newAgentView(a *entity.Agent) AgentView {
	return AgentView{
		ID:           a.ID,
		Name:         a.Name,
		Role:         a.Role.String(),
		Position:     a.Position,
		Health:       a.Health,
		Armor:        a.Armor,
		Alive:        a.Alive,
		Weapons:      append([]string(nil), a.Weapons...),
		Equipment:    append([]string(nil), a.Equipment...),
		Stats:        a.Stats,
		Positioning:  a.Strategy.PositioningScore,
		Adherence:    a.Strategy.StrategyAdherence,
		ImpactRating: a.Strategy.ImpactRating,
	}
}

func newTeamView(t *entity.Team) TeamView {
	agents := make([]AgentView, 0, len(t.Agents))
	for _, agent := range t.Agents {
		agents = append(agents, newAgentView(agent))
	}
	success := make(map[string]float64, len(t.StrategyStats))
	for key, record := range t.StrategyStats {
		success[key] = record.SuccessRate()
	}
	return TeamView{
		Side:            t.Side,
		Name:            t.Name,
		Money:           t.Money,
		LossBonus:       t.LossBonus,
		RoundWins:       t.RoundWins,
		Strategy:        t.Strategy,
		Agents:          agents,
		StrategySuccess: success,
		LastSuccessful:  t.LastSuccessful,
	}
}

func newRoundView(state *RoundState) RoundView {
	strategies := map[entity.Side]string{
		entity.SideT:  state.Strategies[entity.SideT],
		entity.SideCT: state.Strategies[entity.SideCT],
	}
	var call *MidRoundCall
	if state.Call != nil {
		c := *state.Call
		call = &c
	}
	return RoundView{
		Number:      state.Number,
		Phase:       state.Phase.String(),
		TimeLeft:    state.TimeLeft.Seconds(),
		BombPlanted: state.BombPlanted,
		BombSite:    state.BombSite,
		Winner:      state.Winner,
		Reason:      state.Reason,
		Strategies:  strategies,
		Call:        call,
	}
}
