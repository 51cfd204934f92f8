package entity

import (
	"math/rand"

	"github.com/google/uuid"
)

// Factory generates agent rosters with role-biased skill vectors.
// It is stateless apart from the injected random source.
type Factory struct {
	rng   *rand.Rand
	names []string
	used  int
}

// NewFactory creates a factory drawing names from the given pool and
// randomness from the given source.
func NewFactory(rng *rand.Rand, names []string) *Factory {
	return &Factory{rng: rng, names: names}
}

// BuildRoster creates a full five-agent roster for a side, one agent per
// archetype. The difficulty multiplier scales every skill dimension.
func (f *Factory) BuildRoster(side Side, difficulty float64) []*Agent {
	roster := make([]*Agent, 0, RosterSize)
	for _, role := range AllRoles {
		roster = append(roster, f.NewAgent(side, role, difficulty))
	}
	return roster
}

// NewAgent creates a single agent with skills biased toward its role.
func (f *Factory) NewAgent(side Side, role Role, difficulty float64) *Agent {
	skills := Skills{
		Aim:         f.baseSkill(),
		Reaction:    f.baseSkill(),
		Positioning: f.baseSkill(),
		Utility:     f.baseSkill(),
		Leadership:  f.baseSkill(),
		Clutch:      f.baseSkill(),
	}

	switch role {
	case RoleEntry:
		skills.Aim += 0.15
		skills.Reaction += 0.15
	case RoleAWPer:
		skills.Aim += 0.2
		skills.Clutch += 0.1
	case RoleSupport:
		skills.Utility += 0.2
		skills.Positioning += 0.1
	case RoleLurker:
		skills.Clutch += 0.15
		skills.Positioning += 0.15
	case RoleIGL:
		skills.Leadership += 0.25
		skills.Positioning += 0.05
	}

	skills = skills.scaled(difficulty)

	agent := &Agent{
		ID:     uuid.NewString(),
		Name:   f.nextName(),
		Side:   side,
		Role:   role,
		Health: MaxHealth,
		Alive:  true,
		Skills: skills,
	}
	return agent
}

// baseSkill draws a raw skill value in [0.4, 0.8).
func (f *Factory) baseSkill() float64 {
	return 0.4 + f.rng.Float64()*0.4
}

// nextName picks the next unused name from the pool, falling back to a
// generated callsign when the pool is exhausted or empty.
func (f *Factory) nextName() string {
	if f.used < len(f.names) {
		name := f.names[f.used]
		f.used++
		return name
	}
	return "Recruit-" + uuid.NewString()[:8]
}

// scaled multiplies every dimension by the difficulty factor, clamping
// each to [0,1].
func (s Skills) scaled(factor float64) Skills {
	clamp := func(v float64) float64 {
		v *= factor
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 1
		}
		return v
	}
	return Skills{
		Aim:         clamp(s.Aim),
		Reaction:    clamp(s.Reaction),
		Positioning: clamp(s.Positioning),
		Utility:     clamp(s.Utility),
		Leadership:  clamp(s.Leadership),
		Clutch:      clamp(s.Clutch),
	}
}
