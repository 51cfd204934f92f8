package entity

import (
	"math/rand"
	"testing"
)

func testNames() []string {
	return []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo", "Foxtrot"}
}

func TestBuildRoster(t *testing.T) {
	factory := NewFactory(rand.New(rand.NewSource(7)), testNames())
	roster := factory.BuildRoster(SideT, 1.0)

	if len(roster) != RosterSize {
		t.Fatalf("BuildRoster() returned %d agents, want %d", len(roster), RosterSize)
	}

	seenRoles := map[Role]bool{}
	seenIDs := map[string]bool{}
	for _, agent := range roster {
		if agent.Side != SideT {
			t.Errorf("agent %s side = %q, want %q", agent.Name, agent.Side, SideT)
		}
		if !agent.Alive || agent.Health != MaxHealth {
			t.Errorf("agent %s not spawned at full health", agent.Name)
		}
		if seenRoles[agent.Role] {
			t.Errorf("duplicate role %s in roster", agent.Role)
		}
		seenRoles[agent.Role] = true
		if seenIDs[agent.ID] {
			t.Errorf("duplicate agent ID %s", agent.ID)
		}
		seenIDs[agent.ID] = true
	}
}

func TestSkillsStayInRange(t *testing.T) {
	for _, difficulty := range []float64{0.7, 0.85, 1.0, 1.2} {
		factory := NewFactory(rand.New(rand.NewSource(42)), testNames())
		for _, agent := range factory.BuildRoster(SideCT, difficulty) {
			for name, v := range map[string]float64{
				"aim":         agent.Skills.Aim,
				"reaction":    agent.Skills.Reaction,
				"positioning": agent.Skills.Positioning,
				"utility":     agent.Skills.Utility,
				"leadership":  agent.Skills.Leadership,
				"clutch":      agent.Skills.Clutch,
			} {
				if v < 0 || v > 1 {
					t.Errorf("difficulty %v: %s = %v, want within [0,1]", difficulty, name, v)
				}
			}
		}
	}
}

func TestDifficultyScalesSkills(t *testing.T) {
	easy := NewFactory(rand.New(rand.NewSource(9)), testNames()).NewAgent(SideT, RoleEntry, 0.7)
	expert := NewFactory(rand.New(rand.NewSource(9)), testNames()).NewAgent(SideT, RoleEntry, 1.2)

	// Same seed, same raw draws; only the multiplier differs.
	if easy.Skills.Aim >= expert.Skills.Aim {
		t.Errorf("easy aim %v >= expert aim %v, want scaling", easy.Skills.Aim, expert.Skills.Aim)
	}
}

func TestNamePoolExhaustion(t *testing.T) {
	factory := NewFactory(rand.New(rand.NewSource(1)), []string{"Solo"})
	first := factory.NewAgent(SideT, RoleEntry, 1.0)
	second := factory.NewAgent(SideT, RoleAWPer, 1.0)

	if first.Name != "Solo" {
		t.Errorf("first name = %q, want Solo", first.Name)
	}
	if second.Name == "" || second.Name == "Solo" {
		t.Errorf("second name = %q, want generated fallback", second.Name)
	}
}
