package economy

import (
	"testing"

	"github.com/samdwyer/strikeband/internal/entity"
	"github.com/samdwyer/strikeband/internal/gamedata"
)

func newTestEngine(t *testing.T) *BuyEngine {
	t.Helper()
	weapons, err := gamedata.LoadWeaponRegistry()
	if err != nil {
		t.Fatalf("LoadWeaponRegistry() error = %v", err)
	}
	equipment, err := gamedata.LoadEquipmentRegistry()
	if err != nil {
		t.Fatalf("LoadEquipmentRegistry() error = %v", err)
	}
	return NewBuyEngine(weapons, equipment)
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}

func TestAWPerFullBuyGetsAWP(t *testing.T) {
	engine := newTestEngine(t)

	loadout := engine.AgentBuy(entity.RoleAWPer, 5000, TierFull, entity.SideCT)

	if !contains(loadout.Weapons, "awp") {
		t.Errorf("AWPer full buy weapons = %v, want awp", loadout.Weapons)
	}
	if loadout.TotalCost > 5000 {
		t.Errorf("TotalCost = %d, want <= 5000", loadout.TotalCost)
	}
}

func TestEcoBuySkipsArmorAndPrimary(t *testing.T) {
	engine := newTestEngine(t)

	loadout := engine.AgentBuy(entity.RoleEntry, 1500, TierEco, entity.SideT)

	for _, id := range loadout.Equipment {
		if id == "kevlar" || id == "helmet" {
			t.Errorf("eco buy bought armor: %v", loadout.Equipment)
		}
	}
	if len(loadout.Weapons) == 0 {
		t.Fatal("eco buy returned no weapons, want a pistol")
	}
	if loadout.TotalCost > 1500 {
		t.Errorf("TotalCost = %d, want <= 1500", loadout.TotalCost)
	}
}

func TestBuyNeverExceedsMoney(t *testing.T) {
	engine := newTestEngine(t)

	for _, role := range entity.AllRoles {
		for _, side := range []entity.Side{entity.SideT, entity.SideCT} {
			for _, tier := range []Tier{TierEco, TierSemi, TierFull} {
				for _, money := range []int{0, 150, 800, 2100, 4100, 9000, 16000} {
					loadout := engine.AgentBuy(role, money, tier, side)
					if loadout.TotalCost > money {
						t.Errorf("AgentBuy(%s, %d, %s, %s) cost %d exceeds money",
							role, money, tier, side, loadout.TotalCost)
					}
				}
			}
		}
	}
}

func TestSideRestrictedPurchases(t *testing.T) {
	engine := newTestEngine(t)

	tLoadout := engine.AgentBuy(entity.RoleSupport, 7000, TierFull, entity.SideT)
	if contains(tLoadout.Equipment, "defusekit") {
		t.Errorf("attacker bought defuse kit: %v", tLoadout.Equipment)
	}
	if contains(tLoadout.Weapons, "m4a4") {
		t.Errorf("attacker bought m4a4: %v", tLoadout.Weapons)
	}

	ctLoadout := engine.AgentBuy(entity.RoleEntry, 7000, TierFull, entity.SideCT)
	if contains(ctLoadout.Weapons, "ak47") {
		t.Errorf("defender bought ak47: %v", ctLoadout.Weapons)
	}
}

func TestSemiBuyPrefersSMG(t *testing.T) {
	engine := newTestEngine(t)

	loadout := engine.AgentBuy(entity.RoleEntry, 3000, TierSemi, entity.SideT)

	if len(loadout.Weapons) == 0 {
		t.Fatal("semi buy returned no weapons")
	}
	switch loadout.Weapons[0] {
	case "mac10", "mp9", "ump45":
	default:
		t.Errorf("semi buy primary = %q, want an SMG", loadout.Weapons[0])
	}
	if !contains(loadout.Equipment, "kevlar") {
		t.Errorf("semi buy equipment = %v, want kevlar", loadout.Equipment)
	}
}

func TestHelmetOnlyOnTopOfKevlar(t *testing.T) {
	engine := newTestEngine(t)

	// The SMG leaves 450: kevlar is out of reach, so the helmet must be
	// skipped too rather than bought on its own.
	loadout := engine.AgentBuy(entity.RoleEntry, 1500, TierSemi, entity.SideT)
	if contains(loadout.Equipment, "helmet") {
		t.Errorf("equipment = %v, want no helmet without kevlar", loadout.Equipment)
	}
	if contains(loadout.Equipment, "kevlar") {
		t.Errorf("equipment = %v, want no kevlar on a 450 remainder", loadout.Equipment)
	}

	loadout = engine.AgentBuy(entity.RoleEntry, 3000, TierSemi, entity.SideT)
	if !contains(loadout.Equipment, "kevlar") || !contains(loadout.Equipment, "helmet") {
		t.Errorf("equipment = %v, want kevlar and helmet together", loadout.Equipment)
	}
}

func TestPistolFallbackWhenPrimaryUnaffordable(t *testing.T) {
	engine := newTestEngine(t)

	// Not enough for any rifle or sniper, so the full buy falls back.
	loadout := engine.AgentBuy(entity.RoleAWPer, 900, TierFull, entity.SideT)

	if len(loadout.Weapons) == 0 {
		t.Fatal("no weapons bought, want pistol fallback")
	}
	primary := loadout.Weapons[0]
	if primary == "awp" || primary == "ak47" {
		t.Errorf("primary = %q, want a pistol with 900", primary)
	}
	if loadout.TotalCost > 900 {
		t.Errorf("TotalCost = %d, want <= 900", loadout.TotalCost)
	}
}

func TestTeamBuySplitsEvenly(t *testing.T) {
	engine := newTestEngine(t)

	factoryAgents := make([]*entity.Agent, 0, entity.RosterSize)
	for i, role := range entity.AllRoles {
		factoryAgents = append(factoryAgents, &entity.Agent{
			ID:   string(rune('a' + i)),
			Role: role,
			Side: entity.SideCT,
		})
	}
	team := entity.NewTeam(entity.SideCT, "CT", "default", factoryAgents)
	team.Money = 10000

	loadouts := engine.TeamBuy(team, TierFull)

	if len(loadouts) != entity.RosterSize {
		t.Fatalf("TeamBuy() returned %d loadouts, want %d", len(loadouts), entity.RosterSize)
	}
	share := team.Money / entity.RosterSize
	total := 0
	for id, loadout := range loadouts {
		if loadout.TotalCost > share {
			t.Errorf("agent %s loadout cost %d exceeds share %d", id, loadout.TotalCost, share)
		}
		total += loadout.TotalCost
	}
	if total > team.Money {
		t.Errorf("combined cost %d exceeds team money %d", total, team.Money)
	}
}

func TestParseTier(t *testing.T) {
	tests := []struct {
		key   string
		money int
		want  Tier
	}{
		{"eco", 9000, TierEco},
		{"eco-rush", 9000, TierEco},
		{"force", 9000, TierSemi},
		{"full", 500, TierFull},
		{"rush", 1000, TierEco},
		{"rush", 3000, TierSemi},
		{"rush", 8000, TierFull},
	}

	for _, tt := range tests {
		if got := ParseTier(tt.key, tt.money); got != tt.want {
			t.Errorf("ParseTier(%q, %d) = %q, want %q", tt.key, tt.money, got, tt.want)
		}
	}
}
