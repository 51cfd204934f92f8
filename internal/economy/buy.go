// Package economy computes weapon and equipment purchases for agents.
package economy

import (
	"sort"

	"github.com/samdwyer/strikeband/internal/entity"
	"github.com/samdwyer/strikeband/internal/gamedata"
)

// Tier is a spending posture for a buy round.
type Tier string

const (
	TierEco  Tier = "eco"
	TierSemi Tier = "semi"
	TierFull Tier = "full"
)

// Spending caps per tier. The engine never commits more than the cap
// even when the bank would allow it.
const (
	ecoCap  = 2000
	semiCap = 4000
	fullCap = 7000
)

// cap returns the tier's spending ceiling.
func (t Tier) cap() int {
	switch t {
	case TierEco:
		return ecoCap
	case TierSemi:
		return semiCap
	default:
		return fullCap
	}
}

// TierForMoney derives a sensible tier from available funds.
func TierForMoney(money int) Tier {
	switch {
	case money < ecoCap:
		return TierEco
	case money < semiCap:
		return TierSemi
	default:
		return TierFull
	}
}

// ParseTier maps a buy key to a tier. Strategy keys imply a posture
// ("eco-rush" forces an eco buy); unknown keys fall back to whatever the
// money supports.
func ParseTier(key string, money int) Tier {
	switch key {
	case "eco", "eco-rush":
		return TierEco
	case "semi", "force":
		return TierSemi
	case "full":
		return TierFull
	default:
		return TierForMoney(money)
	}
}

// primaryClasses returns the weapon classes a tier shops in.
func (t Tier) primaryClasses() []gamedata.WeaponClass {
	switch t {
	case TierEco:
		return nil
	case TierSemi:
		return []gamedata.WeaponClass{gamedata.ClassSMG}
	default:
		return []gamedata.WeaponClass{gamedata.ClassRifle, gamedata.ClassSniper}
	}
}

// Loadout is the set of purchases computed for a single agent.
type Loadout struct {
	Weapons   []string
	Equipment []string
	TotalCost int
}

// rolePreferences ranks weapon IDs per role, most preferred first.
var rolePreferences = map[entity.Role][]string{
	entity.RoleEntry:   {"ak47", "m4a4", "famas", "galil", "mac10", "mp9", "ump45", "deagle", "p250"},
	entity.RoleAWPer:   {"awp", "ssg08", "ak47", "m4a4", "galil", "famas", "ump45", "deagle", "p250"},
	entity.RoleSupport: {"m4a4", "ak47", "famas", "galil", "ump45", "mp9", "mac10", "p250"},
	entity.RoleLurker:  {"ak47", "m4a4", "galil", "famas", "ump45", "mac10", "mp9", "deagle", "p250"},
	entity.RoleIGL:     {"m4a4", "ak47", "famas", "galil", "mp9", "mac10", "ump45", "p250"},
}

// BuyEngine produces loadouts from the static weapon and equipment
// catalogs. It is stateless per call and never spends beyond the money
// it is given.
type BuyEngine struct {
	weapons   *gamedata.WeaponRegistry
	equipment *gamedata.EquipmentRegistry
}

// NewBuyEngine creates a buy engine backed by the given catalogs.
func NewBuyEngine(weapons *gamedata.WeaponRegistry, equipment *gamedata.EquipmentRegistry) *BuyEngine {
	return &BuyEngine{weapons: weapons, equipment: equipment}
}

// AgentBuy computes a loadout for one agent. The budget is the lesser of
// the supplied money and the tier cap; the returned total never exceeds
// the supplied money.
func (e *BuyEngine) AgentBuy(role entity.Role, money int, tier Tier, side entity.Side) Loadout {
	var loadout Loadout
	if money <= 0 {
		return loadout
	}
	budget := money
	if limit := tier.cap(); budget > limit {
		budget = limit
	}

	// Primary weapon from the tier's classes, by role preference.
	boughtPrimary := false
	if primary := e.pickPrimary(role, side, tier, budget); primary != nil {
		loadout.Weapons = append(loadout.Weapons, primary.ID)
		loadout.TotalCost += primary.Cost
		budget -= primary.Cost
		boughtPrimary = true
	}

	// Pistol fallback covers eco rounds and failed primary buys.
	if !boughtPrimary || tier == TierEco {
		if pistol := e.pickPistol(role, side, budget); pistol != nil {
			loadout.Weapons = append(loadout.Weapons, pistol.ID)
			loadout.TotalCost += pistol.Cost
			budget -= pistol.Cost
		}
	}

	// Armor: kevlar first, the helmet only on top of it, never on eco.
	if tier != TierEco {
		if kevlar := e.pickEquipmentByKind(gamedata.KindArmor, side, budget); kevlar != nil {
			loadout.Equipment = append(loadout.Equipment, kevlar.ID)
			loadout.TotalCost += kevlar.Cost
			budget -= kevlar.Cost

			if helmet := e.pickEquipmentByKind(gamedata.KindHelmet, side, budget); helmet != nil {
				loadout.Equipment = append(loadout.Equipment, helmet.ID)
				loadout.TotalCost += helmet.Cost
				budget -= helmet.Cost
			}
		}
	}

	// Remaining budget fills utility by ascending priority rank.
	for _, item := range e.utilityByPriority(side) {
		if item.Cost > budget {
			continue
		}
		loadout.Equipment = append(loadout.Equipment, item.ID)
		loadout.TotalCost += item.Cost
		budget -= item.Cost
	}

	return loadout
}

// TeamBuy splits the team bank evenly across the roster and computes a
// loadout per agent, keyed by agent ID.
func (e *BuyEngine) TeamBuy(team *entity.Team, tier Tier) map[string]Loadout {
	loadouts := make(map[string]Loadout, len(team.Agents))
	if len(team.Agents) == 0 {
		return loadouts
	}
	share := team.Money / len(team.Agents)
	for _, agent := range team.Agents {
		loadouts[agent.ID] = e.AgentBuy(agent.Role, share, tier, team.Side)
	}
	return loadouts
}

// pickPrimary selects the most preferred affordable tier-class weapon.
// When the preference list yields nothing, the costliest affordable
// weapon in a compatible class wins.
func (e *BuyEngine) pickPrimary(role entity.Role, side entity.Side, tier Tier, budget int) *gamedata.WeaponDef {
	classes := tier.primaryClasses()
	if len(classes) == 0 {
		return nil
	}
	compatible := func(def *gamedata.WeaponDef) bool {
		if def == nil || def.Cost > budget || !def.AvailableTo(string(side)) {
			return false
		}
		for _, class := range classes {
			if def.Class == class {
				return true
			}
		}
		return false
	}

	for _, id := range rolePreferences[role] {
		if def := e.weapons.GetByID(id); compatible(def) {
			return def
		}
	}

	var best *gamedata.WeaponDef
	for _, class := range classes {
		for _, def := range e.weapons.ByClass(class) {
			if compatible(def) && (best == nil || def.Cost > best.Cost) {
				best = def
			}
		}
	}
	return best
}

// pickPistol selects the preferred affordable pistol, defaulting to the
// costliest one the budget allows.
func (e *BuyEngine) pickPistol(role entity.Role, side entity.Side, budget int) *gamedata.WeaponDef {
	affordable := func(def *gamedata.WeaponDef) bool {
		return def != nil && def.Class == gamedata.ClassPistol &&
			def.Cost <= budget && def.AvailableTo(string(side))
	}

	for _, id := range rolePreferences[role] {
		if def := e.weapons.GetByID(id); affordable(def) {
			return def
		}
	}

	var best *gamedata.WeaponDef
	for _, def := range e.weapons.ByClass(gamedata.ClassPistol) {
		if affordable(def) && (best == nil || def.Cost > best.Cost) {
			best = def
		}
	}
	return best
}

// pickEquipmentByKind returns an affordable side-legal item of a kind.
func (e *BuyEngine) pickEquipmentByKind(kind gamedata.EquipmentKind, side entity.Side, budget int) *gamedata.EquipmentDef {
	for _, item := range e.equipment.All() {
		if item.Kind == kind && item.Cost <= budget && item.AvailableTo(string(side)) {
			def := item
			return &def
		}
	}
	return nil
}

// utilityByPriority returns side-legal consumables and the defuse kit,
// ordered by ascending priority rank.
func (e *BuyEngine) utilityByPriority(side entity.Side) []*gamedata.EquipmentDef {
	all := e.equipment.All()
	var items []*gamedata.EquipmentDef
	for i := range all {
		item := &all[i]
		if !item.Kind.IsUtility() && item.Kind != gamedata.KindKit {
			continue
		}
		if !item.AvailableTo(string(side)) {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Priority < items[j].Priority
	})
	return items
}
