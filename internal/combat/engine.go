package combat

import (
	"math"
	"math/rand"
	"time"

	"github.com/samdwyer/strikeband/internal/entity"
	"github.com/samdwyer/strikeband/internal/gamedata"
)

const (
	// TradeWindow is how long after its own death an agent's kill still
	// counts as a trade.
	TradeWindow = 3 * time.Second

	// maxHitProbability caps any single engagement roll.
	maxHitProbability = 0.9
	// flankAngle is the minimum angle, in degrees, between the attack
	// vector and the attacker's approach reference for a valid flank.
	flankAngle = 120.0
	// fallbackRange applies to the special eligibility carve-outs
	// (key-role rushes, split flanks) regardless of the strategy range.
	fallbackRange = 80.0
	// flashPenalty scales a flashed victim's positioning score.
	flashPenalty = 0.8
)

// Engine resolves engagements and utility effects on a fixed cadence.
// It owns the per-agent last-death-time map used for trade detection and
// must be reset between rounds.
type Engine struct {
	catalog   *gamedata.TacticsCatalog
	weapons   *gamedata.WeaponRegistry
	equipment *gamedata.EquipmentRegistry
	rng       *rand.Rand

	lastDeath map[string]time.Duration
}

// NewEngine creates a combat engine. The random source must be seeded by
// the caller so resolution is reproducible in tests.
func NewEngine(catalog *gamedata.TacticsCatalog, weapons *gamedata.WeaponRegistry, equipment *gamedata.EquipmentRegistry, rng *rand.Rand) *Engine {
	return &Engine{
		catalog:   catalog,
		weapons:   weapons,
		equipment: equipment,
		rng:       rng,
		lastDeath: make(map[string]time.Duration),
	}
}

// ResetRound clears the last-death map so trade detection never spans
// rounds.
func (e *Engine) ResetRound() {
	e.lastDeath = make(map[string]time.Duration)
}

// RemoveAgent drops an agent's death record, e.g. on roster teardown.
func (e *Engine) RemoveAgent(id string) {
	delete(e.lastDeath, id)
}

// Resolve runs one combat pass at sim time now. Agents alive at the
// start of the pass each engage their nearest eligible opponent; deaths
// earlier in the pass do not prevent an agent from finishing its own
// engagement, which is what makes trades possible. Returns the ordered
// event list; agent health and stats are mutated in place.
func (e *Engine) Resolve(now time.Duration, teamT, teamCT *entity.Team) []Event {
	var events []Event

	attackers := make([]*entity.Agent, 0, entity.RosterSize*2)
	for _, agent := range teamT.Agents {
		if agent.Alive {
			attackers = append(attackers, agent)
		}
	}
	for _, agent := range teamCT.Agents {
		if agent.Alive {
			attackers = append(attackers, agent)
		}
	}

	strategies := map[entity.Side]string{
		entity.SideT:  teamT.Strategy,
		entity.SideCT: teamCT.Strategy,
	}
	opponents := map[entity.Side]*entity.Team{
		entity.SideT:  teamCT,
		entity.SideCT: teamT,
	}

	for _, attacker := range attackers {
		strategy := strategies[attacker.Side]
		victim := e.pickTarget(attacker, opponents[attacker.Side], strategy)
		if victim == nil {
			continue
		}
		if event, ok := e.engage(now, attacker, victim, strategy); ok {
			events = append(events, event)
			if event.Kind == EventKill && event.TradeKill {
				events = append(events, Event{
					Kind:         EventTrade,
					AttackerID:   attacker.ID,
					AttackerName: attacker.Name,
					VictimID:     victim.ID,
					VictimName:   victim.Name,
					Weapon:       event.Weapon,
					Position:     event.Position,
					Timestamp:    now,
				})
			}
		}
	}

	for _, attacker := range attackers {
		events = append(events, e.resolveUtility(now, attacker, opponents[attacker.Side])...)
	}

	return events
}

// pickTarget returns the nearest living opponent the attacker may engage
// under the active strategy, or nil.
func (e *Engine) pickTarget(attacker *entity.Agent, enemies *entity.Team, strategy string) *entity.Agent {
	var best *entity.Agent
	bestDist := math.MaxFloat64
	for _, enemy := range enemies.Agents {
		if !enemy.Alive {
			continue
		}
		dist := attacker.Position.DistanceTo(enemy.Position)
		if !e.eligible(attacker, enemy, strategy, dist) {
			continue
		}
		if dist < bestDist {
			best = enemy
			bestDist = dist
		}
	}
	return best
}

// eligible applies the strategy-dependent engagement rules.
func (e *Engine) eligible(attacker, victim *entity.Agent, strategy string, dist float64) bool {
	if dist <= e.catalog.EngagementRange(strategy) {
		return true
	}
	if dist > fallbackRange {
		return false
	}
	switch strategy {
	case "rush":
		return attacker.Role == entity.RoleEntry
	case "split":
		return e.isFlank(attacker, victim)
	default:
		return false
	}
}

// isFlank reports whether the attacker approaches the victim from a
// direction more than flankAngle away from the attacker side's usual
// approach, i.e. from behind the victim's expected facing.
func (e *Engine) isFlank(attacker, victim *entity.Agent) bool {
	spawn := e.catalog.Spawn(string(attacker.Side))
	attack := vector{attacker.Position.X - victim.Position.X, attacker.Position.Y - victim.Position.Y}
	reference := vector{spawn.X - victim.Position.X, spawn.Y - victim.Position.Y}
	angle := attack.angleTo(reference)
	return angle > flankAngle
}

// engage resolves a single attacker-versus-victim duel. Returns false
// when the attacker cannot fight (no weapon reference).
func (e *Engine) engage(now time.Duration, attacker, victim *entity.Agent, strategy string) (Event, bool) {
	weapon := e.weapons.GetByID(attacker.PrimaryWeapon())
	if weapon == nil {
		return Event{}, false
	}

	dist := attacker.Position.DistanceTo(victim.Position)
	hitProb := attacker.Skills.Aim*math.Min(1, 100/math.Max(dist, 1)) +
		attacker.Strategy.PositioningScore*0.2 +
		e.catalog.CombatBonus(strategy, attacker.Role.ID())
	if hitProb > maxHitProbability {
		hitProb = maxHitProbability
	}
	if hitProb < 0 {
		hitProb = 0
	}
	if e.rng.Float64() >= hitProb {
		return Event{}, false
	}

	headshot := e.rng.Float64() < attacker.Skills.Aim*0.3
	base := weapon.BodyDamage
	if headshot {
		base = weapon.HeadDamage
	}
	falloff := math.Max(0.5, 1-dist/200)
	armorFactor := 1.0
	if victim.HasArmor() {
		armorFactor = 0.75
	}
	damage := int(math.Floor(float64(base) * falloff * armorFactor))
	applied := victim.ApplyDamage(damage)

	event := Event{
		Kind:         EventDamage,
		AttackerID:   attacker.ID,
		AttackerName: attacker.Name,
		VictimID:     victim.ID,
		VictimName:   victim.Name,
		Weapon:       weapon.ID,
		Damage:       applied,
		Headshot:     headshot,
		Position:     victim.Position,
		Timestamp:    now,
	}

	if !victim.Alive {
		attacker.Stats.Kills++
		victim.Stats.Deaths++
		e.lastDeath[victim.ID] = now

		event.Kind = EventKill
		event.TradeKill = e.isTrade(attacker.ID, now)
		event.StrategyKill = e.catalog.CombatBonus(strategy, attacker.Role.ID()) > 0
	}

	return event, true
}

// isTrade reports whether the attacker's own last recorded death fell
// within the trade window before now.
func (e *Engine) isTrade(attackerID string, now time.Duration) bool {
	death, ok := e.lastDeath[attackerID]
	return ok && now-death <= TradeWindow
}

// resolveUtility throws at most one of the attacker's consumables per
// pass: the first carried item with a living opponent inside its radius.
func (e *Engine) resolveUtility(now time.Duration, attacker *entity.Agent, enemies *entity.Team) []Event {
	if !attacker.Alive {
		// Agents killed earlier in the pass do not throw.
		return nil
	}

	for _, itemID := range attacker.Equipment {
		item := e.equipment.GetByID(itemID)
		if item == nil || !item.Kind.IsUtility() {
			continue
		}
		victims := victimsInRadius(attacker, enemies, item.Radius)
		if len(victims) == 0 {
			continue
		}
		attacker.ConsumeEquipment(itemID)
		return e.applyUtility(now, attacker, item, victims)
	}
	return nil
}

// applyUtility applies one consumable's effect to every victim in range.
func (e *Engine) applyUtility(now time.Duration, attacker *entity.Agent, item *gamedata.EquipmentDef, victims []*entity.Agent) []Event {
	var events []Event
	for _, victim := range victims {
		switch {
		case item.Kind == gamedata.KindFlash:
			victim.Strategy.PositioningScore *= flashPenalty
			attacker.Stats.FlashAssists++
		case item.Damage > 0:
			applied := victim.ApplyDamage(item.Damage)
			if applied == 0 {
				continue
			}
			attacker.Stats.UtilityDamage += applied
			if !victim.Alive {
				attacker.Stats.Kills++
				victim.Stats.Deaths++
				e.lastDeath[victim.ID] = now
			}
			events = append(events, Event{
				Kind:         EventUtility,
				AttackerID:   attacker.ID,
				AttackerName: attacker.Name,
				VictimID:     victim.ID,
				VictimName:   victim.Name,
				Weapon:       item.ID,
				Damage:       applied,
				Position:     victim.Position,
				Timestamp:    now,
			})
		}
	}
	return events
}

// victimsInRadius returns living opponents within the item radius.
func victimsInRadius(attacker *entity.Agent, enemies *entity.Team, radius float64) []*entity.Agent {
	var victims []*entity.Agent
	for _, enemy := range enemies.Agents {
		if enemy.Alive && attacker.Position.DistanceTo(enemy.Position) <= radius {
			victims = append(victims, enemy)
		}
	}
	return victims
}

// vector is a 2-D direction used for flank angle math.
type vector struct {
	x, y float64
}

// angleTo returns the angle in degrees between two vectors.
func (v vector) angleTo(other vector) float64 {
	lenV := math.Sqrt(v.x*v.x + v.y*v.y)
	lenO := math.Sqrt(other.x*other.x + other.y*other.y)
	if lenV == 0 || lenO == 0 {
		return 0
	}
	cos := (v.x*other.x + v.y*other.y) / (lenV * lenO)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}
