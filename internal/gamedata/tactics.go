package gamedata

import (
	"errors"
	"math"
)

// Position is a 2-D map coordinate in map units.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DistanceTo returns the straight-line distance to another position.
func (p Position) DistanceTo(other Position) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// StrategyDef defines a named tactical plan loaded from JSON.
type StrategyDef struct {
	Key             string                         `json:"key"`             // Unique identifier (e.g., "rush")
	Name            string                         `json:"name"`            // Display name
	EngagementRange float64                        `json:"engagementRange"` // Base combat eligibility range
	KeyRole         string                         `json:"keyRole"`         // Role this plan is built around
	CombatBonus     map[string]float64             `json:"combatBonus"`     // Per-role hit-probability bonus
	Routes          map[string]map[string][]string `json:"routes"`          // side -> role -> ordered waypoint names
	Utility         map[string][]string            `json:"utility"`         // role -> equipment IDs thrown on execute
}

// TacticsFile represents the structure of tactics.json.
type TacticsFile struct {
	Map        string              `json:"map"`
	Waypoints  map[string]Position `json:"waypoints"`
	Spawns     map[string]string   `json:"spawns"` // side -> waypoint name
	Sites      map[string]string   `json:"sites"`  // site letter -> waypoint name
	Strategies []StrategyDef       `json:"strategies"`
}

// TacticsCatalog is a static, read-only lookup of map waypoints and
// per-strategy positioning plans. All methods are pure.
type TacticsCatalog struct {
	file       TacticsFile
	strategies map[string]*StrategyDef
}

// NewTacticsCatalog creates a catalog from a loaded tactics file.
func NewTacticsCatalog(file TacticsFile) *TacticsCatalog {
	catalog := &TacticsCatalog{
		file:       file,
		strategies: make(map[string]*StrategyDef),
	}
	for i := range file.Strategies {
		catalog.strategies[file.Strategies[i].Key] = &file.Strategies[i]
	}
	return catalog
}

// LoadTacticsCatalog loads and creates a catalog from the embedded tactics.json.
func LoadTacticsCatalog() (*TacticsCatalog, error) {
	file, err := Load[TacticsFile]("tactics.json")
	if err != nil {
		return nil, err
	}
	if len(file.Waypoints) == 0 {
		return nil, errors.New("no waypoints loaded from tactics.json")
	}
	if len(file.Strategies) == 0 {
		return nil, errors.New("no strategies loaded from tactics.json")
	}
	return NewTacticsCatalog(file), nil
}

// MustLoadTacticsCatalog loads a catalog, panicking on error.
func MustLoadTacticsCatalog() *TacticsCatalog {
	catalog, err := LoadTacticsCatalog()
	if err != nil {
		panic(err)
	}
	return catalog
}

// MapName returns the name of the map this catalog describes.
func (c *TacticsCatalog) MapName() string {
	return c.file.Map
}

// Waypoint returns the named waypoint position.
func (c *TacticsCatalog) Waypoint(name string) (Position, bool) {
	pos, ok := c.file.Waypoints[name]
	return pos, ok
}

// Spawn returns the spawn position for a side. Unknown sides fall back to
// the map origin.
func (c *TacticsCatalog) Spawn(side string) Position {
	if name, ok := c.file.Spawns[side]; ok {
		if pos, ok := c.file.Waypoints[name]; ok {
			return pos
		}
	}
	return Position{}
}

// Site returns the position of a bomb site by letter.
func (c *TacticsCatalog) Site(site string) (Position, bool) {
	name, ok := c.file.Sites[site]
	if !ok {
		return Position{}, false
	}
	pos, ok := c.file.Waypoints[name]
	return pos, ok
}

// Sites returns the bomb site letters defined for this map.
func (c *TacticsCatalog) Sites() []string {
	sites := make([]string, 0, len(c.file.Sites))
	for site := range c.file.Sites {
		sites = append(sites, site)
	}
	return sites
}

// Strategy returns the strategy definition for a key, or nil if unknown.
func (c *TacticsCatalog) Strategy(key string) *StrategyDef {
	return c.strategies[key]
}

// HasStrategy reports whether the key names a known strategy.
func (c *TacticsCatalog) HasStrategy(key string) bool {
	_, ok := c.strategies[key]
	return ok
}

// StrategyKeys returns all known strategy keys.
func (c *TacticsCatalog) StrategyKeys() []string {
	keys := make([]string, 0, len(c.strategies))
	for key := range c.strategies {
		keys = append(keys, key)
	}
	return keys
}

// Route resolves the ordered waypoint positions a role follows under a
// strategy. Unknown strategy, side, or role yields an empty route.
func (c *TacticsCatalog) Route(strategy, side, role string) []Position {
	def := c.strategies[strategy]
	if def == nil {
		return nil
	}
	sideRoutes, ok := def.Routes[side]
	if !ok {
		return nil
	}
	names, ok := sideRoutes[role]
	if !ok {
		return nil
	}
	route := make([]Position, 0, len(names))
	for _, name := range names {
		if pos, ok := c.file.Waypoints[name]; ok {
			route = append(route, pos)
		}
	}
	return route
}

// CombatBonus returns the hit-probability bonus a role earns under a
// strategy. Zero for unknown combinations.
func (c *TacticsCatalog) CombatBonus(strategy, role string) float64 {
	def := c.strategies[strategy]
	if def == nil {
		return 0
	}
	return def.CombatBonus[role]
}

// EngagementRange returns the base eligibility range for a strategy.
// Unknown strategies get the default range.
func (c *TacticsCatalog) EngagementRange(strategy string) float64 {
	def := c.strategies[strategy]
	if def == nil || def.EngagementRange <= 0 {
		return 80
	}
	return def.EngagementRange
}

// UtilityPlan returns the equipment IDs a role is expected to use under a
// strategy.
func (c *TacticsCatalog) UtilityPlan(strategy, role string) []string {
	def := c.strategies[strategy]
	if def == nil {
		return nil
	}
	return def.Utility[role]
}
