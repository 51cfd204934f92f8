package gamedata

import "errors"

// EquipmentKind categorizes non-weapon purchases.
type EquipmentKind string

const (
	KindArmor   EquipmentKind = "armor"
	KindHelmet  EquipmentKind = "helmet"
	KindFlash   EquipmentKind = "flash"
	KindGrenade EquipmentKind = "grenade"
	KindMolotov EquipmentKind = "molotov"
	KindSmoke   EquipmentKind = "smoke"
	KindKit     EquipmentKind = "kit"
)

// IsUtility reports whether the kind is a throwable consumable.
func (k EquipmentKind) IsUtility() bool {
	switch k {
	case KindFlash, KindGrenade, KindMolotov, KindSmoke:
		return true
	default:
		return false
	}
}

// EquipmentDef defines a purchasable equipment item loaded from JSON.
type EquipmentDef struct {
	ID       string        `json:"id"`       // Unique identifier (e.g., "flashbang")
	Name     string        `json:"name"`     // Display name
	Kind     EquipmentKind `json:"kind"`     // Item category
	Cost     int           `json:"cost"`     // Purchase cost
	Damage   int           `json:"damage"`   // Damage dealt on use (0 for non-damaging)
	Radius   float64       `json:"radius"`   // Effect radius in map units
	Priority int           `json:"priority"` // Buy-order rank, lower buys first
	Side     string        `json:"side"`     // "t", "ct", or "" for both
}

// AvailableTo reports whether the item can be bought by the given side.
func (e *EquipmentDef) AvailableTo(side string) bool {
	return e.Side == "" || e.Side == side
}

// EquipmentFile represents the structure of equipment.json.
type EquipmentFile struct {
	Equipment []EquipmentDef `json:"equipment"`
}

// LoadEquipment loads equipment definitions from the embedded equipment.json file.
func LoadEquipment() ([]EquipmentDef, error) {
	file, err := Load[EquipmentFile]("equipment.json")
	if err != nil {
		return nil, err
	}
	return file.Equipment, nil
}

// EquipmentRegistry holds loaded equipment definitions and provides lookup utilities.
type EquipmentRegistry struct {
	items map[string]*EquipmentDef
	all   []EquipmentDef
}

// NewEquipmentRegistry creates a registry from loaded equipment definitions.
func NewEquipmentRegistry(items []EquipmentDef) *EquipmentRegistry {
	registry := &EquipmentRegistry{
		items: make(map[string]*EquipmentDef),
		all:   items,
	}
	for i := range items {
		registry.items[items[i].ID] = &items[i]
	}
	return registry
}

// LoadEquipmentRegistry loads and creates a registry from the embedded equipment.json.
func LoadEquipmentRegistry() (*EquipmentRegistry, error) {
	items, err := LoadEquipment()
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.New("no equipment loaded from equipment.json")
	}
	return NewEquipmentRegistry(items), nil
}

// MustLoadEquipmentRegistry loads a registry, panicking on error.
func MustLoadEquipmentRegistry() *EquipmentRegistry {
	registry, err := LoadEquipmentRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// GetByID returns the equipment definition with the given ID, or nil if not found.
func (r *EquipmentRegistry) GetByID(id string) *EquipmentDef {
	return r.items[id]
}

// Utility returns all throwable consumable definitions.
func (r *EquipmentRegistry) Utility() []*EquipmentDef {
	var result []*EquipmentDef
	for i := range r.all {
		if r.all[i].Kind.IsUtility() {
			result = append(result, &r.all[i])
		}
	}
	return result
}

// All returns all equipment definitions.
func (r *EquipmentRegistry) All() []EquipmentDef {
	return r.all
}

// Count returns the number of equipment items in the registry.
func (r *EquipmentRegistry) Count() int {
	return len(r.all)
}
