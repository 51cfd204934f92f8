package gamedata

import "errors"

// WeaponClass groups weapons into buy-menu categories.
type WeaponClass string

const (
	ClassPistol WeaponClass = "pistol"
	ClassSMG    WeaponClass = "smg"
	ClassRifle  WeaponClass = "rifle"
	ClassSniper WeaponClass = "sniper"
)

// WeaponDef defines a purchasable weapon loaded from JSON.
type WeaponDef struct {
	ID         string      `json:"id"`         // Unique identifier (e.g., "ak47")
	Name       string      `json:"name"`       // Display name
	Class      WeaponClass `json:"class"`      // Buy-menu category
	Cost       int         `json:"cost"`       // Purchase cost
	HeadDamage int         `json:"headDamage"` // Base damage on a headshot
	BodyDamage int         `json:"bodyDamage"` // Base damage on a body hit
	Side       string      `json:"side"`       // "t", "ct", or "" for both
}

// AvailableTo reports whether the weapon can be bought by the given side.
func (w *WeaponDef) AvailableTo(side string) bool {
	return w.Side == "" || w.Side == side
}

// WeaponsFile represents the structure of weapons.json.
type WeaponsFile struct {
	Weapons []WeaponDef `json:"weapons"`
}

// LoadWeapons loads weapon definitions from the embedded weapons.json file.
func LoadWeapons() ([]WeaponDef, error) {
	file, err := Load[WeaponsFile]("weapons.json")
	if err != nil {
		return nil, err
	}
	return file.Weapons, nil
}

// WeaponRegistry holds loaded weapon definitions and provides lookup utilities.
type WeaponRegistry struct {
	weapons map[string]*WeaponDef
	all     []WeaponDef
}

// NewWeaponRegistry creates a registry from loaded weapon definitions.
func NewWeaponRegistry(weapons []WeaponDef) *WeaponRegistry {
	registry := &WeaponRegistry{
		weapons: make(map[string]*WeaponDef),
		all:     weapons,
	}
	for i := range weapons {
		registry.weapons[weapons[i].ID] = &weapons[i]
	}
	return registry
}

// LoadWeaponRegistry loads and creates a registry from the embedded weapons.json.
func LoadWeaponRegistry() (*WeaponRegistry, error) {
	weapons, err := LoadWeapons()
	if err != nil {
		return nil, err
	}
	if len(weapons) == 0 {
		return nil, errors.New("no weapons loaded from weapons.json")
	}
	return NewWeaponRegistry(weapons), nil
}

// MustLoadWeaponRegistry loads a registry, panicking on error.
func MustLoadWeaponRegistry() *WeaponRegistry {
	registry, err := LoadWeaponRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// GetByID returns the weapon definition with the given ID, or nil if not found.
func (r *WeaponRegistry) GetByID(id string) *WeaponDef {
	return r.weapons[id]
}

// ByClass returns all weapons of the given class.
func (r *WeaponRegistry) ByClass(class WeaponClass) []*WeaponDef {
	var result []*WeaponDef
	for i := range r.all {
		if r.all[i].Class == class {
			result = append(result, &r.all[i])
		}
	}
	return result
}

// All returns all weapon definitions.
func (r *WeaponRegistry) All() []WeaponDef {
	return r.all
}

// Count returns the number of weapons in the registry.
func (r *WeaponRegistry) Count() int {
	return len(r.all)
}
