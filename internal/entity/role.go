package entity

// Role represents an agent's tactical archetype.
type Role int

const (
	RoleEntry Role = iota
	RoleAWPer
	RoleSupport
	RoleLurker
	RoleIGL
)

// AllRoles lists the five archetypes in roster order.
var AllRoles = []Role{RoleEntry, RoleAWPer, RoleSupport, RoleLurker, RoleIGL}

// String returns the role's display name.
func (r Role) String() string {
	switch r {
	case RoleEntry:
		return "Entry Fragger"
	case RoleAWPer:
		return "AWPer"
	case RoleSupport:
		return "Support"
	case RoleLurker:
		return "Lurker"
	case RoleIGL:
		return "In-Game Leader"
	default:
		return "Unknown"
	}
}

// ID returns the role identifier used for data lookup in tactics plans.
func (r Role) ID() string {
	switch r {
	case RoleEntry:
		return "entry"
	case RoleAWPer:
		return "awper"
	case RoleSupport:
		return "support"
	case RoleLurker:
		return "lurker"
	case RoleIGL:
		return "igl"
	default:
		return "unknown"
	}
}
