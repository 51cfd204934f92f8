// Package entity provides match entities: agents, teams, and their factory.
package entity

// Side is one of the two allegiances in a match.
type Side string

const (
	// SideT is the attacking side.
	SideT Side = "t"
	// SideCT is the defending side.
	SideCT Side = "ct"
	// SideNone marks the absence of a side, e.g. a drawn match.
	SideNone Side = ""
)

// Valid reports whether the side is one of the two playable allegiances.
func (s Side) Valid() bool {
	return s == SideT || s == SideCT
}

// Opponent returns the opposing side.
func (s Side) Opponent() Side {
	switch s {
	case SideT:
		return SideCT
	case SideCT:
		return SideT
	default:
		return SideNone
	}
}

// DisplayName returns a human-readable side name.
func (s Side) DisplayName() string {
	switch s {
	case SideT:
		return "Attackers"
	case SideCT:
		return "Defenders"
	default:
		return "None"
	}
}
