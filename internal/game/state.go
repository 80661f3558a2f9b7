// Package game runs room visits and drives the interactive game loop.
package game

// State represents the current game state.
type State int

const (
	// StateExplore is the default mode: the player moves between rooms.
	StateExplore State = iota
	// StateInventory lets the player equip or use inventory items.
	StateInventory
	// StateCombat is active while an encounter waits for the player.
	StateCombat
	// StateDefeat is reached when the player falls in combat.
	StateDefeat
	// StateEscaped is reached when the player enters the exit room.
	StateEscaped
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateExplore:
		return "explore"
	case StateInventory:
		return "inventory"
	case StateCombat:
		return "combat"
	case StateDefeat:
		return "defeat"
	case StateEscaped:
		return "escaped"
	default:
		return "unknown"
	}
}

// Over reports whether the run has ended.
func (s State) Over() bool {
	return s == StateDefeat || s == StateEscaped
}
