// Package entity provides the player, enemies and items.
package entity

import "errors"

var (
	// ErrInvalidItemSelection is returned when an inventory index is out of
	// range or names an item that cannot be used that way.
	ErrInvalidItemSelection = errors.New("invalid item selection")

	// ErrItemNotApplicable is returned when a consumable would have no effect,
	// such as a potion at full HP. It wraps ErrInvalidItemSelection.
	ErrItemNotApplicable = errors.Join(ErrInvalidItemSelection, errors.New("item has no effect"))

	// ErrInsufficientResource is returned when a spell costs more mana than
	// the caster has.
	ErrInsufficientResource = errors.New("insufficient mana")
)

// Combatant is the interface for anything that can take part in an encounter.
// Both the player and enemies implement it.
type Combatant interface {
	GetName() string
	IsAlive() bool

	GetHP() int
	GetMaxHP() int
	GetDefense() int

	TakeDamage(amount int) int // Returns actual damage taken
	Heal(amount int) int       // Returns actual amount healed
}

// vitals holds the HP bookkeeping shared by the player and enemies.
// HP always stays within [0, MaxHP].
type vitals struct {
	HP    int
	MaxHP int
}

// TakeDamage reduces HP and returns actual damage taken.
func (v *vitals) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := min(amount, v.HP)
	v.HP -= actual
	return actual
}

// Heal restores HP and returns actual amount healed.
func (v *vitals) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := min(amount, v.MaxHP-v.HP)
	if actual <= 0 {
		return 0
	}
	v.HP += actual
	return actual
}

// IsAlive returns true if HP remains.
func (v *vitals) IsAlive() bool { return v.HP > 0 }

// GetHP returns current HP.
func (v *vitals) GetHP() int { return v.HP }

// GetMaxHP returns maximum HP.
func (v *vitals) GetMaxHP() int { return v.MaxHP }
