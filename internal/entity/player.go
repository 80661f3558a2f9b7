package entity

import (
	"fmt"

	"github.com/samdwyer/cryptcrawl/internal/gamedata"
)

// Starting values for a new character.
const (
	StartingLevel    = 1
	StartingStrength = 5
	StartingVitality = 5
	StartingAgility  = 5
)

// noSlot marks an empty equipment slot.
const noSlot = -1

// Player is the character controlled by the user.
//
// Equipped items are indices into Inventory, never separate copies, so an
// equipped item always remains in the inventory.
type Player struct {
	vitals

	Name     string
	Level    int
	XP       int
	Strength int
	Vitality int
	Agility  int

	BaseAttack  int
	BaseDefense int
	Mana        int
	MaxMana     int

	Inventory []Item
	Position  string // Current room ID

	weapon int
	shield int
	armor  int
}

// NewPlayer creates a level 1 character standing in the given room.
func NewPlayer(name, position string) *Player {
	p := &Player{
		Name:     name,
		Level:    StartingLevel,
		Strength: StartingStrength,
		Vitality: StartingVitality,
		Agility:  StartingAgility,
		Position: position,
		weapon:   noSlot,
		shield:   noSlot,
		armor:    noSlot,
	}
	p.RecalculateStats()
	p.HP = p.MaxHP
	p.Mana = p.MaxMana
	return p
}

// =============================================================================
// Derived stats
// =============================================================================

// MaxHPFor returns maximum HP for a vitality score.
func MaxHPFor(vitality int) int { return 50 + 10*vitality }

// AttackFor returns base attack for a strength score.
func AttackFor(strength int) int { return 3 + 2*strength }

// DefenseFor returns base defense for a vitality score.
func DefenseFor(vitality int) int { return vitality }

// MaxManaFor returns maximum mana before equipment bonuses.
func MaxManaFor(agility int) int { return 20 + 2*agility }

// RecalculateStats derives max HP, attack, defense and max mana from the
// core stats and clamps current HP and mana to the new maximums.
func (p *Player) RecalculateStats() {
	p.MaxHP = MaxHPFor(p.Vitality)
	p.BaseAttack = AttackFor(p.Strength)
	p.BaseDefense = DefenseFor(p.Vitality)

	p.MaxMana = MaxManaFor(p.Agility)
	if armor := p.EquippedArmor(); armor != nil {
		p.MaxMana += armor.ManaBonus
	}

	p.HP = min(p.HP, p.MaxHP)
	p.Mana = min(p.Mana, p.MaxMana)
}

// CriticalChance returns the probability in [0,1] of a critical hit.
func (p *Player) CriticalChance() float64 {
	return float64(p.Agility) * 0.02
}

// RollCritical draws from roll and reports whether the attack is critical.
func (p *Player) RollCritical(roll func() float64) bool {
	return roll() < p.CriticalChance()
}

// XPToNextLevel returns the XP needed to leave the current level.
func (p *Player) XPToNextLevel() int {
	return 100 * p.Level
}

// GainXP adds experience and applies any level ups, returning how many
// levels were gained. Each level raises strength and vitality, agility on
// every third level, and restores HP and mana.
func (p *Player) GainXP(amount int) int {
	if amount <= 0 {
		return 0
	}
	p.XP += amount

	gained := 0
	for p.XP >= p.XPToNextLevel() {
		p.XP -= p.XPToNextLevel()
		p.Level++
		p.Strength++
		p.Vitality++
		if p.Level%3 == 0 {
			p.Agility++
		}
		gained++
	}

	if gained > 0 {
		p.RecalculateStats()
		p.HP = p.MaxHP
		p.Mana = p.MaxMana
	}
	return gained
}

// =============================================================================
// Combat stats
// =============================================================================

// GetName returns the player's name.
func (p *Player) GetName() string { return p.Name }

// GetDefense returns total defense including equipment.
func (p *Player) GetDefense() int { return p.TotalDefense() }

// TotalAttack returns base attack plus the equipped weapon bonus.
func (p *Player) TotalAttack() int {
	total := p.BaseAttack
	if w := p.EquippedWeapon(); w != nil {
		total += w.AttackBonus
	}
	return total
}

// TotalDefense returns base defense plus shield and armor bonuses.
func (p *Player) TotalDefense() int {
	total := p.BaseDefense
	if s := p.EquippedShield(); s != nil {
		total += s.DefenseBonus
	}
	if a := p.EquippedArmor(); a != nil {
		total += a.DefenseBonus
	}
	return total
}

// SpendMana reduces mana and returns false if insufficient.
func (p *Player) SpendMana(amount int) bool {
	if amount < 0 || p.Mana < amount {
		return false
	}
	p.Mana -= amount
	return true
}

// RestoreMana restores mana and returns the actual amount restored.
func (p *Player) RestoreMana(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := min(amount, p.MaxMana-p.Mana)
	if actual <= 0 {
		return 0
	}
	p.Mana += actual
	return actual
}

// =============================================================================
// Inventory
// =============================================================================

// AddItem appends an item to the inventory.
func (p *Player) AddItem(item Item) {
	p.Inventory = append(p.Inventory, item)
}

// ItemAt returns the inventory entry at index.
func (p *Player) ItemAt(index int) (Item, error) {
	if index < 0 || index >= len(p.Inventory) {
		return Item{}, fmt.Errorf("index %d of %d: %w", index, len(p.Inventory), ErrInvalidItemSelection)
	}
	return p.Inventory[index], nil
}

// UseItem applies the consumable at index to the player and removes it.
// Non-consumables and potions at full HP are left in place.
func (p *Player) UseItem(index int) (int, error) {
	item, err := p.ItemAt(index)
	if err != nil {
		return 0, err
	}
	healed, err := item.Apply(p)
	if err != nil {
		return 0, err
	}
	p.removeAt(index)
	return healed, nil
}

// CastSpell casts the spell at index against target. Spells stay known.
func (p *Player) CastSpell(index int, target Combatant) (SpellResult, error) {
	item, err := p.ItemAt(index)
	if err != nil {
		return SpellResult{}, err
	}
	return item.Cast(p, target)
}

// removeAt deletes the entry at index and shifts equipment slots past it.
func (p *Player) removeAt(index int) {
	p.Inventory = append(p.Inventory[:index], p.Inventory[index+1:]...)
	for _, slot := range []*int{&p.weapon, &p.shield, &p.armor} {
		switch {
		case *slot == index:
			*slot = noSlot
		case *slot > index:
			*slot--
		}
	}
}

// =============================================================================
// Equipment
// =============================================================================

// slotFor returns the equipment slot for an item type, or nil.
func (p *Player) slotFor(itemType gamedata.ItemType) *int {
	switch itemType {
	case gamedata.ItemWeapon:
		return &p.weapon
	case gamedata.ItemShield:
		return &p.shield
	case gamedata.ItemArmor:
		return &p.armor
	}
	return nil
}

// Equip equips the weapon, shield or armor at index, replacing whatever was
// in that slot. The item stays in the inventory.
func (p *Player) Equip(index int) error {
	item, err := p.ItemAt(index)
	if err != nil {
		return err
	}
	slot := p.slotFor(item.Type)
	if slot == nil {
		return fmt.Errorf("%s cannot be equipped: %w", item.Name, ErrInvalidItemSelection)
	}
	*slot = index
	if item.Type == gamedata.ItemArmor {
		p.RecalculateStats()
	}
	return nil
}

// EquipByName equips the first inventory item of the given type whose name
// matches. It reports whether anything was equipped.
func (p *Player) EquipByName(itemType gamedata.ItemType, name string) bool {
	for i, item := range p.Inventory {
		if item.Type == itemType && item.Name == name {
			return p.Equip(i) == nil
		}
	}
	return false
}

// Unequip empties the slot for itemType.
func (p *Player) Unequip(itemType gamedata.ItemType) {
	if slot := p.slotFor(itemType); slot != nil {
		*slot = noSlot
		if itemType == gamedata.ItemArmor {
			p.RecalculateStats()
		}
	}
}

func (p *Player) equipped(slot int) *Item {
	if slot == noSlot || slot >= len(p.Inventory) {
		return nil
	}
	item := p.Inventory[slot]
	return &item
}

// EquippedWeapon returns a copy of the equipped weapon, or nil.
func (p *Player) EquippedWeapon() *Item { return p.equipped(p.weapon) }

// EquippedShield returns a copy of the equipped shield, or nil.
func (p *Player) EquippedShield() *Item { return p.equipped(p.shield) }

// EquippedArmor returns a copy of the equipped armor, or nil.
func (p *Player) EquippedArmor() *Item { return p.equipped(p.armor) }

// Ensure Player implements Combatant
var _ Combatant = (*Player)(nil)
