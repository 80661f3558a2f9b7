package entity

import (
	"fmt"

	"github.com/samdwyer/cryptcrawl/internal/gamedata"
)

// Item is an immutable item value. Type selects the variant; only the
// payload fields belonging to that variant are meaningful.
type Item struct {
	ID          string
	Name        string
	Type        gamedata.ItemType
	Description string

	AttackBonus  int // weapon
	DefenseBonus int // shield, armor
	ManaBonus    int // armor
	HealAmount   int // consumable
	SummonEntity string

	ManaCost    int // spell
	Power       int
	SpellEffect gamedata.SpellEffect
}

// NewItem instantiates an item from its catalog template.
func NewItem(def *gamedata.ItemDef) Item {
	return Item{
		ID:           def.ID,
		Name:         def.Name,
		Type:         def.Type,
		Description:  def.Description,
		AttackBonus:  def.AttackBonus,
		DefenseBonus: def.DefenseBonus,
		ManaBonus:    def.ManaBonus,
		HealAmount:   def.HealAmount,
		SummonEntity: def.SummonEntity,
		ManaCost:     def.ManaCost,
		Power:        def.Power,
		SpellEffect:  def.SpellEffect,
	}
}

// NewWeapon creates a weapon granting an attack bonus.
func NewWeapon(name, description string, attackBonus int) Item {
	return Item{Name: name, Type: gamedata.ItemWeapon, Description: description, AttackBonus: attackBonus}
}

// NewShield creates a shield granting a defense bonus.
func NewShield(name, description string, defenseBonus int) Item {
	return Item{Name: name, Type: gamedata.ItemShield, Description: description, DefenseBonus: defenseBonus}
}

// NewArmor creates armor granting defense and optionally extra max mana.
func NewArmor(name, description string, defenseBonus, manaBonus int) Item {
	return Item{Name: name, Type: gamedata.ItemArmor, Description: description, DefenseBonus: defenseBonus, ManaBonus: manaBonus}
}

// NewPotion creates a consumable that heals its user.
func NewPotion(name, description string, healAmount int) Item {
	return Item{Name: name, Type: gamedata.ItemConsumable, Description: description, HealAmount: healAmount}
}

// NewKey creates a key item.
func NewKey(name, description string) Item {
	return Item{Name: name, Type: gamedata.ItemKey, Description: description}
}

// NewRune creates a rune naming the enemy it can summon.
func NewRune(name, description, summonEntity string) Item {
	return Item{Name: name, Type: gamedata.ItemRune, Description: description, SummonEntity: summonEntity}
}

// NewSpell creates a spell.
func NewSpell(name, description string, manaCost, power int, effect gamedata.SpellEffect) Item {
	return Item{
		Name:        name,
		Type:        gamedata.ItemSpell,
		Description: description,
		ManaCost:    manaCost,
		Power:       power,
		SpellEffect: effect,
	}
}

// IsConsumable reports whether the item can be used up from the inventory.
func (i Item) IsConsumable() bool {
	return i.Type == gamedata.ItemConsumable
}

// Apply uses a consumable on target and returns the HP restored.
// Applying to a target already at full HP does nothing.
func (i Item) Apply(target Combatant) (int, error) {
	if !i.IsConsumable() {
		return 0, fmt.Errorf("%s is not consumable: %w", i.Name, ErrInvalidItemSelection)
	}
	if target.GetHP() >= target.GetMaxHP() {
		return 0, fmt.Errorf("%s: %w", i.Name, ErrItemNotApplicable)
	}
	return target.Heal(i.HealAmount), nil
}

// SpellResult describes what a cast did.
type SpellResult struct {
	Spell   string
	Damage  int
	Healing int
}

// Cast spends the caster's mana and resolves the spell. Damage spells hit
// target for max(1, power - defense/2); heal spells heal the caster.
// Nothing is spent when the caster lacks mana.
func (i Item) Cast(caster *Player, target Combatant) (SpellResult, error) {
	result := SpellResult{Spell: i.Name}

	if i.Type != gamedata.ItemSpell {
		return result, fmt.Errorf("%s is not a spell: %w", i.Name, ErrInvalidItemSelection)
	}
	if i.SpellEffect == gamedata.SpellDamage && target == nil {
		return result, fmt.Errorf("%s needs a target: %w", i.Name, ErrInvalidItemSelection)
	}
	if !caster.SpendMana(i.ManaCost) {
		return result, fmt.Errorf("%s costs %d, have %d: %w", i.Name, i.ManaCost, caster.Mana, ErrInsufficientResource)
	}

	switch i.SpellEffect {
	case gamedata.SpellDamage:
		damage := max(1, i.Power-target.GetDefense()/2)
		result.Damage = target.TakeDamage(damage)
	case gamedata.SpellHeal:
		result.Healing = caster.Heal(i.Power)
	}

	return result, nil
}
