package gamedata

// ItemType is the variant tag shared by item templates and save records.
type ItemType string

const (
	ItemWeapon     ItemType = "weapon"
	ItemShield     ItemType = "shield"
	ItemArmor      ItemType = "armor"
	ItemConsumable ItemType = "consumable"
	ItemKey        ItemType = "key"
	ItemRune       ItemType = "rune"
	ItemSpell      ItemType = "spell"
)

// Valid reports whether t is one of the known item variants.
func (t ItemType) Valid() bool {
	switch t {
	case ItemWeapon, ItemShield, ItemArmor, ItemConsumable, ItemKey, ItemRune, ItemSpell:
		return true
	}
	return false
}

// SpellEffect describes what a spell does when cast.
type SpellEffect string

const (
	SpellDamage SpellEffect = "damage"
	SpellHeal   SpellEffect = "heal"
)

// ItemDef defines an item template loaded from JSON.
// Only the payload fields relevant to Type are meaningful.
type ItemDef struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Type         ItemType    `json:"type"`
	Description  string      `json:"description"`
	AttackBonus  int         `json:"attackBonus,omitempty"`
	DefenseBonus int         `json:"defenseBonus,omitempty"`
	ManaBonus    int         `json:"manaBonus,omitempty"`
	HealAmount   int         `json:"healAmount,omitempty"`
	SummonEntity string      `json:"summonEntity,omitempty"` // Enemy ID a rune can summon
	ManaCost     int         `json:"manaCost,omitempty"`
	Power        int         `json:"power,omitempty"`
	SpellEffect  SpellEffect `json:"spellEffect,omitempty"`
}

// ItemsFile represents the structure of items.json.
type ItemsFile struct {
	Items []ItemDef `json:"items"`
}

// LoadItems loads item definitions from the embedded items.json file.
func LoadItems() ([]ItemDef, error) {
	file, err := Load[ItemsFile]("items.json")
	if err != nil {
		return nil, err
	}
	return file.Items, nil
}
