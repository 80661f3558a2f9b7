package save

import (
	"encoding/json"
	"fmt"

	"github.com/samdwyer/cryptcrawl/internal/entity"
	"github.com/samdwyer/cryptcrawl/internal/gamedata"
	"github.com/samdwyer/cryptcrawl/internal/world"
)

// Version is written into every save record.
const Version = "1.0"

// Record is the on-disk save format.
type Record struct {
	Version   string       `json:"version"`
	Timestamp string       `json:"timestamp"`
	Player    PlayerRecord `json:"player"`
	World     WorldRecord  `json:"world"`
}

// PlayerRecord holds the player's raw stats. Derived stats are stored for
// readers of the file but recomputed on load.
type PlayerRecord struct {
	Name      string       `json:"name"`
	Level     int          `json:"level"`
	XP        int          `json:"xp"`
	MaxHP     int          `json:"max_hp"`
	HP        int          `json:"hp"`
	Strength  int          `json:"strength"`
	Vitality  int          `json:"vitality"`
	Agility   int          `json:"agility"`
	Position  string       `json:"position"`
	Mana      *int         `json:"mana,omitempty"`
	Inventory []ItemRecord `json:"inventory"`

	EquippedWeapon *EquipRecord `json:"equipped_weapon"`
	EquippedShield *EquipRecord `json:"equipped_shield"`
	EquippedArmor  *EquipRecord `json:"equipped_armor,omitempty"`
}

// ItemRecord is one inventory entry tagged by type. Bonus fields that do
// not belong to the item's type are null.
type ItemRecord struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Description  string `json:"description"`
	AttackBonus  *int   `json:"attack_bonus"`
	DefenseBonus *int   `json:"defense_bonus"`
	HealAmount   *int   `json:"heal_amount"`

	ManaBonus    *int   `json:"mana_bonus,omitempty"`
	SummonEntity string `json:"summon_entity,omitempty"`
	ManaCost     *int   `json:"mana_cost,omitempty"`
	Power        *int   `json:"power,omitempty"`
	SpellEffect  string `json:"spell_effect,omitempty"`
}

// EquipRecord names an equipped item.
type EquipRecord struct {
	Name         string `json:"name"`
	AttackBonus  *int   `json:"attack_bonus,omitempty"`
	DefenseBonus *int   `json:"defense_bonus,omitempty"`
}

// WorldRecord holds the world's progress sets. Order is not significant.
type WorldRecord struct {
	VisitedRooms    []string `json:"visited_rooms"`
	DefeatedEnemies []string `json:"defeated_enemies"`
	LootedRooms     []string `json:"looted_rooms"`
}

// Summary is the lightweight header returned by Manager.List.
type Summary struct {
	Filename  string
	Player    string
	Level     int
	Timestamp string
}

var (
	requiredTop    = []string{"version", "player", "world"}
	requiredPlayer = []string{
		"name", "level", "xp", "max_hp", "hp", "strength", "vitality", "agility",
		"position", "inventory", "equipped_weapon", "equipped_shield",
	}
	requiredItem  = []string{"name", "type"}
	requiredWorld = []string{"visited_rooms", "defeated_enemies", "looted_rooms"}
)

func intPtr(v int) *int { return &v }

func intOr(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}

// newRecord snapshots player and w.
func newRecord(player *entity.Player, w *world.World, timestamp string) Record {
	rec := Record{
		Version:   Version,
		Timestamp: timestamp,
		Player: PlayerRecord{
			Name:      player.Name,
			Level:     player.Level,
			XP:        player.XP,
			MaxHP:     player.MaxHP,
			HP:        player.HP,
			Strength:  player.Strength,
			Vitality:  player.Vitality,
			Agility:   player.Agility,
			Position:  player.Position,
			Mana:      intPtr(player.Mana),
			Inventory: make([]ItemRecord, 0, len(player.Inventory)),
		},
		World: WorldRecord{
			VisitedRooms:    w.Visited(),
			DefeatedEnemies: w.DefeatedEnemies(),
			LootedRooms:     w.LootedRooms(),
		},
	}

	for _, item := range player.Inventory {
		rec.Player.Inventory = append(rec.Player.Inventory, newItemRecord(item))
	}
	if weapon := player.EquippedWeapon(); weapon != nil {
		rec.Player.EquippedWeapon = &EquipRecord{Name: weapon.Name, AttackBonus: intPtr(weapon.AttackBonus)}
	}
	if shield := player.EquippedShield(); shield != nil {
		rec.Player.EquippedShield = &EquipRecord{Name: shield.Name, DefenseBonus: intPtr(shield.DefenseBonus)}
	}
	if armor := player.EquippedArmor(); armor != nil {
		rec.Player.EquippedArmor = &EquipRecord{Name: armor.Name, DefenseBonus: intPtr(armor.DefenseBonus)}
	}

	return rec
}

func newItemRecord(item entity.Item) ItemRecord {
	rec := ItemRecord{
		Name:        item.Name,
		Type:        string(item.Type),
		Description: item.Description,
	}

	switch item.Type {
	case gamedata.ItemWeapon:
		rec.AttackBonus = intPtr(item.AttackBonus)
	case gamedata.ItemShield:
		rec.DefenseBonus = intPtr(item.DefenseBonus)
	case gamedata.ItemArmor:
		rec.DefenseBonus = intPtr(item.DefenseBonus)
		rec.ManaBonus = intPtr(item.ManaBonus)
	case gamedata.ItemConsumable:
		rec.HealAmount = intPtr(item.HealAmount)
	case gamedata.ItemRune:
		rec.SummonEntity = item.SummonEntity
	case gamedata.ItemSpell:
		rec.ManaCost = intPtr(item.ManaCost)
		rec.Power = intPtr(item.Power)
		rec.SpellEffect = string(item.SpellEffect)
	}

	return rec
}

// item rebuilds an inventory entry, preferring the catalog template with
// the same name and type. It reports false for unknown types.
func (r ItemRecord) item(items *gamedata.ItemRegistry) (entity.Item, bool) {
	itemType := gamedata.ItemType(r.Type)
	if !itemType.Valid() {
		return entity.Item{}, false
	}
	if items != nil {
		if def := items.GetByName(r.Name, itemType); def != nil {
			return entity.NewItem(def), true
		}
	}

	switch itemType {
	case gamedata.ItemWeapon:
		return entity.NewWeapon(r.Name, r.Description, intOr(r.AttackBonus, 0)), true
	case gamedata.ItemShield:
		return entity.NewShield(r.Name, r.Description, intOr(r.DefenseBonus, 0)), true
	case gamedata.ItemArmor:
		return entity.NewArmor(r.Name, r.Description, intOr(r.DefenseBonus, 0), intOr(r.ManaBonus, 0)), true
	case gamedata.ItemConsumable:
		return entity.NewPotion(r.Name, r.Description, intOr(r.HealAmount, 0)), true
	case gamedata.ItemKey:
		return entity.NewKey(r.Name, r.Description), true
	case gamedata.ItemRune:
		return entity.NewRune(r.Name, r.Description, r.SummonEntity), true
	case gamedata.ItemSpell:
		return entity.NewSpell(r.Name, r.Description, intOr(r.ManaCost, 0), intOr(r.Power, 0), gamedata.SpellEffect(r.SpellEffect)), true
	}
	return entity.Item{}, false
}

// checkFields reports ErrSaveFieldMissing for the first absent required
// key and ErrSaveCorrupt when a section is not an object.
func checkFields(data []byte) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return fmt.Errorf("%w: %v", ErrSaveCorrupt, err)
	}
	if err := requireKeys("", top, requiredTop); err != nil {
		return err
	}

	var player map[string]json.RawMessage
	if err := json.Unmarshal(top["player"], &player); err != nil {
		return fmt.Errorf("%w: player: %v", ErrSaveCorrupt, err)
	}
	if err := requireKeys("player.", player, requiredPlayer); err != nil {
		return err
	}

	var inventory []map[string]json.RawMessage
	if err := json.Unmarshal(player["inventory"], &inventory); err != nil {
		return fmt.Errorf("%w: player.inventory: %v", ErrSaveCorrupt, err)
	}
	for i, item := range inventory {
		if err := requireKeys(fmt.Sprintf("player.inventory[%d].", i), item, requiredItem); err != nil {
			return err
		}
	}

	var w map[string]json.RawMessage
	if err := json.Unmarshal(top["world"], &w); err != nil {
		return fmt.Errorf("%w: world: %v", ErrSaveCorrupt, err)
	}
	return requireKeys("world.", w, requiredWorld)
}

func requireKeys(prefix string, obj map[string]json.RawMessage, keys []string) error {
	for _, key := range keys {
		if _, ok := obj[key]; !ok {
			return fmt.Errorf("%w: %s%s", ErrSaveFieldMissing, prefix, key)
		}
	}
	return nil
}
