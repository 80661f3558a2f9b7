package gamedata

import (
	"errors"
	"fmt"
)

// Catalog bundles the static configuration the core consumes: item and
// enemy templates plus the room table. It is never mutated at runtime.
type Catalog struct {
	Items   *ItemRegistry
	Enemies *EnemyRegistry
	Rooms   RoomsFile
}

// LoadCatalog loads every embedded data file and validates cross references.
func LoadCatalog() (*Catalog, error) {
	items, err := LoadItemRegistry()
	if err != nil {
		return nil, err
	}
	enemies, err := LoadEnemyRegistry()
	if err != nil {
		return nil, err
	}
	rooms, err := LoadRooms()
	if err != nil {
		return nil, err
	}

	catalog := &Catalog{Items: items, Enemies: enemies, Rooms: rooms}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return catalog, nil
}

// MustLoadCatalog loads the catalog, panicking on error.
func MustLoadCatalog() *Catalog {
	catalog, err := LoadCatalog()
	if err != nil {
		panic(err)
	}
	return catalog
}

// Validate checks that every reference inside the catalog resolves.
func (c *Catalog) Validate() error {
	var errs []error

	for _, item := range c.Items.All() {
		if !item.Type.Valid() {
			errs = append(errs, fmt.Errorf("item %q: unknown type %q", item.ID, item.Type))
		}
		if item.Type == ItemRune && c.Enemies.GetByID(item.SummonEntity) == nil {
			errs = append(errs, fmt.Errorf("rune %q summons unknown enemy %q", item.ID, item.SummonEntity))
		}
		if item.Type == ItemSpell && item.SpellEffect != SpellDamage && item.SpellEffect != SpellHeal {
			errs = append(errs, fmt.Errorf("spell %q: unknown effect %q", item.ID, item.SpellEffect))
		}
	}

	ids := make(map[string]bool, len(c.Rooms.Rooms))
	for _, room := range c.Rooms.Rooms {
		if ids[room.ID] {
			errs = append(errs, fmt.Errorf("duplicate room %q", room.ID))
		}
		ids[room.ID] = true
	}
	if !ids[c.Rooms.Start] {
		errs = append(errs, fmt.Errorf("start room %q not defined", c.Rooms.Start))
	}

	for _, room := range c.Rooms.Rooms {
		for dir, dest := range room.Connections {
			if !ids[dest] {
				errs = append(errs, fmt.Errorf("room %q: %s leads to unknown room %q", room.ID, dir, dest))
			}
		}
		if room.Enemy != "" && c.Enemies.GetByID(room.Enemy) == nil {
			errs = append(errs, fmt.Errorf("room %q: unknown enemy %q", room.ID, room.Enemy))
		}
		if room.Item != "" && c.Items.GetByID(room.Item) == nil {
			errs = append(errs, fmt.Errorf("room %q: unknown item %q", room.ID, room.Item))
		}
	}

	return errors.Join(errs...)
}
