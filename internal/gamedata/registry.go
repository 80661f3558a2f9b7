package gamedata

import "errors"

// EnemyRegistry holds loaded enemy definitions and provides lookup utilities.
type EnemyRegistry struct {
	enemies []EnemyDef
	byID    map[string]*EnemyDef
}

// NewEnemyRegistry creates a registry from loaded enemy definitions.
func NewEnemyRegistry(enemies []EnemyDef) *EnemyRegistry {
	registry := &EnemyRegistry{
		enemies: enemies,
		byID:    make(map[string]*EnemyDef, len(enemies)),
	}
	for i := range enemies {
		registry.byID[enemies[i].ID] = &enemies[i]
	}
	return registry
}

// LoadEnemyRegistry loads and creates a registry from the embedded enemies.json.
func LoadEnemyRegistry() (*EnemyRegistry, error) {
	enemies, err := LoadEnemies()
	if err != nil {
		return nil, err
	}
	if len(enemies) == 0 {
		return nil, errors.New("no enemies loaded from enemies.json")
	}
	return NewEnemyRegistry(enemies), nil
}

// GetByID returns the enemy definition with the given ID, or nil if not found.
func (r *EnemyRegistry) GetByID(id string) *EnemyDef {
	return r.byID[id]
}

// All returns all enemy definitions.
func (r *EnemyRegistry) All() []EnemyDef {
	return r.enemies
}

// Count returns the number of enemy types in the registry.
func (r *EnemyRegistry) Count() int {
	return len(r.enemies)
}

// =============================================================================
// ItemRegistry
// =============================================================================

// ItemRegistry holds loaded item templates keyed by ID.
type ItemRegistry struct {
	items []ItemDef
	byID  map[string]*ItemDef
}

// NewItemRegistry creates a registry from loaded item definitions.
func NewItemRegistry(items []ItemDef) *ItemRegistry {
	registry := &ItemRegistry{
		items: items,
		byID:  make(map[string]*ItemDef, len(items)),
	}
	for i := range items {
		registry.byID[items[i].ID] = &items[i]
	}
	return registry
}

// LoadItemRegistry loads and creates a registry from the embedded items.json.
func LoadItemRegistry() (*ItemRegistry, error) {
	items, err := LoadItems()
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.New("no items loaded from items.json")
	}
	return NewItemRegistry(items), nil
}

// GetByID returns the item definition with the given ID, or nil if not found.
func (r *ItemRegistry) GetByID(id string) *ItemDef {
	return r.byID[id]
}

// GetByName returns the first item definition with the given display name
// and type, or nil. Save files reference items by name.
func (r *ItemRegistry) GetByName(name string, itemType ItemType) *ItemDef {
	for i := range r.items {
		if r.items[i].Name == name && r.items[i].Type == itemType {
			return &r.items[i]
		}
	}
	return nil
}

// All returns all item definitions.
func (r *ItemRegistry) All() []ItemDef {
	return r.items
}

// Count returns the number of items in the registry.
func (r *ItemRegistry) Count() int {
	return len(r.items)
}
