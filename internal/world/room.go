package world

import (
	"maps"

	"github.com/samdwyer/cryptcrawl/internal/gamedata"
)

// Room is one node of the static room graph.
type Room struct {
	ID          string
	Name        string
	Kind        gamedata.RoomKind
	Description string
	Connections map[string]string // direction label -> destination room ID
	Enemy       string            // enemy type ID, empty if none
	Loot        string            // item ID, empty if none
}

// newRoom copies a catalog definition so the world never aliases catalog maps.
func newRoom(def gamedata.RoomDef) *Room {
	connections := make(map[string]string, len(def.Connections))
	maps.Copy(connections, def.Connections)
	return &Room{
		ID:          def.ID,
		Name:        def.Name,
		Kind:        def.Kind,
		Description: def.Description,
		Connections: connections,
		Enemy:       def.Enemy,
		Loot:        def.Item,
	}
}

// HasEnemyTag reports whether the room declares an enemy.
func (r *Room) HasEnemyTag() bool { return r.Enemy != "" }

// HasLootTag reports whether the room declares loot.
func (r *Room) HasLootTag() bool { return r.Loot != "" }
