// Package world provides the room graph and the player's progress through it.
package world

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"golang.org/x/text/cases"

	"github.com/samdwyer/cryptcrawl/internal/gamedata"
)

// ErrInvalidDirection is returned by Travel when a room has no exit in the
// requested direction.
var ErrInvalidDirection = errors.New("no exit in that direction")

// World owns the static room table and the three progress sets. All
// mutation of progress goes through its methods; accessors return copies.
type World struct {
	rooms map[string]*Room
	start string

	visited  map[string]struct{}
	defeated map[string]struct{}
	looted   map[string]struct{}
}

// New builds a world from a room table with no progress recorded.
func New(defs []gamedata.RoomDef, start string) *World {
	w := &World{
		rooms:    make(map[string]*Room, len(defs)),
		start:    start,
		visited:  make(map[string]struct{}),
		defeated: make(map[string]struct{}),
		looted:   make(map[string]struct{}),
	}
	for _, def := range defs {
		w.rooms[def.ID] = newRoom(def)
	}
	return w
}

// FromCatalog builds a fresh world from the catalog room table.
func FromCatalog(catalog *gamedata.Catalog) *World {
	return New(catalog.Rooms.Rooms, catalog.Rooms.Start)
}

// Start returns the starting room ID.
func (w *World) Start() string { return w.start }

// RoomCount returns the number of rooms.
func (w *World) RoomCount() int { return len(w.rooms) }

// Room returns the room with the given ID, or nil.
func (w *World) Room(id string) *Room {
	return w.rooms[id]
}

// Connections returns a copy of the room's exits, or an empty map for an
// unknown room.
func (w *World) Connections(id string) map[string]string {
	room := w.rooms[id]
	if room == nil {
		return map[string]string{}
	}
	return maps.Clone(room.Connections)
}

// Directions returns the room's exit labels in sorted order.
func (w *World) Directions(id string) []string {
	room := w.rooms[id]
	if room == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(room.Connections))
}

// Move returns the room reached by leaving id in direction. Direction
// matching ignores case. ok is false when there is no such exit.
func (w *World) Move(id, direction string) (dest string, ok bool) {
	room := w.rooms[id]
	if room == nil {
		return "", false
	}

	fold := cases.Fold()
	want := fold.String(direction)
	for label, to := range room.Connections {
		if fold.String(label) == want {
			return to, true
		}
	}
	return "", false
}

// Travel is Move for callers that want an error.
func (w *World) Travel(id, direction string) (string, error) {
	dest, ok := w.Move(id, direction)
	if !ok {
		return "", fmt.Errorf("room %s, %q: %w", id, direction, ErrInvalidDirection)
	}
	return dest, nil
}

// Visit records that the player has entered a room.
func (w *World) Visit(id string) {
	w.visited[id] = struct{}{}
}

// HasEnemy reports whether the room declares an enemy that has not been
// defeated yet.
func (w *World) HasEnemy(id string) bool {
	room := w.rooms[id]
	if room == nil || !room.HasEnemyTag() {
		return false
	}
	_, done := w.defeated[id]
	return !done
}

// EnemyType returns the live enemy's type ID, or "" if there is none.
func (w *World) EnemyType(id string) string {
	if !w.HasEnemy(id) {
		return ""
	}
	return w.rooms[id].Enemy
}

// DefeatEnemy marks the room's enemy as permanently cleared. Idempotent.
func (w *World) DefeatEnemy(id string) {
	w.defeated[id] = struct{}{}
}

// HasLoot reports whether the room's loot can be collected: the room
// declares loot, any declared enemy is defeated, and it was not taken yet.
func (w *World) HasLoot(id string) bool {
	room := w.rooms[id]
	if room == nil || !room.HasLootTag() {
		return false
	}
	if room.HasEnemyTag() {
		if _, done := w.defeated[id]; !done {
			return false
		}
	}
	_, taken := w.looted[id]
	return !taken
}

// CollectLoot returns the room's loot item ID and marks it collected.
// It returns false when HasLoot is false, so repeat calls are no-ops.
func (w *World) CollectLoot(id string) (string, bool) {
	if !w.HasLoot(id) {
		return "", false
	}
	w.looted[id] = struct{}{}
	return w.rooms[id].Loot, true
}

// IsExit reports whether the room is the dungeon exit.
func (w *World) IsExit(id string) bool {
	room := w.rooms[id]
	return room != nil && room.Kind == gamedata.RoomExit
}

// Visited returns the visited room IDs in sorted order.
func (w *World) Visited() []string { return sortedKeys(w.visited) }

// DefeatedEnemies returns the IDs of rooms whose enemy is cleared.
func (w *World) DefeatedEnemies() []string { return sortedKeys(w.defeated) }

// LootedRooms returns the IDs of rooms whose loot was collected.
func (w *World) LootedRooms() []string { return sortedKeys(w.looted) }

// Restore replaces all progress with the given room ID sets.
func (w *World) Restore(visited, defeated, looted []string) {
	w.visited = toSet(visited)
	w.defeated = toSet(defeated)
	w.looted = toSet(looted)
}

// Progress summarises how much of the dungeon has been cleared.
type Progress struct {
	Rooms    int
	Visited  int
	Defeated int
	Looted   int
}

// Progress returns counts of the progress sets.
func (w *World) Progress() Progress {
	return Progress{
		Rooms:    len(w.rooms),
		Visited:  len(w.visited),
		Defeated: len(w.defeated),
		Looted:   len(w.looted),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for id := range set {
		keys = append(keys, id)
	}
	slices.Sort(keys)
	return keys
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
