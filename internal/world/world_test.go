package world

import (
	"errors"
	"slices"
	"testing"

	"github.com/samdwyer/cryptcrawl/internal/gamedata"
)

func newTestWorld(t *testing.T) *World {
	t.Helper()
	rooms, err := gamedata.LoadRooms()
	if err != nil {
		t.Fatalf("LoadRooms() error: %v", err)
	}
	return New(rooms.Rooms, rooms.Start)
}

func TestNewWorld(t *testing.T) {
	w := newTestWorld(t)

	if w.Start() != "1" {
		t.Errorf("Start() = %q, want %q", w.Start(), "1")
	}
	if w.RoomCount() != 8 {
		t.Errorf("RoomCount() = %d, want 8", w.RoomCount())
	}
	if p := w.Progress(); p.Visited != 0 || p.Defeated != 0 || p.Looted != 0 {
		t.Errorf("Progress() = %+v, want no progress", p)
	}
}

func TestConnections(t *testing.T) {
	w := newTestWorld(t)

	got := w.Directions("2")
	want := []string{"east", "north", "south", "west"}
	if !slices.Equal(got, want) {
		t.Errorf("Directions(2) = %v, want %v", got, want)
	}

	conns := w.Connections("1")
	conns["up"] = "99"
	if _, ok := w.Connections("1")["up"]; ok {
		t.Error("Connections() should return a copy")
	}

	if len(w.Connections("nope")) != 0 {
		t.Error("Connections(unknown) should be empty")
	}
}

func TestMove(t *testing.T) {
	w := newTestWorld(t)

	tests := []struct {
		from, dir string
		want      string
		ok        bool
	}{
		{"1", "south", "2", true},
		{"2", "east", "3", true},
		{"2", "EAST", "3", true},
		{"2", "South", "4", true},
		{"3", "north", "", false},
		{"6", "west", "", false},
		{"unknown", "south", "", false},
	}

	for _, tt := range tests {
		got, ok := w.Move(tt.from, tt.dir)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Move(%q, %q) = (%q, %v), want (%q, %v)", tt.from, tt.dir, got, ok, tt.want, tt.ok)
		}
	}
}

func TestMoveIsNotMirrored(t *testing.T) {
	w := New([]gamedata.RoomDef{
		{ID: "a", Kind: gamedata.RoomStart, Connections: map[string]string{"down": "b"}},
		{ID: "b", Kind: gamedata.RoomCorridor},
	}, "a")

	if _, ok := w.Move("b", "up"); ok {
		t.Error("connections must not be mirrored automatically")
	}
}

func TestTravel(t *testing.T) {
	w := newTestWorld(t)

	if _, err := w.Travel("3", "north"); !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("Travel(3, north) error = %v, want ErrInvalidDirection", err)
	}
	if dest, err := w.Travel("1", "south"); err != nil || dest != "2" {
		t.Errorf("Travel(1, south) = (%q, %v), want (2, nil)", dest, err)
	}
}

func TestEnemies(t *testing.T) {
	w := newTestWorld(t)

	if !w.HasEnemy("3") || w.EnemyType("3") != "goblin" {
		t.Errorf("room 3 should hold a goblin, got %q", w.EnemyType("3"))
	}
	if !w.HasEnemy("5") || w.EnemyType("5") != "orc_chief" {
		t.Errorf("room 5 should hold the orc chief, got %q", w.EnemyType("5"))
	}
	if w.HasEnemy("1") {
		t.Error("room 1 should have no enemy")
	}

	w.DefeatEnemy("3")
	w.DefeatEnemy("3")

	if w.HasEnemy("3") || w.EnemyType("3") != "" {
		t.Error("room 3 enemy should be cleared")
	}
	if got := w.DefeatedEnemies(); !slices.Equal(got, []string{"3"}) {
		t.Errorf("DefeatedEnemies() = %v, want [3]", got)
	}
}

func TestLootGatedByEnemy(t *testing.T) {
	w := newTestWorld(t)

	if w.HasLoot("3") {
		t.Error("HasLoot(3) should be false before the goblin is defeated")
	}
	if _, ok := w.CollectLoot("3"); ok {
		t.Error("CollectLoot(3) should fail before the goblin is defeated")
	}

	w.DefeatEnemy("3")
	if !w.HasLoot("3") {
		t.Fatal("HasLoot(3) should be true after the goblin is defeated")
	}

	item, ok := w.CollectLoot("3")
	if !ok || item != "rusty_sword" {
		t.Errorf("CollectLoot(3) = (%q, %v), want (rusty_sword, true)", item, ok)
	}
	if w.HasLoot("3") {
		t.Error("HasLoot(3) should be false after collection")
	}
	if item, ok := w.CollectLoot("3"); ok || item != "" {
		t.Errorf("second CollectLoot(3) = (%q, %v), want nothing", item, ok)
	}
}

func TestTreasureRoom(t *testing.T) {
	w := newTestWorld(t)

	if !w.HasLoot("4") {
		t.Fatal("HasLoot(4) should be true")
	}
	item, ok := w.CollectLoot("4")
	if !ok || item != "health_potion" {
		t.Errorf("CollectLoot(4) = (%q, %v), want (health_potion, true)", item, ok)
	}
	if _, ok := w.CollectLoot("4"); ok {
		t.Error("loot must be obtainable at most once")
	}
	if w.HasLoot("2") {
		t.Error("corridor should have no loot")
	}
}

func TestIsExit(t *testing.T) {
	w := newTestWorld(t)

	if !w.IsExit("6") {
		t.Error("IsExit(6) = false, want true")
	}
	if w.IsExit("1") || w.IsExit("missing") {
		t.Error("IsExit should be false for non-exit rooms")
	}
}

func TestRestore(t *testing.T) {
	w := newTestWorld(t)
	w.Restore([]string{"2", "1", "3"}, []string{"3"}, []string{"3"})

	if got := w.Visited(); !slices.Equal(got, []string{"1", "2", "3"}) {
		t.Errorf("Visited() = %v", got)
	}
	if w.HasEnemy("3") || w.HasLoot("3") {
		t.Error("restored room 3 should be cleared and looted")
	}

	visited := w.Visited()
	visited[0] = "changed"
	if w.Visited()[0] != "1" {
		t.Error("Visited() should return a copy")
	}
}

func TestEmptySetsAreNotNil(t *testing.T) {
	w := newTestWorld(t)
	if w.Visited() == nil || w.DefeatedEnemies() == nil || w.LootedRooms() == nil {
		t.Error("progress accessors should return empty, non-nil slices")
	}
}
