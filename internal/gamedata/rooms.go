package gamedata

// RoomKind tags what a room is for.
type RoomKind string

const (
	RoomStart    RoomKind = "start"
	RoomCorridor RoomKind = "corridor"
	RoomEnemy    RoomKind = "enemy"
	RoomTreasure RoomKind = "treasure"
	RoomBoss     RoomKind = "boss"
	RoomExit     RoomKind = "exit"
)

// RoomDef defines one room of the static room graph.
type RoomDef struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name"`
	Kind        RoomKind          `yaml:"kind"`
	Description string            `yaml:"description"`
	Connections map[string]string `yaml:"connections"` // direction label -> room ID, not mirrored
	Enemy       string            `yaml:"enemy,omitempty"`
	Item        string            `yaml:"item,omitempty"`
}

// RoomsFile represents the structure of rooms.yaml.
type RoomsFile struct {
	Start string    `yaml:"start"`
	Rooms []RoomDef `yaml:"rooms"`
}

// LoadRooms loads the room table from the embedded rooms.yaml file.
func LoadRooms() (RoomsFile, error) {
	return LoadYAML[RoomsFile]("rooms.yaml")
}
