package game

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/samdwyer/cryptcrawl/internal/combat"
	"github.com/samdwyer/cryptcrawl/internal/entity"
	"github.com/samdwyer/cryptcrawl/internal/gamedata"
	"github.com/samdwyer/cryptcrawl/internal/telemetry"
	"github.com/samdwyer/cryptcrawl/internal/world"
)

// Errors for room data the catalog should have rejected.
var (
	ErrUnknownRoom  = errors.New("unknown room")
	ErrUnknownEnemy = errors.New("unknown enemy type")
	ErrUnknownLoot  = errors.New("unknown loot item")
)

// EventKind classifies the outcome of a room visit.
type EventKind string

const (
	EventExit     EventKind = "exit"
	EventCombat   EventKind = "combat"
	EventTreasure EventKind = "treasure"
	EventNone     EventKind = "none"
)

// Event reports what happened when the player entered a room.
type Event struct {
	Kind EventKind
	Room string

	// Combat only.
	Result       combat.Outcome
	EnemyName    string
	XPGained     int
	LevelsGained int
	Encounter    *combat.Result
	Loot         string // granted after a victory, empty if none

	// Treasure only.
	ItemName string
}

// Processor turns a room visit into exactly one Event.
type Processor struct {
	world   *world.World
	catalog *gamedata.Catalog
	engine  *combat.Engine
	logger  *zap.Logger
	tracer  trace.Tracer
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithProcessorLogger sets the processor's logger.
func WithProcessorLogger(logger *zap.Logger) ProcessorOption {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithProcessorTracer sets the processor's tracer.
func WithProcessorTracer(tracer trace.Tracer) ProcessorOption {
	return func(p *Processor) {
		if tracer != nil {
			p.tracer = tracer
		}
	}
}

// NewProcessor creates a processor over w. Enemies and loot are
// instantiated from catalog templates.
func NewProcessor(w *world.World, catalog *gamedata.Catalog, engine *combat.Engine, opts ...ProcessorOption) *Processor {
	p := &Processor{
		world:   w,
		catalog: catalog,
		engine:  engine,
		logger:  zap.NewNop(),
		tracer:  telemetry.Tracer("game"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// World returns the world the processor mutates.
func (p *Processor) World() *world.World { return p.world }

// ProcessRoom resolves the player's visit to their current room.
//
// The room is marked visited, then exactly one branch runs: the exit
// room ends the run; a live enemy starts an encounter, and a victory
// marks it defeated and grants the room's loot; otherwise available loot
// is granted as treasure.
func (p *Processor) ProcessRoom(ctx context.Context, player *entity.Player, d combat.Decider) (Event, error) {
	roomID := player.Position

	ctx, span := p.tracer.Start(ctx, "room.process")
	defer span.End()
	span.SetAttributes(attribute.String("room", roomID))

	if p.world.Room(roomID) == nil {
		err := fmt.Errorf("%w: %q", ErrUnknownRoom, roomID)
		span.SetStatus(codes.Error, err.Error())
		return Event{}, err
	}

	p.world.Visit(roomID)

	ev, err := p.resolve(ctx, roomID, player, d)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Event{}, err
	}

	span.SetAttributes(attribute.String("event", string(ev.Kind)))
	if ev.Result != "" {
		span.SetAttributes(attribute.String("result", string(ev.Result)))
	}
	return ev, nil
}

func (p *Processor) resolve(ctx context.Context, roomID string, player *entity.Player, d combat.Decider) (Event, error) {
	switch {
	case p.world.IsExit(roomID):
		return Event{Kind: EventExit, Room: roomID}, nil

	case p.world.HasEnemy(roomID):
		return p.fight(ctx, roomID, player, d)

	case p.world.HasLoot(roomID):
		item, err := p.grantLoot(roomID, player)
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: EventTreasure, Room: roomID, ItemName: item.Name}, nil

	default:
		return Event{Kind: EventNone, Room: roomID}, nil
	}
}

func (p *Processor) fight(ctx context.Context, roomID string, player *entity.Player, d combat.Decider) (Event, error) {
	enemyID := p.world.EnemyType(roomID)
	enemy, ok := entity.NewEnemy(p.catalog.Enemies.GetByID(enemyID))
	if !ok {
		return Event{}, fmt.Errorf("room %s: %w: %q", roomID, ErrUnknownEnemy, enemyID)
	}

	result, err := p.engine.Run(ctx, player, enemy, d)
	if err != nil {
		return Event{}, fmt.Errorf("room %s: %w", roomID, err)
	}

	ev := Event{
		Kind:      EventCombat,
		Room:      roomID,
		Result:    result.Outcome,
		EnemyName: enemy.Name,
		Encounter: &result,
	}
	if result.Outcome != combat.OutcomeVictory {
		return ev, nil
	}

	ev.XPGained = result.XPGained
	ev.LevelsGained = result.LevelsGained
	p.world.DefeatEnemy(roomID)

	if p.world.HasLoot(roomID) {
		item, err := p.grantLoot(roomID, player)
		if err != nil {
			return Event{}, err
		}
		ev.Loot = item.Name
	}
	return ev, nil
}

// grantLoot moves the room's loot into the player's inventory.
func (p *Processor) grantLoot(roomID string, player *entity.Player) (entity.Item, error) {
	room := p.world.Room(roomID)
	def := p.catalog.Items.GetByID(room.Loot)
	if def == nil {
		return entity.Item{}, fmt.Errorf("room %s: %w: %q", roomID, ErrUnknownLoot, room.Loot)
	}

	if _, ok := p.world.CollectLoot(roomID); !ok {
		return entity.Item{}, fmt.Errorf("room %s: loot already collected", roomID)
	}
	item := entity.NewItem(def)
	player.AddItem(item)

	p.logger.Info("loot granted",
		zap.String("room", roomID),
		zap.String("item", item.Name),
		zap.String("player", player.Name),
	)
	return item, nil
}
