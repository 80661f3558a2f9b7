package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/samdwyer/cryptcrawl/internal/combat"
	"github.com/samdwyer/cryptcrawl/internal/entity"
	"github.com/samdwyer/cryptcrawl/internal/gamedata"
	"github.com/samdwyer/cryptcrawl/internal/save"
	"github.com/samdwyer/cryptcrawl/internal/telemetry"
	"github.com/samdwyer/cryptcrawl/internal/ui"
	"github.com/samdwyer/cryptcrawl/internal/world"
)

// maxMessages bounds the on-screen message log.
const maxMessages = 50

// Game holds the entire game state.
type Game struct {
	screen    *ui.Screen
	renderer  *ui.Renderer
	catalog   *gamedata.Catalog
	engine    *combat.Engine
	processor *Processor
	saves     *save.Manager
	logger    *zap.Logger
	tracer    trace.Tracer

	player   *entity.Player
	previous string // room the player came from
	state    State
	running  bool
	messages []string

	// combat log bookkeeping
	sessionID   string
	eventCursor int
}

// New creates a new game instance.
func New(cfg Config, catalog *gamedata.Catalog, logger *zap.Logger) (*Game, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	saves, err := save.NewManager(cfg.SaveDir, catalog, save.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed>>1)))
	engine := combat.NewEngine(rng, combat.WithLogger(logger))

	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}

	g := &Game{
		screen:   screen,
		renderer: ui.NewRenderer(screen),
		catalog:  catalog,
		engine:   engine,
		saves:    saves,
		logger:   logger,
		tracer:   telemetry.Tracer("game"),
		state:    StateExplore,
		running:  true,
	}
	g.reset(entity.NewPlayer(cfg.PlayerName, catalog.Rooms.Start), world.FromCatalog(catalog))
	return g, nil
}

// reset installs a player and world, as on a new game or a load.
func (g *Game) reset(player *entity.Player, w *world.World) {
	g.player = player
	g.previous = ""
	g.processor = NewProcessor(w, g.catalog, g.engine, WithProcessorLogger(g.logger))
	g.state = StateExplore
}

// Run executes the main game loop.
func (g *Game) Run(ctx context.Context) error {
	ctx, initSpan := g.tracer.Start(ctx, "game.init")
	initSpan.SetAttributes(
		attribute.Int("world.rooms", g.processor.World().RoomCount()),
		attribute.String("player.start", g.player.Position),
	)
	initSpan.End()

	g.logger.Info("game started", zap.String("player", g.player.Name), zap.String("room", g.player.Position))
	g.say("%s descends into the crypt.", g.player.Name)
	g.enterRoom(ctx)

	for g.running {
		if ctx.Err() != nil {
			break
		}
		g.render()
		g.handleInput(ctx)
	}

	g.screen.Close()
	return nil
}

func (g *Game) render() {
	w := g.processor.World()
	switch g.state {
	case StateInventory:
		g.renderer.RenderInventory(g.player, g.messages)
	case StateDefeat:
		g.renderer.RenderGameOver("You have fallen.", g.player, w.Progress(), g.messages)
	case StateEscaped:
		g.renderer.RenderGameOver("You escaped the crypt!", g.player, w.Progress(), g.messages)
	default:
		g.renderer.RenderRoom(w.Room(g.player.Position), w.Directions(g.player.Position), g.player, g.messages)
	}
}

// handleInput processes a single input event.
func (g *Game) handleInput(ctx context.Context) {
	switch ev := g.screen.PollEvent().(type) {
	case *tcell.EventKey:
		g.handleKeyEvent(ctx, ev)
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

// handleKeyEvent processes keyboard input outside combat.
func (g *Game) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		g.running = false
		return
	case tcell.KeyEscape:
		if g.state == StateInventory {
			g.state = StateExplore
		} else {
			g.running = false
		}
		return
	case tcell.KeyF5:
		g.saveGame(ctx)
		return
	case tcell.KeyF9:
		g.loadLatest(ctx)
		return
	case tcell.KeyUp:
		g.tryMove(ctx, "north")
		return
	case tcell.KeyDown:
		g.tryMove(ctx, "south")
		return
	case tcell.KeyLeft:
		g.tryMove(ctx, "west")
		return
	case tcell.KeyRight:
		g.tryMove(ctx, "east")
		return
	case tcell.KeyRune:
	default:
		return
	}

	r := ev.Rune()
	switch {
	case r == 'q' || r == 'Q':
		g.running = false
	case r == 's' || r == 'S':
		g.saveGame(ctx)
	case r == 'l' || r == 'L':
		g.loadLatest(ctx)
	case r == 'i' || r == 'I':
		if g.state == StateExplore {
			g.state = StateInventory
		} else if g.state == StateInventory {
			g.state = StateExplore
		}
	case r >= '1' && r <= '9':
		index := int(r - '1')
		if g.state == StateInventory {
			g.useFromInventory(index)
		} else {
			g.moveByIndex(ctx, index)
		}
	}
}

// moveByIndex follows the n-th listed exit.
func (g *Game) moveByIndex(ctx context.Context, index int) {
	exits := g.processor.World().Directions(g.player.Position)
	if index >= len(exits) {
		g.say("There is no exit %d here.", index+1)
		return
	}
	g.tryMove(ctx, exits[index])
}

// tryMove moves the player along direction and resolves the new room.
func (g *Game) tryMove(ctx context.Context, direction string) {
	if g.state != StateExplore {
		return
	}

	dest, err := g.processor.World().Travel(g.player.Position, direction)
	if err != nil {
		g.say("You can't go %s from here.", direction)
		return
	}

	g.previous = g.player.Position
	g.player.Position = dest
	g.enterRoom(ctx)
}

// enterRoom runs the room event for the player's current room.
func (g *Game) enterRoom(ctx context.Context) {
	ev, err := g.processor.ProcessRoom(ctx, g.player, g)
	if ev.Encounter != nil {
		if ev.Encounter.EncounterID != g.sessionID {
			g.sessionID, g.eventCursor = ev.Encounter.EncounterID, 0
		}
		g.flushCombatLog(ev.Encounter.Events)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			g.running = false
			return
		}
		g.logger.Error("room event failed", zap.String("room", g.player.Position), zap.Error(err))
		g.say("Something went wrong: %v", err)
		return
	}

	for _, line := range describeEvent(ev, g.processor.World().Room(ev.Room)) {
		g.say("%s", line)
	}

	switch {
	case ev.Kind == EventExit:
		g.state = StateEscaped
		g.logger.Info("player escaped", zap.String("player", g.player.Name), zap.Int("level", g.player.Level))
	case ev.Kind == EventCombat && ev.Result == combat.OutcomeDefeat:
		g.state = StateDefeat
		g.logger.Info("player defeated", zap.String("player", g.player.Name), zap.String("enemy", ev.EnemyName))
	case ev.Kind == EventCombat && ev.Result == combat.OutcomeFled:
		g.state = StateExplore
		if g.previous != "" {
			g.player.Position, g.previous = g.previous, ""
			g.say("You retreat the way you came.")
		}
	default:
		g.state = StateExplore
	}
}

var _ combat.Decider = (*Game)(nil)

// Choose implements combat.Decider by reading the player's next key.
func (g *Game) Choose(ctx context.Context, s *combat.Session) (combat.Action, error) {
	g.state = StateCombat
	if id := s.ID.String(); id != g.sessionID {
		g.sessionID, g.eventCursor = id, 0
		g.say("%s attacks!", s.Enemy.Name)
	}

	for {
		if err := ctx.Err(); err != nil {
			return combat.Action{}, err
		}
		g.flushCombatLog(s.Events)
		g.renderer.RenderCombat(s, g.messages)

		switch ev := g.screen.PollEvent().(type) {
		case *tcell.EventResize:
			g.screen.Sync()
		case *tcell.EventKey:
			if action, ok := g.combatAction(s, ev); ok {
				return action, nil
			}
		}
	}
}

func (g *Game) combatAction(s *combat.Session, ev *tcell.EventKey) (combat.Action, bool) {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		g.running = false
		return combat.Interrupt(), true
	case tcell.KeyEscape:
		return combat.Interrupt(), true
	case tcell.KeyRune:
	default:
		return combat.Action{}, false
	}

	r := ev.Rune()
	switch {
	case r == 'a' || r == 'A':
		return combat.Attack(), true
	case r == 'f' || r == 'F':
		return combat.Flee(), true
	case r >= '1' && r <= '9':
		index := int(r - '1')
		if item, err := s.Player.ItemAt(index); err == nil && item.Type == gamedata.ItemSpell {
			return combat.CastSpell(index), true
		}
		return combat.UseItem(index), true
	}
	return combat.Action{}, false
}

// flushCombatLog appends events not yet shown to the message log.
func (g *Game) flushCombatLog(events []combat.TurnEvent) {
	for _, ev := range events[min(g.eventCursor, len(events)):] {
		g.say("%s", ui.DescribeTurn(ev))
	}
	g.eventCursor = len(events)
}

// useFromInventory equips equipment or uses consumables and healing
// spells outside combat.
func (g *Game) useFromInventory(index int) {
	item, err := g.player.ItemAt(index)
	if err != nil {
		g.say("No item in slot %d.", index+1)
		return
	}

	switch item.Type {
	case gamedata.ItemWeapon, gamedata.ItemShield, gamedata.ItemArmor:
		if err := g.player.Equip(index); err != nil {
			g.say("Can't equip %s: %v", item.Name, err)
			return
		}
		g.say("You equip %s.", ui.ItemLabel(item))
	case gamedata.ItemConsumable:
		healed, err := g.player.UseItem(index)
		if err != nil {
			g.say("Can't use %s: %v", item.Name, err)
			return
		}
		g.say("You use %s and recover %d HP.", item.Name, healed)
	case gamedata.ItemSpell:
		if item.SpellEffect != gamedata.SpellHeal {
			g.say("%s needs a target.", item.Name)
			return
		}
		result, err := g.player.CastSpell(index, nil)
		if err != nil {
			g.say("Can't cast %s: %v", item.Name, err)
			return
		}
		g.say("You cast %s and recover %d HP.", item.Name, result.Healing)
	default:
		g.say("%s: %s", item.Name, item.Description)
	}
}

func (g *Game) saveGame(ctx context.Context) {
	if g.state == StateDefeat {
		g.say("The dead cannot save.")
		return
	}
	filename, err := g.saves.Save(ctx, g.player, g.processor.World(), "")
	if err != nil {
		g.say("Save failed: %v", err)
		return
	}
	g.say("Game saved to %s.", filename)
}

func (g *Game) loadLatest(ctx context.Context) {
	latest, err := g.saves.Latest(ctx)
	if err != nil {
		g.say("No saved game found.")
		return
	}

	player, w, err := g.saves.Load(ctx, latest.Filename)
	switch {
	case errors.Is(err, save.ErrSaveNotFound):
		g.say("Save %s has disappeared.", latest.Filename)
		return
	case errors.Is(err, save.ErrSaveCorrupt):
		g.say("Save %s is corrupt.", latest.Filename)
		return
	case errors.Is(err, save.ErrSaveFieldMissing):
		g.say("Save %s is incomplete: %v", latest.Filename, err)
		return
	case err != nil:
		g.say("Load failed: %v", err)
		return
	}

	g.reset(player, w)
	g.say("Loaded %s (%s, level %d).", latest.Filename, player.Name, player.Level)
}

// say appends a formatted line to the message log.
func (g *Game) say(format string, args ...any) {
	g.messages = append(g.messages, fmt.Sprintf(format, args...))
	if len(g.messages) > maxMessages {
		g.messages = g.messages[len(g.messages)-maxMessages:]
	}
}

// Close cleans up game resources.
func (g *Game) Close() {
	if g.screen != nil {
		g.screen.Close()
	}
}
