package combat

import (
	"context"
	"errors"
	"testing"

	"github.com/samdwyer/cryptcrawl/internal/entity"
	"github.com/samdwyer/cryptcrawl/internal/gamedata"
	"github.com/samdwyer/cryptcrawl/internal/telemetry"
)

// fixedRand returns the queued rolls in order, then 0.99 (no critical,
// no escape) once they run out.
type fixedRand struct {
	rolls []float64
}

func (r *fixedRand) Float64() float64 {
	if len(r.rolls) == 0 {
		return 0.99
	}
	v := r.rolls[0]
	r.rolls = r.rolls[1:]
	return v
}

// scriptedDecider plays back actions and interrupts once they run out.
type scriptedDecider struct {
	actions []Action
	turns   []int // session turn seen by each Choose call
}

func (d *scriptedDecider) Choose(_ context.Context, s *Session) (Action, error) {
	d.turns = append(d.turns, s.Turn)
	if len(d.actions) == 0 {
		return Interrupt(), nil
	}
	a := d.actions[0]
	d.actions = d.actions[1:]
	return a, nil
}

func attacks(n int) []Action {
	out := make([]Action, n)
	for i := range out {
		out[i] = Attack()
	}
	return out
}

func newEngine(rolls ...float64) *Engine {
	return NewEngine(&fixedRand{rolls: rolls}, WithTracer(telemetry.NoopTracer()))
}

func newGoblin(t *testing.T) *entity.Enemy {
	t.Helper()
	e, ok := entity.NewEnemy(&gamedata.EnemyDef{
		ID: "goblin", Name: "Goblin", HP: 50, Attack: 10, Defense: 2, XPReward: 120, CanFlee: true,
	})
	if !ok {
		t.Fatal("NewEnemy(goblin) failed")
	}
	return e
}

func newOrcChief(t *testing.T) *entity.Enemy {
	t.Helper()
	e, ok := entity.NewEnemy(&gamedata.EnemyDef{
		ID: "orc_chief", Name: "Orc Chief", HP: 90, Attack: 20, Defense: 7, XPReward: 180, CanFlee: false,
	})
	if !ok {
		t.Fatal("NewEnemy(orc_chief) failed")
	}
	return e
}

func eventKinds(events []TurnEvent) []EventKind {
	kinds := make([]EventKind, len(events))
	for i, ev := range events {
		kinds[i] = ev.Kind
	}
	return kinds
}

func sameKinds(got, want []EventKind) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestCalculateDamage(t *testing.T) {
	tests := []struct {
		name     string
		attack   int
		defense  int
		critical bool
		want     int
	}{
		{"normal hit", 13, 2, false, 11},
		{"defense exceeds attack", 5, 10, false, 1},
		{"equal stats", 7, 7, false, 1},
		{"critical doubles difference", 13, 2, true, 22},
		{"critical with no difference", 7, 7, true, 1},
		{"critical still clamps", 5, 10, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateDamage(tt.attack, tt.defense, tt.critical); got != tt.want {
				t.Errorf("CalculateDamage(%d, %d, %v) = %d, want %d", tt.attack, tt.defense, tt.critical, got, tt.want)
			}
		})
	}
}

func TestRunVictoryGrantsXP(t *testing.T) {
	player := entity.NewPlayer("Arthon", "3")
	goblin := newGoblin(t)

	result, err := newEngine().Run(context.Background(), player, goblin, &scriptedDecider{actions: attacks(10)})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if result.Outcome != OutcomeVictory {
		t.Fatalf("Outcome = %s, want victory", result.Outcome)
	}
	// 11 damage per hit against 50 HP.
	if result.Turns != 5 {
		t.Errorf("Turns = %d, want 5", result.Turns)
	}
	if result.XPGained != 120 {
		t.Errorf("XPGained = %d, want 120", result.XPGained)
	}
	if result.LevelsGained != 1 || player.Level != 2 || player.XP != 20 {
		t.Errorf("after victory level=%d xp=%d gained=%d, want 2/20/1", player.Level, player.XP, result.LevelsGained)
	}
	// Leveling restores HP.
	if player.HP != player.MaxHP {
		t.Errorf("HP = %d, want full %d after level up", player.HP, player.MaxHP)
	}

	enemyHits := 0
	for _, ev := range result.Events {
		if ev.Kind == EventEnemyAttack {
			enemyHits++
		}
	}
	if enemyHits != 4 {
		t.Errorf("enemy attacked %d times, want 4 (no attack after it falls)", enemyHits)
	}
}

func TestRunDefeat(t *testing.T) {
	player := entity.NewPlayer("Arthon", "3")
	player.HP = 5
	goblin := newGoblin(t)

	result, err := newEngine().Run(context.Background(), player, goblin, &scriptedDecider{actions: attacks(3)})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if result.Outcome != OutcomeDefeat {
		t.Errorf("Outcome = %s, want defeat", result.Outcome)
	}
	if player.HP != 0 {
		t.Errorf("player HP = %d, want 0", player.HP)
	}
	if result.XPGained != 0 || player.XP != 0 {
		t.Errorf("defeat should not grant XP, got %d", result.XPGained)
	}
}

func TestPlayerAttackCritical(t *testing.T) {
	player := entity.NewPlayer("Arthon", "3")
	goblin := newGoblin(t)
	s := NewSession(player, goblin)

	// 0.05 is below the 10% critical chance at agility 5.
	ev := newEngine(0.05).PlayerAttack(s)

	if !ev.Critical {
		t.Error("expected a critical hit")
	}
	if ev.Amount != 22 || goblin.HP != 28 {
		t.Errorf("critical dealt %d (goblin HP %d), want 22 (28)", ev.Amount, goblin.HP)
	}
}

func TestFleeBlockedByBoss(t *testing.T) {
	player := entity.NewPlayer("Arthon", "5")
	chief := newOrcChief(t)
	decider := &scriptedDecider{actions: []Action{Flee(), Flee()}}

	// Rolls that would escape anything else.
	result, err := newEngine(0.01, 0.01, 0.01, 0.01).Run(context.Background(), player, chief, decider)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	want := []EventKind{
		EventFleeBlocked, EventEnemyAttack,
		EventFleeBlocked, EventEnemyAttack,
		EventInterrupted,
	}
	if got := eventKinds(result.Events); !sameKinds(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	// 20 attack against 5 defense, twice.
	if player.HP != 70 {
		t.Errorf("player HP = %d, want 70", player.HP)
	}
	if result.Turns != 3 {
		t.Errorf("Turns = %d, want 3", result.Turns)
	}
}

func TestFleeSuccess(t *testing.T) {
	player := entity.NewPlayer("Arthon", "3")
	goblin := newGoblin(t)

	result, err := newEngine(0.05).Run(context.Background(), player, goblin, &scriptedDecider{actions: []Action{Flee()}})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if result.Outcome != OutcomeFled {
		t.Errorf("Outcome = %s, want fled", result.Outcome)
	}
	if got := eventKinds(result.Events); !sameKinds(got, []EventKind{EventFled}) {
		t.Errorf("events = %v, want [fled]", got)
	}
	if player.HP != 100 {
		t.Errorf("player HP = %d, want 100", player.HP)
	}
}

func TestFailedFleeTakesOnePenaltyAttack(t *testing.T) {
	player := entity.NewPlayer("Arthon", "3")
	goblin := newGoblin(t)

	result, err := newEngine(0.5).Run(context.Background(), player, goblin, &scriptedDecider{actions: []Action{Flee()}})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	want := []EventKind{EventFleeFailed, EventEnemyAttack, EventInterrupted}
	if got := eventKinds(result.Events); !sameKinds(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	if player.HP != 95 {
		t.Errorf("player HP = %d, want 95", player.HP)
	}
}

func TestFailedItemUseDoesNotConsumeTurn(t *testing.T) {
	player := entity.NewPlayer("Arthon", "3")
	player.AddItem(entity.NewWeapon("Rusty Sword", "", 3))
	goblin := newGoblin(t)
	decider := &scriptedDecider{actions: []Action{UseItem(7), UseItem(0), Attack()}}

	result, err := newEngine().Run(context.Background(), player, goblin, decider)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	want := []EventKind{
		EventActionFailed, EventActionFailed,
		EventPlayerAttack, EventEnemyAttack,
		EventInterrupted,
	}
	if got := eventKinds(result.Events); !sameKinds(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	for i, ev := range result.Events[:2] {
		if !errors.Is(ev.Err, entity.ErrInvalidItemSelection) {
			t.Errorf("event %d error = %v, want ErrInvalidItemSelection", i, ev.Err)
		}
	}

	wantTurns := []int{1, 1, 1, 2}
	if len(decider.turns) != len(wantTurns) {
		t.Fatalf("Choose called %d times, want %d", len(decider.turns), len(wantTurns))
	}
	for i := range wantTurns {
		if decider.turns[i] != wantTurns[i] {
			t.Errorf("Choose call %d saw turn %d, want %d", i, decider.turns[i], wantTurns[i])
		}
	}
	if player.HP != 95 {
		t.Errorf("player HP = %d, want 95 (one enemy attack)", player.HP)
	}
}

func TestPotionUseIsFollowedByEnemyTurn(t *testing.T) {
	player := entity.NewPlayer("Arthon", "3")
	player.HP = 50
	player.AddItem(entity.NewPotion("Health Potion", "", 30))
	goblin := newGoblin(t)

	result, err := newEngine().Run(context.Background(), player, goblin, &scriptedDecider{actions: []Action{UseItem(0)}})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	want := []EventKind{EventItemUsed, EventEnemyAttack, EventInterrupted}
	if got := eventKinds(result.Events); !sameKinds(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	if result.Events[0].Amount != 30 {
		t.Errorf("healed %d, want 30", result.Events[0].Amount)
	}
	if player.HP != 75 {
		t.Errorf("player HP = %d, want 75", player.HP)
	}
	if len(player.Inventory) != 0 {
		t.Errorf("potion should be consumed, inventory = %v", player.Inventory)
	}
}

func TestCastSpellInCombat(t *testing.T) {
	player := entity.NewPlayer("Arthon", "3")
	player.AddItem(entity.NewSpell("Fireball", "", 15, 25, gamedata.SpellDamage))
	goblin := newGoblin(t)

	result, err := newEngine().Run(context.Background(), player, goblin, &scriptedDecider{actions: []Action{CastSpell(0)}})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	cast := result.Events[0]
	if cast.Kind != EventSpellCast || cast.Amount != 24 || cast.Target != "Goblin" {
		t.Errorf("first event = %+v, want 24 spell damage to Goblin", cast)
	}
	if goblin.HP != 26 || player.Mana != 15 {
		t.Errorf("goblin HP %d mana %d, want 26 and 15", goblin.HP, player.Mana)
	}
	if result.Events[1].Kind != EventEnemyAttack {
		t.Errorf("second event = %s, want enemy_attack", result.Events[1].Kind)
	}
	if len(player.Inventory) != 1 {
		t.Error("spells stay in the inventory after casting")
	}
}

func TestCastSpellWithoutMana(t *testing.T) {
	player := entity.NewPlayer("Arthon", "3")
	player.AddItem(entity.NewSpell("Fireball", "", 15, 25, gamedata.SpellDamage))
	player.Mana = 5
	goblin := newGoblin(t)
	s := NewSession(player, goblin)

	err := newEngine().CastSpell(s, 0)
	if !errors.Is(err, entity.ErrInsufficientResource) {
		t.Fatalf("CastSpell() error = %v, want ErrInsufficientResource", err)
	}
	if player.Mana != 5 || goblin.HP != 50 {
		t.Errorf("failed cast changed state: mana %d goblin HP %d", player.Mana, goblin.HP)
	}
	if ev, _ := s.LastEvent(); ev.Kind != EventActionFailed {
		t.Errorf("last event = %s, want action_failed", ev.Kind)
	}
}

func TestBossPowerStrikeInEncounter(t *testing.T) {
	player := entity.NewPlayer("Arthon", "5")
	chief := newOrcChief(t)

	result, err := newEngine().Run(context.Background(), player, chief, &scriptedDecider{actions: attacks(3)})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	var hits []TurnEvent
	for _, ev := range result.Events {
		if ev.Kind == EventEnemyAttack {
			hits = append(hits, ev)
		}
	}
	if len(hits) != 3 {
		t.Fatalf("enemy attacked %d times, want 3", len(hits))
	}

	want := []int{15, 15, 35}
	for i, hit := range hits {
		if hit.Amount != want[i] {
			t.Errorf("hit %d dealt %d, want %d", i+1, hit.Amount, want[i])
		}
		if hit.PowerStrike != (i == 2) {
			t.Errorf("hit %d PowerStrike = %v", i+1, hit.PowerStrike)
		}
	}
	if player.HP != 35 {
		t.Errorf("player HP = %d, want 35", player.HP)
	}
}

func TestCancelledContextEndsEncounter(t *testing.T) {
	player := entity.NewPlayer("Arthon", "3")
	goblin := newGoblin(t)

	ctx, cancel := context.WithCancel(context.Background())
	decider := DeciderFunc(func(ctx context.Context, _ *Session) (Action, error) {
		cancel()
		return Action{}, ctx.Err()
	})

	result, err := newEngine().Run(ctx, player, goblin, decider)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if result.Outcome != OutcomeFled {
		t.Errorf("Outcome = %s, want fled", result.Outcome)
	}
	if player.HP != 100 || goblin.HP != 50 {
		t.Errorf("cancel changed HP: player %d goblin %d", player.HP, goblin.HP)
	}
}

func TestDeciderErrorIsReturned(t *testing.T) {
	errBroken := errors.New("input closed")
	decider := DeciderFunc(func(context.Context, *Session) (Action, error) {
		return Action{}, errBroken
	})

	_, err := newEngine().Run(context.Background(), entity.NewPlayer("Arthon", "3"), newGoblin(t), decider)
	if !errors.Is(err, errBroken) {
		t.Errorf("Run() error = %v, want %v", err, errBroken)
	}
}

func TestActionKindString(t *testing.T) {
	tests := []struct {
		kind ActionKind
		want string
	}{
		{ActionAttack, "attack"},
		{ActionUseItem, "use_item"},
		{ActionCastSpell, "cast_spell"},
		{ActionFlee, "flee"},
		{ActionInterrupt, "interrupt"},
		{ActionKind(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ActionKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
