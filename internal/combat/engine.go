// Package combat resolves turn-based encounters between the player and a
// single enemy.
package combat

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/samdwyer/cryptcrawl/internal/entity"
	"github.com/samdwyer/cryptcrawl/internal/telemetry"
)

const (
	// CriticalMultiplier scales the attack/defense difference on a critical hit.
	CriticalMultiplier = 2.0

	// FleeChance is the probability of escaping an enemy that allows fleeing.
	FleeChance = 0.10
)

// ErrUnknownAction is reported when a Decider returns an unsupported action.
var ErrUnknownAction = errors.New("unknown combat action")

// Rand is the random source for critical and flee rolls. Float64 must
// return values in [0,1); *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Result is the reported end state of an encounter.
type Result struct {
	EncounterID  string
	Outcome      Outcome
	Enemy        string
	XPGained     int
	LevelsGained int
	Turns        int
	Events       []TurnEvent
}

// Engine resolves encounters.
type Engine struct {
	rng    Rand
	logger *zap.Logger
	tracer trace.Tracer
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTracer sets the engine's tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		if tracer != nil {
			e.tracer = tracer
		}
	}
}

// NewEngine creates an engine drawing rolls from rng.
func NewEngine(rng Rand, opts ...Option) *Engine {
	e := &Engine{
		rng:    rng,
		logger: zap.NewNop(),
		tracer: telemetry.Tracer("combat"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CalculateDamage returns max(1, attack-defense). A critical hit doubles
// the difference before the floor of 1 is applied.
func CalculateDamage(attack, defense int, critical bool) int {
	damage := attack - defense
	if critical {
		damage = int(math.Floor(float64(damage) * CriticalMultiplier))
	}
	return max(1, damage)
}

// Run plays an encounter to completion: a player decision, then the
// enemy's turn while the encounter is still going, until someone falls or
// the player gets away. On victory the enemy's XP reward is granted.
//
// Cancelling ctx ends the encounter like an interrupt, leaving HP as is.
func (e *Engine) Run(ctx context.Context, player *entity.Player, enemy *entity.Enemy, d Decider) (Result, error) {
	s := NewSession(player, enemy)

	_, span := e.tracer.Start(ctx, "combat.start")
	span.SetAttributes(
		attribute.String("encounter_id", s.ID.String()),
		attribute.String("enemy", enemy.ID()),
		attribute.Int("player_hp", player.HP),
		attribute.Bool("can_flee", enemy.CanFlee),
	)
	span.End()

	e.logger.Info("encounter started",
		zap.String("encounter_id", s.ID.String()),
		zap.String("enemy", enemy.Name),
		zap.Int("player_hp", player.HP),
	)

	for !s.Over() {
		enemyTurn, err := e.PlayerTurn(ctx, s, d)
		if err != nil {
			return Result{}, err
		}
		if s.Over() {
			break
		}
		if enemyTurn {
			e.EnemyAttack(ctx, s)
		}
	}

	return e.finish(ctx, s), nil
}

// PlayerTurn asks d for decisions until one is carried out and reports
// whether the enemy takes its regular turn afterwards. Choices that cannot
// be carried out are recorded and do not use up the turn.
func (e *Engine) PlayerTurn(ctx context.Context, s *Session, d Decider) (enemyTurn bool, err error) {
	s.Turn++

	ctx, span := e.tracer.Start(ctx, "combat.turn")
	defer span.End()
	span.SetAttributes(
		attribute.String("encounter_id", s.ID.String()),
		attribute.Int("turn", s.Turn),
	)

	for {
		if ctx.Err() != nil {
			e.interrupt(s)
			return false, nil
		}

		action, err := d.Choose(ctx, s)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				e.interrupt(s)
				return false, nil
			}
			return false, fmt.Errorf("choose action: %w", err)
		}
		span.SetAttributes(attribute.String("action", action.Kind.String()))

		switch action.Kind {
		case ActionAttack:
			ev := e.PlayerAttack(s)
			span.SetAttributes(
				attribute.Int("damage", ev.Amount),
				attribute.Bool("critical", ev.Critical),
			)
			return true, nil

		case ActionUseItem:
			if err := e.UseItem(s, action.Index); err != nil {
				continue
			}
			return true, nil

		case ActionCastSpell:
			if err := e.CastSpell(s, action.Index); err != nil {
				continue
			}
			return true, nil

		case ActionFlee:
			return e.AttemptFlee(ctx, s), nil

		case ActionInterrupt:
			e.interrupt(s)
			return false, nil

		default:
			s.record(TurnEvent{
				Kind:  EventActionFailed,
				Actor: s.Player.Name,
				Err:   fmt.Errorf("%w: %d", ErrUnknownAction, action.Kind),
			})
		}
	}
}

// PlayerAttack resolves one player hit on the enemy, rolling for a critical.
func (e *Engine) PlayerAttack(s *Session) TurnEvent {
	critical := s.Player.RollCritical(e.rng.Float64)
	damage := CalculateDamage(s.Player.TotalAttack(), s.Enemy.Defense, critical)
	dealt := s.Enemy.TakeDamage(damage)

	return s.record(TurnEvent{
		Kind:     EventPlayerAttack,
		Actor:    s.Player.Name,
		Target:   s.Enemy.Name,
		Amount:   dealt,
		Critical: critical,
		TargetHP: s.Enemy.HP,
	})
}

// EnemyAttack resolves one enemy hit on the player against the player's
// total defense. Each call advances the enemy's attack counter.
func (e *Engine) EnemyAttack(ctx context.Context, s *Session) TurnEvent {
	raw := s.Enemy.AttackDamage()
	damage := CalculateDamage(raw, s.Player.TotalDefense(), false)
	dealt := s.Player.TakeDamage(damage)

	trace.SpanFromContext(ctx).AddEvent("enemy_attack", trace.WithAttributes(
		attribute.Int("damage", dealt),
		attribute.Bool("power_strike", s.Enemy.IsPowerStrike()),
	))

	return s.record(TurnEvent{
		Kind:        EventEnemyAttack,
		Actor:       s.Enemy.Name,
		Target:      s.Player.Name,
		Amount:      dealt,
		PowerStrike: s.Enemy.IsPowerStrike(),
		TargetHP:    s.Player.HP,
	})
}

// UseItem applies the consumable at index to the player. A failed use
// is recorded and returned; nothing is consumed.
func (e *Engine) UseItem(s *Session, index int) error {
	item, _ := s.Player.ItemAt(index)

	healed, err := s.Player.UseItem(index)
	if err != nil {
		s.record(TurnEvent{Kind: EventActionFailed, Actor: s.Player.Name, Item: item.Name, Err: err})
		return err
	}

	s.record(TurnEvent{
		Kind:     EventItemUsed,
		Actor:    s.Player.Name,
		Target:   s.Player.Name,
		Item:     item.Name,
		Amount:   healed,
		TargetHP: s.Player.HP,
	})
	return nil
}

// CastSpell casts the spell at index. Damage spells target the enemy and
// heal spells the player. Without enough mana nothing is spent.
func (e *Engine) CastSpell(s *Session, index int) error {
	item, _ := s.Player.ItemAt(index)

	result, err := s.Player.CastSpell(index, s.Enemy)
	if err != nil {
		s.record(TurnEvent{Kind: EventActionFailed, Actor: s.Player.Name, Item: item.Name, Err: err})
		return err
	}

	ev := TurnEvent{Kind: EventSpellCast, Actor: s.Player.Name, Item: result.Spell}
	if result.Damage > 0 {
		ev.Target, ev.Amount, ev.TargetHP = s.Enemy.Name, result.Damage, s.Enemy.HP
	} else {
		ev.Target, ev.Amount, ev.TargetHP = s.Player.Name, result.Healing, s.Player.HP
	}
	s.record(ev)
	return nil
}

// AttemptFlee tries to leave the encounter and reports whether the enemy
// still takes its regular turn.
//
// An enemy that cannot be fled from simply blocks the attempt. Otherwise
// the escape succeeds with FleeChance; on failure the enemy's penalty
// attack is its turn for the round.
func (e *Engine) AttemptFlee(ctx context.Context, s *Session) (enemyTurn bool) {
	if !s.Enemy.CanFlee {
		s.record(TurnEvent{Kind: EventFleeBlocked, Actor: s.Player.Name, Target: s.Enemy.Name})
		return true
	}

	if e.rng.Float64() < FleeChance {
		s.Active = false
		s.record(TurnEvent{Kind: EventFled, Actor: s.Player.Name, Target: s.Enemy.Name})
		return false
	}

	s.record(TurnEvent{Kind: EventFleeFailed, Actor: s.Player.Name, Target: s.Enemy.Name})
	e.EnemyAttack(ctx, s)
	return false
}

func (e *Engine) interrupt(s *Session) {
	s.Active = false
	s.record(TurnEvent{Kind: EventInterrupted, Actor: s.Player.Name})
}

// finish reports the outcome and grants XP on victory.
func (e *Engine) finish(ctx context.Context, s *Session) Result {
	result := Result{
		EncounterID: s.ID.String(),
		Outcome:     s.Outcome(),
		Enemy:       s.Enemy.Name,
		Turns:       s.Turn,
		Events:      s.Events,
	}

	if result.Outcome == OutcomeVictory {
		result.XPGained = s.Enemy.XPReward
		result.LevelsGained = s.Player.GainXP(s.Enemy.XPReward)
	}

	_, span := e.tracer.Start(ctx, "combat.end")
	span.SetAttributes(
		attribute.String("encounter_id", result.EncounterID),
		attribute.String("outcome", string(result.Outcome)),
		attribute.Int("turns_taken", result.Turns),
		attribute.Int("player_hp_remaining", s.Player.HP),
		attribute.Int("xp_gained", result.XPGained),
	)
	span.End()

	e.logger.Info("encounter finished",
		zap.String("encounter_id", result.EncounterID),
		zap.String("enemy", result.Enemy),
		zap.String("outcome", string(result.Outcome)),
		zap.Int("turns", result.Turns),
		zap.Int("xp_gained", result.XPGained),
		zap.Int("levels_gained", result.LevelsGained),
	)

	return result
}
