package combat

import (
	"github.com/google/uuid"

	"github.com/samdwyer/cryptcrawl/internal/entity"
)

// Outcome is how an encounter ended.
type Outcome string

const (
	OutcomeOngoing Outcome = "ongoing"
	OutcomeVictory Outcome = "victory"
	OutcomeDefeat  Outcome = "defeat"
	OutcomeFled    Outcome = "fled"
)

// EventKind classifies a TurnEvent.
type EventKind string

const (
	EventPlayerAttack EventKind = "player_attack"
	EventEnemyAttack  EventKind = "enemy_attack"
	EventItemUsed     EventKind = "item_used"
	EventSpellCast    EventKind = "spell_cast"
	EventActionFailed EventKind = "action_failed"
	EventFleeBlocked  EventKind = "flee_blocked" // enemy cannot be fled from
	EventFleeFailed   EventKind = "flee_failed"
	EventFled         EventKind = "fled"
	EventInterrupted  EventKind = "interrupted"
)

// TurnEvent is one structured step of an encounter for a presentation
// layer to render.
type TurnEvent struct {
	Turn        int
	Kind        EventKind
	Actor       string
	Target      string
	Amount      int    // damage dealt or HP restored
	Item        string // item or spell involved
	Critical    bool
	PowerStrike bool
	TargetHP    int
	Err         error // why an action failed
}

// Session is the transient state of one encounter. It is never persisted.
type Session struct {
	ID     uuid.UUID
	Player *entity.Player
	Enemy  *entity.Enemy
	Turn   int
	Active bool // false once the player fled or interrupted
	Events []TurnEvent
}

// NewSession starts an encounter between player and enemy.
func NewSession(player *entity.Player, enemy *entity.Enemy) *Session {
	return &Session{
		ID:     uuid.New(),
		Player: player,
		Enemy:  enemy,
		Active: true,
	}
}

// Outcome returns the encounter's current outcome.
func (s *Session) Outcome() Outcome {
	switch {
	case !s.Player.IsAlive():
		return OutcomeDefeat
	case !s.Enemy.IsAlive():
		return OutcomeVictory
	case !s.Active:
		return OutcomeFled
	default:
		return OutcomeOngoing
	}
}

// Over reports whether the encounter has reached a terminal outcome.
func (s *Session) Over() bool {
	return s.Outcome() != OutcomeOngoing
}

// LastEvent returns the most recent event, or false if none yet.
func (s *Session) LastEvent() (TurnEvent, bool) {
	if len(s.Events) == 0 {
		return TurnEvent{}, false
	}
	return s.Events[len(s.Events)-1], true
}

func (s *Session) record(ev TurnEvent) TurnEvent {
	ev.Turn = s.Turn
	s.Events = append(s.Events, ev)
	return ev
}
