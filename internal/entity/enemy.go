package entity

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/cryptcrawl/internal/gamedata"
)

// EnemyKind is the closed set of enemy variants.
type EnemyKind int

const (
	EnemyGoblin EnemyKind = iota
	EnemyOrcChief
	EnemyMasterButcher
	EnemySpaghettus
	EnemyBlackwarrior
)

// powerStrikeInterval is how often the Orc Chief doubles its damage.
const powerStrikeInterval = 3

// KindFromID maps a catalog enemy ID to its variant.
func KindFromID(id string) (EnemyKind, bool) {
	switch id {
	case "goblin":
		return EnemyGoblin, true
	case "orc_chief":
		return EnemyOrcChief, true
	case "master_butcher":
		return EnemyMasterButcher, true
	case "spaghettus":
		return EnemySpaghettus, true
	case "blackwarrior":
		return EnemyBlackwarrior, true
	default:
		return 0, false
	}
}

// String returns the enemy kind name.
func (k EnemyKind) String() string {
	switch k {
	case EnemyGoblin:
		return "Goblin"
	case EnemyOrcChief:
		return "OrcChief"
	case EnemyMasterButcher:
		return "MasterButcher"
	case EnemySpaghettus:
		return "Spaghettus"
	case EnemyBlackwarrior:
		return "Blackwarrior"
	default:
		return "Unknown"
	}
}

// Enemy is a hostile creature instantiated fresh for each encounter.
type Enemy struct {
	vitals

	Def         *gamedata.EnemyDef
	Kind        EnemyKind
	Name        string
	Description string
	Attack      int
	Defense     int
	XPReward    int
	CanFlee     bool

	attacks int // AttackDamage calls so far
}

// NewEnemy creates a full-health enemy from its definition. Unknown IDs
// are rejected so every instance belongs to a known variant.
func NewEnemy(def *gamedata.EnemyDef) (*Enemy, bool) {
	if def == nil {
		return nil, false
	}
	kind, ok := KindFromID(def.ID)
	if !ok {
		return nil, false
	}
	return &Enemy{
		vitals:      vitals{HP: def.HP, MaxHP: def.HP},
		Def:         def,
		Kind:        kind,
		Name:        def.Name,
		Description: def.Description,
		Attack:      def.Attack,
		Defense:     def.Defense,
		XPReward:    def.XPReward,
		CanFlee:     def.CanFlee,
	}, true
}

// AttackDamage returns the raw attack value for the enemy's next hit.
// It is not idempotent: each call advances the enemy's attack counter,
// and the Orc Chief hits twice as hard on every third call.
func (e *Enemy) AttackDamage() int {
	e.attacks++

	switch e.Kind {
	case EnemyOrcChief:
		if e.attacks%powerStrikeInterval == 0 {
			return e.Attack * 2
		}
		return e.Attack
	default:
		return e.Attack
	}
}

// IsPowerStrike reports whether the most recent AttackDamage call was a
// special attack.
func (e *Enemy) IsPowerStrike() bool {
	return e.Kind == EnemyOrcChief && e.attacks > 0 && e.attacks%powerStrikeInterval == 0
}

// Color returns the display color for this enemy.
func (e *Enemy) Color() tcell.Color {
	if e.Def != nil {
		return e.Def.TCellColor()
	}
	return tcell.ColorPurple
}

// ID returns the enemy's catalog identifier.
func (e *Enemy) ID() string {
	if e.Def != nil {
		return e.Def.ID
	}
	return e.Kind.String()
}

// GetName returns the enemy's name.
func (e *Enemy) GetName() string { return e.Name }

// GetDefense returns the enemy's defense.
func (e *Enemy) GetDefense() int { return e.Defense }

// Ensure Enemy implements Combatant
var _ Combatant = (*Enemy)(nil)
