package combat

import "context"

// ActionKind is what the player chose to do on their turn.
type ActionKind int

const (
	ActionAttack ActionKind = iota
	ActionUseItem
	ActionCastSpell
	ActionFlee
	// ActionInterrupt abandons the encounter immediately, like a successful flee.
	ActionInterrupt
)

// String returns a human-readable action name.
func (k ActionKind) String() string {
	switch k {
	case ActionAttack:
		return "attack"
	case ActionUseItem:
		return "use_item"
	case ActionCastSpell:
		return "cast_spell"
	case ActionFlee:
		return "flee"
	case ActionInterrupt:
		return "interrupt"
	default:
		return "unknown"
	}
}

// Action is a player decision. Index selects an inventory entry for
// ActionUseItem and ActionCastSpell.
type Action struct {
	Kind  ActionKind
	Index int
}

// Attack returns an attack action.
func Attack() Action { return Action{Kind: ActionAttack} }

// UseItem returns an action using the inventory entry at index.
func UseItem(index int) Action { return Action{Kind: ActionUseItem, Index: index} }

// CastSpell returns an action casting the spell at inventory index.
func CastSpell(index int) Action { return Action{Kind: ActionCastSpell, Index: index} }

// Flee returns a flee attempt.
func Flee() Action { return Action{Kind: ActionFlee} }

// Interrupt returns an action abandoning the encounter.
func Interrupt() Action { return Action{Kind: ActionInterrupt} }

// Decider supplies the player's choice for each turn. Choose blocks until
// a choice is available. It may be asked again within the same turn when
// the previous choice could not be carried out.
type Decider interface {
	Choose(ctx context.Context, s *Session) (Action, error)
}

// DeciderFunc adapts a function to the Decider interface.
type DeciderFunc func(ctx context.Context, s *Session) (Action, error)

// Choose calls f.
func (f DeciderFunc) Choose(ctx context.Context, s *Session) (Action, error) {
	return f(ctx, s)
}
