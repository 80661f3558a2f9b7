package ui

import (
	"fmt"
	"strings"

	"github.com/samdwyer/cryptcrawl/internal/combat"
	"github.com/samdwyer/cryptcrawl/internal/entity"
	"github.com/samdwyer/cryptcrawl/internal/gamedata"
)

// DescribeTurn renders one combat event as a log line.
func DescribeTurn(ev combat.TurnEvent) string {
	switch ev.Kind {
	case combat.EventPlayerAttack:
		if ev.Critical {
			return fmt.Sprintf("CRITICAL! %s hits %s for %d damage.", ev.Actor, ev.Target, ev.Amount)
		}
		return fmt.Sprintf("%s hits %s for %d damage.", ev.Actor, ev.Target, ev.Amount)
	case combat.EventEnemyAttack:
		if ev.PowerStrike {
			return fmt.Sprintf("%s unleashes a power strike for %d damage!", ev.Actor, ev.Amount)
		}
		return fmt.Sprintf("%s hits %s for %d damage.", ev.Actor, ev.Target, ev.Amount)
	case combat.EventItemUsed:
		return fmt.Sprintf("%s uses %s and recovers %d HP.", ev.Actor, ev.Item, ev.Amount)
	case combat.EventSpellCast:
		if ev.Target == ev.Actor {
			return fmt.Sprintf("%s casts %s and recovers %d HP.", ev.Actor, ev.Item, ev.Amount)
		}
		return fmt.Sprintf("%s casts %s on %s for %d damage.", ev.Actor, ev.Item, ev.Target, ev.Amount)
	case combat.EventActionFailed:
		if ev.Err != nil {
			return fmt.Sprintf("Can't do that: %v.", ev.Err)
		}
		return "Can't do that."
	case combat.EventFleeBlocked:
		return fmt.Sprintf("%s blocks the way. There is no escape!", ev.Target)
	case combat.EventFleeFailed:
		return fmt.Sprintf("%s fails to escape from %s.", ev.Actor, ev.Target)
	case combat.EventFled:
		return fmt.Sprintf("%s escapes from %s.", ev.Actor, ev.Target)
	case combat.EventInterrupted:
		return fmt.Sprintf("%s backs away from the fight.", ev.Actor)
	default:
		return string(ev.Kind)
	}
}

// ItemLabel renders an item with its most relevant numbers.
func ItemLabel(item entity.Item) string {
	switch item.Type {
	case gamedata.ItemWeapon:
		return fmt.Sprintf("%s (+%d atk)", item.Name, item.AttackBonus)
	case gamedata.ItemShield:
		return fmt.Sprintf("%s (+%d def)", item.Name, item.DefenseBonus)
	case gamedata.ItemArmor:
		if item.ManaBonus > 0 {
			return fmt.Sprintf("%s (+%d def, +%d mana)", item.Name, item.DefenseBonus, item.ManaBonus)
		}
		return fmt.Sprintf("%s (+%d def)", item.Name, item.DefenseBonus)
	case gamedata.ItemConsumable:
		return fmt.Sprintf("%s (heals %d)", item.Name, item.HealAmount)
	case gamedata.ItemSpell:
		return fmt.Sprintf("%s (%d mana, %s %d)", item.Name, item.ManaCost, item.SpellEffect, item.Power)
	default:
		return item.Name
	}
}

// Bar renders current/maximum as a fixed-width gauge like [####----].
func Bar(current, maximum, width int) string {
	if width <= 0 {
		return "[]"
	}
	filled := 0
	if maximum > 0 {
		filled = min(width, max(0, current*width/maximum))
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// StatusLine summarises the player's vital numbers.
func StatusLine(p *entity.Player) string {
	return fmt.Sprintf("%s  Lv %d  XP %d/%d  HP %d/%d %s  MP %d/%d  ATK %d  DEF %d",
		p.Name, p.Level, p.XP, p.XPToNextLevel(),
		p.HP, p.MaxHP, Bar(p.HP, p.MaxHP, 10),
		p.Mana, p.MaxMana, p.TotalAttack(), p.TotalDefense())
}
