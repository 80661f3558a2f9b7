package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/samdwyer/cryptcrawl/internal/combat"
	"github.com/samdwyer/cryptcrawl/internal/entity"
	"github.com/samdwyer/cryptcrawl/internal/gamedata"
)

func TestDescribeTurn(t *testing.T) {
	tests := []struct {
		name string
		ev   combat.TurnEvent
		want string
	}{
		{
			"player hit",
			combat.TurnEvent{Kind: combat.EventPlayerAttack, Actor: "Arthon", Target: "Goblin", Amount: 11},
			"Arthon hits Goblin for 11 damage.",
		},
		{
			"critical",
			combat.TurnEvent{Kind: combat.EventPlayerAttack, Actor: "Arthon", Target: "Goblin", Amount: 22, Critical: true},
			"CRITICAL! Arthon hits Goblin for 22 damage.",
		},
		{
			"power strike",
			combat.TurnEvent{Kind: combat.EventEnemyAttack, Actor: "Orc Chief", Target: "Arthon", Amount: 35, PowerStrike: true},
			"Orc Chief unleashes a power strike for 35 damage!",
		},
		{
			"heal spell",
			combat.TurnEvent{Kind: combat.EventSpellCast, Actor: "Arthon", Target: "Arthon", Item: "Magical Heal", Amount: 40},
			"Arthon casts Magical Heal and recovers 40 HP.",
		},
		{
			"damage spell",
			combat.TurnEvent{Kind: combat.EventSpellCast, Actor: "Arthon", Target: "Goblin", Item: "Fireball", Amount: 24},
			"Arthon casts Fireball on Goblin for 24 damage.",
		},
		{
			"blocked flee",
			combat.TurnEvent{Kind: combat.EventFleeBlocked, Actor: "Arthon", Target: "Orc Chief"},
			"Orc Chief blocks the way. There is no escape!",
		},
		{
			"failed action",
			combat.TurnEvent{Kind: combat.EventActionFailed, Err: errors.New("out of mana")},
			"Can't do that: out of mana.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DescribeTurn(tt.ev); got != tt.want {
				t.Errorf("DescribeTurn() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestItemLabel(t *testing.T) {
	tests := []struct {
		item entity.Item
		want string
	}{
		{entity.NewWeapon("Rusty Sword", "", 3), "Rusty Sword (+3 atk)"},
		{entity.NewShield("Simple Shield", "", 2), "Simple Shield (+2 def)"},
		{entity.NewArmor("Necromancer's Robe", "", 6, 30), "Necromancer's Robe (+6 def, +30 mana)"},
		{entity.NewPotion("Health Potion", "", 30), "Health Potion (heals 30)"},
		{entity.NewSpell("Fireball", "", 15, 25, gamedata.SpellDamage), "Fireball (15 mana, damage 25)"},
		{entity.NewKey("Exit Key", ""), "Exit Key"},
	}

	for _, tt := range tests {
		if got := ItemLabel(tt.item); got != tt.want {
			t.Errorf("ItemLabel(%s) = %q, want %q", tt.item.Name, got, tt.want)
		}
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		current, maximum, width int
		want                    string
	}{
		{100, 100, 10, "[##########]"},
		{50, 100, 10, "[#####-----]"},
		{0, 100, 4, "[----]"},
		{150, 100, 4, "[####]"},
		{5, 0, 4, "[----]"},
		{5, 10, 0, "[]"},
	}

	for _, tt := range tests {
		if got := Bar(tt.current, tt.maximum, tt.width); got != tt.want {
			t.Errorf("Bar(%d, %d, %d) = %q, want %q", tt.current, tt.maximum, tt.width, got, tt.want)
		}
	}
}

func TestStatusLine(t *testing.T) {
	line := StatusLine(entity.NewPlayer("Arthon", "1"))

	for _, want := range []string{"Arthon", "Lv 1", "HP 100/100", "MP 30/30", "ATK 13", "DEF 5"} {
		if !strings.Contains(line, want) {
			t.Errorf("StatusLine() = %q, missing %q", line, want)
		}
	}
}

func TestWrap(t *testing.T) {
	got := Wrap("the quick brown fox jumps", 10)
	want := []string{"the quick", "brown fox", "jumps"}

	if len(got) != len(want) {
		t.Fatalf("Wrap() = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Wrap()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if lines := Wrap("   ", 10); lines != nil {
		t.Errorf("Wrap(blank) = %q, want nil", lines)
	}
}
