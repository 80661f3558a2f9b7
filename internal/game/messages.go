package game

import (
	"fmt"

	"github.com/samdwyer/cryptcrawl/internal/combat"
	"github.com/samdwyer/cryptcrawl/internal/world"
)

// describeEvent renders a room event as message log lines.
func describeEvent(ev Event, room *world.Room) []string {
	var lines []string
	if room != nil {
		lines = append(lines, fmt.Sprintf("You enter %s.", room.Name))
	}

	switch ev.Kind {
	case EventExit:
		lines = append(lines, "Daylight! You have found the way out.")
	case EventTreasure:
		lines = append(lines, fmt.Sprintf("You found %s!", ev.ItemName))
	case EventCombat:
		switch ev.Result {
		case combat.OutcomeVictory:
			lines = append(lines, fmt.Sprintf("%s is defeated! +%d XP.", ev.EnemyName, ev.XPGained))
			if ev.LevelsGained > 0 {
				lines = append(lines, fmt.Sprintf("You feel stronger! (+%d level)", ev.LevelsGained))
			}
			if ev.Loot != "" {
				lines = append(lines, fmt.Sprintf("%s dropped %s.", ev.EnemyName, ev.Loot))
			}
		case combat.OutcomeDefeat:
			lines = append(lines, fmt.Sprintf("%s has slain you.", ev.EnemyName))
		case combat.OutcomeFled:
			lines = append(lines, fmt.Sprintf("You got away from %s.", ev.EnemyName))
		}
	}
	return lines
}
