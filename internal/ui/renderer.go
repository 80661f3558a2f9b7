package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/cryptcrawl/internal/combat"
	"github.com/samdwyer/cryptcrawl/internal/entity"
	"github.com/samdwyer/cryptcrawl/internal/gamedata"
	"github.com/samdwyer/cryptcrawl/internal/world"
)

// Layout rows.
const (
	titleRow  = 0
	statusRow = 1
	bodyRow   = 3
)

var (
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleDim    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleHelp   = tcell.StyleDefault.Foreground(tcell.ColorDarkCyan)
)

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// RenderRoom draws the exploration view: the room, its exits and the
// recent message log.
func (r *Renderer) RenderRoom(room *world.Room, exits []string, player *entity.Player, messages []string) {
	r.screen.Clear()

	titleStyle := tcell.StyleDefault.Foreground(gamedata.RoomKindColor(room.Kind)).Bold(true)
	r.screen.DrawText(0, titleRow, room.Name, titleStyle)
	r.screen.DrawText(0, statusRow, StatusLine(player), styleStatus)

	y := bodyRow
	y = r.drawWrapped(y, room.Description, styleText)
	y++

	r.screen.DrawText(0, y, "Exits:", styleText)
	y++
	for i, dir := range exits {
		r.screen.DrawText(2, y, fmt.Sprintf("%d) %s", i+1, dir), styleText)
		y++
	}
	if len(exits) == 0 {
		r.screen.DrawText(2, y, "none", styleDim)
		y++
	}

	r.drawMessages(y+1, messages)
	r.drawHelp("arrows/1-9 move  i inventory  s save  l load  q quit")
	r.screen.Show()
}

// RenderInventory draws the inventory with equipped markers.
func (r *Renderer) RenderInventory(player *entity.Player, messages []string) {
	r.screen.Clear()

	r.screen.DrawText(0, titleRow, "Inventory", styleStatus)
	r.screen.DrawText(0, statusRow, StatusLine(player), styleStatus)
	y := r.drawItems(bodyRow, player)

	r.drawMessages(y+1, messages)
	r.drawHelp("1-9 equip/use  esc back")
	r.screen.Show()
}

// RenderCombat draws an encounter in progress.
func (r *Renderer) RenderCombat(s *combat.Session, messages []string) {
	r.screen.Clear()

	enemyStyle := tcell.StyleDefault.Foreground(s.Enemy.Color()).Bold(true)
	x := r.screen.DrawText(0, titleRow, s.Enemy.Name, enemyStyle)
	r.screen.DrawText(x+1, titleRow,
		fmt.Sprintf("HP %d/%d %s  turn %d", s.Enemy.HP, s.Enemy.MaxHP, Bar(s.Enemy.HP, s.Enemy.MaxHP, 20), s.Turn),
		styleText)
	r.screen.DrawText(0, statusRow, StatusLine(s.Player), styleStatus)

	y := r.drawWrapped(bodyRow, s.Enemy.Description, styleDim)
	y = r.drawItems(y+1, s.Player)

	r.drawMessages(y+1, messages)

	help := "a attack  1-9 use/cast  f flee  esc back away"
	if !s.Enemy.CanFlee {
		help = "a attack  1-9 use/cast  esc back away  (no escape from this foe)"
	}
	r.drawHelp(help)
	r.screen.Show()
}

// RenderGameOver draws the final screen of a run.
func (r *Renderer) RenderGameOver(title string, player *entity.Player, progress world.Progress, messages []string) {
	r.screen.Clear()

	r.screen.DrawText(0, titleRow, title, styleStatus)
	r.screen.DrawText(0, statusRow, StatusLine(player), styleStatus)
	r.screen.DrawText(0, bodyRow, fmt.Sprintf("Rooms visited %d/%d  enemies defeated %d  rooms looted %d",
		progress.Visited, progress.Rooms, progress.Defeated, progress.Looted), styleText)

	r.drawMessages(bodyRow+2, messages)
	r.drawHelp("l load  q quit")
	r.screen.Show()
}

// RenderMessage displays a message at the given row.
func (r *Renderer) RenderMessage(msg string, y int) {
	r.screen.DrawText(0, y, msg, styleText)
}

func (r *Renderer) drawItems(y int, player *entity.Player) int {
	if len(player.Inventory) == 0 {
		r.screen.DrawText(0, y, "Inventory empty.", styleDim)
		return y + 1
	}

	equipped := map[string]bool{}
	for _, item := range []*entity.Item{player.EquippedWeapon(), player.EquippedShield(), player.EquippedArmor()} {
		if item != nil {
			equipped[string(item.Type)+":"+item.Name] = true
		}
	}

	for i, item := range player.Inventory {
		if i >= 9 {
			r.screen.DrawText(2, y, fmt.Sprintf("... %d more", len(player.Inventory)-i), styleDim)
			return y + 1
		}
		marker := "  "
		if equipped[string(item.Type)+":"+item.Name] {
			marker = "E "
		}
		r.screen.DrawText(0, y, fmt.Sprintf("%s%d) %s", marker, i+1, ItemLabel(item)), styleText)
		y++
	}
	return y
}

func (r *Renderer) drawMessages(y int, messages []string) {
	_, height := r.screen.Size()
	room := height - y - 1
	if room <= 0 {
		return
	}
	if len(messages) > room {
		messages = messages[len(messages)-room:]
	}
	for _, msg := range messages {
		r.screen.DrawText(0, y, msg, styleText)
		y++
	}
}

func (r *Renderer) drawHelp(help string) {
	_, height := r.screen.Size()
	r.screen.DrawText(0, height-1, help, styleHelp)
}

// drawWrapped writes text word-wrapped to the screen width and returns the
// next free row.
func (r *Renderer) drawWrapped(y int, text string, style tcell.Style) int {
	width, _ := r.screen.Size()
	for _, line := range Wrap(text, width) {
		r.screen.DrawText(0, y, line, style)
		y++
	}
	return y
}

// Wrap splits text into lines of at most width runes, breaking on spaces.
func Wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 || width <= 0 {
		return nil
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len([]rune(line))+1+len([]rune(word)) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	return append(lines, line)
}
