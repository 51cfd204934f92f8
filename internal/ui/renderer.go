package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/strikeband/internal/entity"
	"github.com/samdwyer/strikeband/internal/match"
)

// eventLines is how many recent combat events the footer shows.
const eventLines = 6

// Renderer draws match snapshots as a live scoreboard.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Render draws one complete snapshot.
func (r *Renderer) Render(snap match.Snapshot) {
	r.screen.Clear()

	header := fmt.Sprintf("STRIKEBAND  round %d/%d  [%s] %3.0fs   T %d : %d CT",
		snap.Match.Round, snap.Match.MaxRounds,
		snap.Round.Phase, snap.Round.TimeLeft,
		snap.Match.Score[entity.SideT], snap.Match.Score[entity.SideCT])
	r.screen.SetText(0, 0, header, tcell.StyleDefault.Bold(true))

	row := 2
	for _, side := range []entity.Side{entity.SideT, entity.SideCT} {
		row = r.renderTeam(snap.Teams[side], row)
		row++
	}

	if snap.Round.BombPlanted {
		r.screen.SetText(0, row, fmt.Sprintf("BOMB PLANTED at %s", strings.ToUpper(snap.Round.BombSite)),
			tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true))
		row++
	}
	if snap.Round.Reason != "" {
		r.screen.SetText(0, row, fmt.Sprintf("Round over: %s win (%s)",
			snap.Round.Winner.DisplayName(), snap.Round.Reason), tcell.StyleDefault)
		row++
	}
	if snap.Match.Status == match.StatusEnded {
		result := "MATCH OVER: draw"
		if snap.Match.Winner.Valid() {
			result = fmt.Sprintf("MATCH OVER: %s win", snap.Match.Winner.DisplayName())
		}
		r.screen.SetText(0, row, result, tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true))
		row++
	}
	row++

	r.renderEvents(snap, row)
	r.screen.Show()
}

// renderTeam draws one team block and returns the next free row.
func (r *Renderer) renderTeam(team match.TeamView, row int) int {
	style := tcell.StyleDefault.Foreground(tcell.ColorOrange)
	if team.Side == entity.SideCT {
		style = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	}
	r.screen.SetText(0, row, fmt.Sprintf("%s  $%d  bonus $%d  strategy: %s",
		team.Side.DisplayName(), team.Money, team.LossBonus, team.Strategy), style.Bold(true))
	row++

	for _, agent := range team.Agents {
		marker := ' '
		rowStyle := tcell.StyleDefault
		if !agent.Alive {
			marker = 'x'
			rowStyle = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
		}
		weapon := "-"
		if len(agent.Weapons) > 0 {
			weapon = agent.Weapons[0]
		}
		line := fmt.Sprintf(" %c %-10s %-15s HP %3d  AR %3d  %d/%d/%d  %s",
			marker, agent.Name, agent.Role, agent.Health, agent.Armor,
			agent.Stats.Kills, agent.Stats.Deaths, agent.Stats.Assists, weapon)
		r.screen.SetText(0, row, line, rowStyle)
		row++
	}
	return row
}

// renderEvents draws the most recent combat events.
func (r *Renderer) renderEvents(snap match.Snapshot, row int) {
	events := snap.Events
	if len(events) > eventLines {
		events = events[len(events)-eventLines:]
	}
	for _, event := range events {
		line := fmt.Sprintf("[%s] %s", event.Kind, event.AttackerName)
		if event.VictimName != "" {
			line += " > " + event.VictimName
		}
		if event.Weapon != "" {
			line += " (" + event.Weapon + ")"
		}
		if event.Headshot {
			line += " HS"
		}
		r.screen.SetText(0, row, line, tcell.StyleDefault.Foreground(tcell.ColorGray))
		row++
	}
}
