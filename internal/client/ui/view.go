package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"coin-rush/internal/client"
)

const (
	fieldWidth  = 80
	fieldHeight = 24
)

// palette matches the server's color index assignment order.
var palette = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("9")),  // red
	lipgloss.NewStyle().Foreground(lipgloss.Color("12")), // blue
	lipgloss.NewStyle().Foreground(lipgloss.Color("10")), // green
	lipgloss.NewStyle().Foreground(lipgloss.Color("13")), // magenta
}

var (
	coinStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
	faintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	bigStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
)

func colorFor(index int) lipgloss.Style {
	if index < 0 || index >= len(palette) {
		return lipgloss.NewStyle()
	}
	return palette[index]
}

func renderFrame(state client.RenderState, width int) string {
	switch state.Phase {
	case client.PhaseConnecting:
		return titleStyle.Render("COIN RUSH") + "\n\nconnecting...\n"
	case client.PhaseLobby:
		return renderLobby(state)
	case client.PhaseCountdown:
		return renderCountdown(state)
	case client.PhasePlaying, client.PhaseGameOver:
		out := renderField(state)
		if state.Phase == client.PhaseGameOver {
			out += "\n" + renderResult(state)
		}
		return out
	case client.PhaseDisconnected:
		return "disconnected from server\n\npress r to reconnect, q to exit\n"
	}
	return ""
}

func renderLobby(state client.RenderState) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("COIN RUSH") + "\n\n")
	sb.WriteString(fmt.Sprintf("waiting for players: %d/%d\n\n", state.Lobby.PlayerCount, state.Lobby.Required))
	for i, name := range state.Lobby.PlayerNames {
		sb.WriteString("  " + colorFor(i).Render(name) + "\n")
	}
	sb.WriteString("\n" + faintStyle.Render("move with WASD or arrows, q quits") + "\n")
	return sb.String()
}

func renderCountdown(state client.RenderState) string {
	pad := strings.Repeat("\n", fieldHeight/2-1)
	num := bigStyle.Render(fmt.Sprintf("%d", state.Countdown))
	indent := strings.Repeat(" ", fieldWidth/2)
	return pad + indent + num + "\n"
}

// renderField draws the playfield grid plus the HUD line.
func renderField(state client.RenderState) string {
	// Styles are referenced by index so runs of identical styling can be
	// grouped into one Render call per run.
	styles := []lipgloss.Style{lipgloss.NewStyle(), coinStyle}
	type cell struct {
		glyph rune
		style int
	}
	grid := make([][]cell, fieldHeight)
	for y := range grid {
		grid[y] = make([]cell, fieldWidth)
		for x := range grid[y] {
			grid[y][x] = cell{glyph: ' '}
		}
	}

	place := func(wx, wy float64, glyph rune, style int) {
		x := int(wx / state.World.Width * float64(fieldWidth))
		y := int(wy / state.World.Height * float64(fieldHeight))
		if x < 0 {
			x = 0
		} else if x >= fieldWidth {
			x = fieldWidth - 1
		}
		if y < 0 {
			y = 0
		} else if y >= fieldHeight {
			y = fieldHeight - 1
		}
		grid[y][x] = cell{glyph: glyph, style: style}
	}

	for _, coin := range state.Coins {
		place(coin.Position.X, coin.Position.Y, 'o', 1)
	}
	for _, remote := range state.Remotes {
		styles = append(styles, colorFor(remote.ColorIndex))
		place(remote.Position.X, remote.Position.Y, '@', len(styles)-1)
	}
	styles = append(styles, colorFor(state.ColorIndex).Bold(true))
	place(state.Position.X, state.Position.Y, '@', len(styles)-1)

	var sb strings.Builder
	horizontal := borderStyle.Render("+" + strings.Repeat("-", fieldWidth) + "+")
	sb.WriteString(horizontal + "\n")
	for y := 0; y < fieldHeight; y++ {
		sb.WriteString(borderStyle.Render("|"))
		x := 0
		for x < fieldWidth {
			start := grid[y][x]
			var run strings.Builder
			for x < fieldWidth && grid[y][x].style == start.style {
				run.WriteRune(grid[y][x].glyph)
				x++
			}
			sb.WriteString(styles[start.style].Render(run.String()))
		}
		sb.WriteString(borderStyle.Render("|") + "\n")
	}
	sb.WriteString(horizontal + "\n")
	sb.WriteString(renderHUD(state))
	return sb.String()
}

func renderHUD(state client.RenderState) string {
	scores := make([]string, 0, len(state.Remotes)+1)
	scores = append(scores, colorFor(state.ColorIndex).Bold(true).Render(fmt.Sprintf("%s:%d", state.Name, state.Score)))
	for _, remote := range state.Remotes {
		scores = append(scores, colorFor(remote.ColorIndex).Render(fmt.Sprintf("%s:%d", remote.Name, remote.Score)))
	}
	return fmt.Sprintf(" %s  |  time %3.0fs  |  ping %dms\n",
		strings.Join(scores, "  "),
		state.TimeRemaining,
		state.Latency.Milliseconds())
}

func renderResult(state client.RenderState) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("GAME OVER") + "\n\n")
	if state.Result.WinnerID == state.PlayerID {
		sb.WriteString(bigStyle.Render("you win!") + "\n\n")
	} else if state.Result.WinnerName != "" {
		sb.WriteString(fmt.Sprintf("%s wins\n\n", state.Result.WinnerName))
	}

	ids := make([]string, 0, len(state.Result.FinalScores))
	for id := range state.Result.FinalScores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return state.Result.FinalScores[ids[i]] > state.Result.FinalScores[ids[j]]
	})
	for _, id := range ids {
		label := id
		if id == state.PlayerID {
			label = state.Name + " (you)"
		}
		sb.WriteString(fmt.Sprintf("  %-14s %d\n", label, state.Result.FinalScores[id]))
	}
	sb.WriteString("\n" + faintStyle.Render("press r to play again, q to exit") + "\n")
	return sb.String()
}
