package main

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/milk9111/isopath/grid"
	"github.com/milk9111/isopath/pathfinding"
)

const (
	markRoute   = '*'
	markVisited = 'o'
	markStart   = 'S'
	markGoal    = 'G'
)

type renderer struct {
	styles map[rune]lipgloss.Style
	plain  lipgloss.Style
}

func newRenderer(w io.Writer, plain bool) *renderer {
	lr := lipgloss.NewRenderer(w)
	if plain {
		lr.SetColorProfile(termenv.Ascii)
	}
	return &renderer{
		styles: map[rune]lipgloss.Style{
			markRoute:            lr.NewStyle().Foreground(lipgloss.Color("#F5C542")).Bold(true),
			markVisited:          lr.NewStyle().Foreground(lipgloss.Color("#5C6370")),
			markStart:            lr.NewStyle().Foreground(lipgloss.Color("#61AFEF")).Bold(true),
			markGoal:             lr.NewStyle().Foreground(lipgloss.Color("#E06C75")).Bold(true),
			grid.Wall.Rune():     lr.NewStyle().Foreground(lipgloss.Color("#ABB2BF")),
			grid.Water.Rune():    lr.NewStyle().Foreground(lipgloss.Color("#56B6C2")),
			grid.Road.Rune():     lr.NewStyle().Foreground(lipgloss.Color("#D19A66")),
			grid.Tree.Rune():     lr.NewStyle().Foreground(lipgloss.Color("#98C379")),
			grid.Building.Rune(): lr.NewStyle().Foreground(lipgloss.Color("#C678DD")),
		},
		plain: lr.NewStyle(),
	}
}

// board draws the map with the route, start and goal overlaid.
func (r *renderer) board(g *grid.Grid, start, goal grid.Cell, res pathfinding.Result) string {
	marks := make(map[grid.Cell]rune, len(res.Route)+len(res.Visited)+2)
	for _, c := range res.Visited {
		marks[c] = markVisited
	}
	for _, c := range res.Route {
		marks[c] = markRoute
	}
	marks[start] = markStart
	if g.InBounds(goal) {
		marks[goal] = markGoal
	}

	var sb strings.Builder
	for _, line := range strings.SplitAfter(g.Render(marks), "\n") {
		for _, ch := range line {
			if ch == '\n' {
				sb.WriteRune(ch)
				continue
			}
			style, ok := r.styles[ch]
			if !ok {
				style = r.plain
			}
			sb.WriteString(style.Render(string(ch)))
		}
	}
	return sb.String()
}
