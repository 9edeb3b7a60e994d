package grid

import (
	"fmt"
	"strconv"
	"strings"
)

// Cell identifies one grid square.
type Cell struct {
	X int
	Y int
}

// Orthogonal unit steps.
var (
	Right = Cell{X: 1, Y: 0}
	Left  = Cell{X: -1, Y: 0}
	Down  = Cell{X: 0, Y: 1}
	Up    = Cell{X: 0, Y: -1}
)

// Steps lists the four orthogonal moves in expansion order.
var Steps = [4]Cell{Right, Left, Down, Up}

func (c Cell) Add(d Cell) Cell {
	return Cell{X: c.X + d.X, Y: c.Y + d.Y}
}

func (c Cell) Sub(d Cell) Cell {
	return Cell{X: c.X - d.X, Y: c.Y - d.Y}
}

// Less orders cells in reading order: smaller Y first, then smaller X.
func (c Cell) Less(d Cell) bool {
	if c.Y != d.Y {
		return c.Y < d.Y
	}
	return c.X < d.X
}

// Adjacent reports whether d is exactly one orthogonal step from c.
func (c Cell) Adjacent(d Cell) bool {
	return Manhattan(c, d) == 1
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Manhattan returns |dx| + |dy| between a and b.
func Manhattan(a, b Cell) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// ParseCell parses "x,y".
func ParseCell(s string) (Cell, error) {
	xs, ys, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return Cell{}, fmt.Errorf("grid: cell %q: want x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return Cell{}, fmt.Errorf("grid: cell %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return Cell{}, fmt.Errorf("grid: cell %q: %w", s, err)
	}
	return Cell{X: x, Y: y}, nil
}
