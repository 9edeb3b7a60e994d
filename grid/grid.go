package grid

import (
	"errors"
	"fmt"
	"strings"
)

// MaxCells caps width*height so map files cannot request absurd or
// overflowing allocations.
const MaxCells = 1 << 24

var ErrInvalidSize = errors.New("grid: invalid size")

// Grid is a fixed-size row-major map of tiles. A cell is blocked when its
// tile blocks movement; see Tile.Blocks.
type Grid struct {
	width  int
	height int
	tiles  []Tile
}

// New creates a width x height grid filled with Grass.
func New(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d must be positive", ErrInvalidSize, width, height)
	}
	if width > MaxCells/height {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d cells", ErrInvalidSize, width, height, MaxCells)
	}
	return &Grid{
		width:  width,
		height: height,
		tiles:  make([]Tile, width*height),
	}, nil
}

// FromValues builds a grid from raw tile values indexed values[y][x].
// Every row must have the same length. A value of 1 is a wall; any other
// value is passable.
func FromValues(values [][]int) (*Grid, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidSize)
	}
	g, err := New(len(values[0]), len(values))
	if err != nil {
		return nil, err
	}
	for y, row := range values {
		if len(row) != g.width {
			return nil, fmt.Errorf("grid: row %d has %d cells, want %d", y, len(row), g.width)
		}
		for x, v := range row {
			g.tiles[y*g.width+x] = Tile(v)
		}
	}
	return g, nil
}

func (g *Grid) Width() int {
	if g == nil {
		return 0
	}
	return g.width
}

func (g *Grid) Height() int {
	if g == nil {
		return 0
	}
	return g.height
}

// InBounds reports whether c lies inside [0,width) x [0,height).
func (g *Grid) InBounds(c Cell) bool {
	return g != nil && c.X >= 0 && c.Y >= 0 && c.X < g.width && c.Y < g.height
}

// At returns the tile at c. Out of bounds cells read as Wall.
func (g *Grid) At(c Cell) Tile {
	if !g.InBounds(c) {
		return Wall
	}
	return g.tiles[c.Y*g.width+c.X]
}

// Set writes the tile at c. It returns false when c is out of bounds.
func (g *Grid) Set(c Cell, t Tile) bool {
	if !g.InBounds(c) {
		return false
	}
	g.tiles[c.Y*g.width+c.X] = t
	return true
}

// Blocked reports whether c cannot be entered.
func (g *Grid) Blocked(c Cell) bool {
	return g.At(c).Blocks()
}

func (g *Grid) Passable(c Cell) bool {
	return !g.Blocked(c)
}

// Clamp moves c to the nearest in-bounds cell.
func (g *Grid) Clamp(c Cell) Cell {
	if g == nil || g.width == 0 || g.height == 0 {
		return Cell{}
	}
	c.X = min(max(c.X, 0), g.width-1)
	c.Y = min(max(c.Y, 0), g.height-1)
	return c
}

// Clone returns an independent copy safe to hand to another goroutine.
func (g *Grid) Clone() *Grid {
	if g == nil {
		return nil
	}
	out := &Grid{width: g.width, height: g.height, tiles: make([]Tile, len(g.tiles))}
	copy(out.tiles, g.tiles)
	return out
}

// Render draws the grid one row per line, overlaying marks on top of tiles.
func (g *Grid) Render(marks map[Cell]rune) string {
	if g == nil {
		return ""
	}
	var sb strings.Builder
	sb.Grow((g.width + 1) * g.height)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			c := Cell{X: x, Y: y}
			if r, ok := marks[c]; ok {
				sb.WriteRune(r)
				continue
			}
			sb.WriteRune(g.At(c).Rune())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (g *Grid) String() string {
	return g.Render(nil)
}
