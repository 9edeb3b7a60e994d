// Package iso converts between grid cells and isometric screen space.
package iso

import (
	"fmt"

	"github.com/milk9111/isopath/grid"
)

// Projection maps cells onto 2:1 diamonds of TileWidth x TileHeight pixels.
// Screen positions are relative to the top corner of cell (0,0).
type Projection struct {
	TileWidth  int
	TileHeight int
}

// Default matches 32px source tiles drawn as 64x32 diamonds.
var Default = Projection{TileWidth: 64, TileHeight: 32}

func New(tileWidth, tileHeight int) (Projection, error) {
	if tileWidth < 2 || tileHeight < 2 || tileWidth%2 != 0 || tileHeight%2 != 0 {
		return Projection{}, fmt.Errorf("iso: tile size %dx%d must be even and at least 2", tileWidth, tileHeight)
	}
	return Projection{TileWidth: tileWidth, TileHeight: tileHeight}, nil
}

// ToScreen returns the top corner of c's diamond.
func (p Projection) ToScreen(c grid.Cell) (x, y int) {
	return (c.X - c.Y) * p.TileWidth / 2, (c.X + c.Y) * p.TileHeight / 2
}

// Center returns the middle of c's diamond.
func (p Projection) Center(c grid.Cell) (x, y int) {
	x, y = p.ToScreen(c)
	return x, y + p.TileHeight/2
}

// ToScreenF projects a fractional grid position, for smooth movement.
func (p Projection) ToScreenF(cx, cy float64) (x, y float64) {
	return (cx - cy) * float64(p.TileWidth) / 2, (cx + cy) * float64(p.TileHeight) / 2
}

// ToCell returns the cell whose diamond contains screen point (x, y). A
// diamond owns its top corner and its two upper edges.
func (p Projection) ToCell(x, y int) grid.Cell {
	hw, hh := p.TileWidth/2, p.TileHeight/2
	d := 2 * hw * hh
	return grid.Cell{X: floorDiv(x*hh+y*hw, d), Y: floorDiv(y*hw-x*hh, d)}
}

// Corners returns the diamond outline of c: top, right, bottom, left.
func (p Projection) Corners(c grid.Cell) [4][2]int {
	x, y := p.ToScreen(c)
	hw, hh := p.TileWidth/2, p.TileHeight/2
	return [4][2]int{
		{x, y},
		{x + hw, y + hh},
		{x, y + p.TileHeight},
		{x - hw, y + hh},
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
