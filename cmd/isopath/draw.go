package main

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/isopath/agent"
	"github.com/milk9111/isopath/grid"
)

var tileColors = map[grid.Tile]color.RGBA{
	grid.Grass:    colornames.Olivedrab,
	grid.Wall:     colornames.Dimgray,
	grid.Road:     colornames.Burlywood,
	grid.Water:    colornames.Steelblue,
	grid.Building: colornames.Sienna,
	grid.Tree:     colornames.Darkgreen,
}

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)
	m, _ := g.store.Load()

	for y := range m.Height() {
		for x := range m.Width() {
			c := grid.Cell{X: x, Y: y}
			g.fillTile(screen, c, tileColors[m.At(c)])
			g.strokeTile(screen, c, colornames.Darkslategray, 1)
		}
	}

	if g.showVisited {
		for _, c := range g.visited {
			g.fillTile(screen, c, color.RGBA{R: 0x40, G: 0x40, B: 0x60, A: 0x80})
		}
	}

	route := g.player.Route()
	for _, c := range route {
		g.strokeTile(screen, c, colornames.Gold, 2)
	}
	if g.hasGoal && len(route) > 0 {
		g.strokeTile(screen, g.goal, colornames.Orangered, 3)
	}

	enemyColor := colornames.Crimson
	if !g.foe.Alive() {
		enemyColor = colornames.Gray
	}
	// Draw back to front so the nearer agent overlaps.
	ps, es := g.player.State(), g.enemy.State()
	if ps.Pos.X+ps.Pos.Y < es.Pos.X+es.Pos.Y {
		g.drawAgent(screen, ps, colornames.Deepskyblue)
		g.drawAgent(screen, es, enemyColor)
	} else {
		g.drawAgent(screen, es, enemyColor)
		g.drawAgent(screen, ps, colornames.Deepskyblue)
	}

	g.drawHUD(screen, ps)

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) corners(c grid.Cell) [4][2]float32 {
	ox, oy := g.origin()
	var out [4][2]float32
	for i, p := range g.proj.Corners(c) {
		out[i] = [2]float32{float32(p[0] + ox), float32(p[1] + oy)}
	}
	return out
}

func (g *Game) fillTile(screen *ebiten.Image, c grid.Cell, clr color.Color) {
	pts := g.corners(c)
	var path vector.Path
	path.MoveTo(pts[0][0], pts[0][1])
	for _, p := range pts[1:] {
		path.LineTo(p[0], p[1])
	}
	path.Close()

	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	r, gr, b, a := clr.RGBA()
	for i := range vs {
		vs[i].SrcX = 1
		vs[i].SrcY = 1
		vs[i].ColorR = float32(r) / 0xffff
		vs[i].ColorG = float32(gr) / 0xffff
		vs[i].ColorB = float32(b) / 0xffff
		vs[i].ColorA = float32(a) / 0xffff
	}
	screen.DrawTriangles(vs, is, whiteSubImage, &ebiten.DrawTrianglesOptions{})
}

func (g *Game) strokeTile(screen *ebiten.Image, c grid.Cell, clr color.Color, width float32) {
	pts := g.corners(c)
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		vector.StrokeLine(screen, a[0], a[1], b[0], b[1], width, clr, true)
	}
}

func (g *Game) drawAgent(screen *ebiten.Image, s agent.State, clr color.Color) {
	ox, oy := g.origin()
	cx, cy := g.proj.Center(s.Pos)
	x := float32(cx + ox)
	// Bob by walk frame.
	y := float32(cy+oy) - float32(g.cfg.TileHeight)/4 - float32(s.Frame%2)*2
	radius := float32(g.cfg.TileHeight) / 3
	vector.DrawFilledCircle(screen, x, y, radius, clr, true)

	dx, dy := facingOffset(s.Facing)
	vector.StrokeLine(screen, x, y, x+dx*radius, y+dy*radius, 2, colornames.White, true)
}

// facingOffset is the screen direction of a facing on the diamond grid.
func facingOffset(d agent.Direction) (float32, float32) {
	switch d {
	case agent.Right:
		return 0.89, 0.45
	case agent.Left:
		return -0.89, -0.45
	case agent.Up:
		return 0.89, -0.45
	default:
		return -0.89, 0.45
	}
}

func (g *Game) drawHUD(screen *ebiten.Image, ps agent.State) {
	mx, my := ebiten.CursorPosition()
	hover := g.cellAt(mx, my)
	msg := fmt.Sprintf("%s  FPS %.0f  player %s %s  hp %d  enemy hp %d  hover %s",
		g.mapName, ebiten.ActualFPS(), ps.Pos, ps.Animation(), g.hero.HP(), g.foe.HP(), hover)
	if g.showVisited {
		msg += fmt.Sprintf("  expanded %d", g.expanded)
	}
	msg += "\nclick: walk  wasd: step  space: attack  c: copy route  v: visited  esc: menu"
	if g.message != "" {
		msg += "\n" + g.message
	}
	ebitenutil.DebugPrint(screen, msg)
}
