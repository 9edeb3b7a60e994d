package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"

	"github.com/milk9111/isopath/agent"
	"github.com/milk9111/isopath/combat"
	"github.com/milk9111/isopath/config"
	"github.com/milk9111/isopath/grid"
	"github.com/milk9111/isopath/iso"
	"github.com/milk9111/isopath/pathfinding"
)

const topMargin = 48

type Game struct {
	cfg    *config.Config
	logger *slog.Logger
	proj   iso.Projection

	store      *grid.Store
	watcher    *grid.Watcher
	mapName    string
	mapVersion uint64

	player   *agent.Agent
	enemy    *agent.Agent
	hero     *combat.Combatant
	foe      *combat.Combatant
	resolver *combat.Resolver

	runner *agent.Runner
	cancel context.CancelFunc
	runErr chan error

	paused      bool
	quit        bool
	pauseUI     *ebitenui.UI
	showVisited bool
	visited     []grid.Cell
	goal        grid.Cell
	hasGoal     bool
	expanded    int
	message     string
	clipboardOK bool
	frames      int
}

func NewGame(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Game, error) {
	proj, err := iso.New(cfg.TileWidth, cfg.TileHeight)
	if err != nil {
		return nil, err
	}
	m, spec, err := grid.LoadGrid(cfg.Map)
	if err != nil {
		return nil, err
	}
	spawn, ok := spec.SpawnCell()
	if !ok {
		spawn = firstOpen(m)
	}

	g := &Game{
		cfg:         cfg,
		logger:      logger.With("map", spec.Name),
		proj:        proj,
		store:       grid.NewStore(m),
		mapName:     spec.Name,
		showVisited: cfg.Debug,
		runErr:      make(chan error, 1),
	}
	_, g.mapVersion = g.store.Load()

	anim := agent.WithAnimation(cfg.WalkFrames, cfg.FramePeriod)
	g.player = agent.New("player", spawn, anim)
	g.enemy = agent.New("enemy", farthestOpen(m, spawn), anim)

	if g.hero, err = combat.ForAgent(g.player, combat.FactionPlayer, combat.PlayerStats); err != nil {
		return nil, err
	}
	if g.foe, err = combat.ForAgent(g.enemy, combat.FactionEnemy, combat.EnemyStats); err != nil {
		return nil, err
	}
	g.resolver = combat.NewResolver(nil)
	g.resolver.Emitter.Handlers = append(g.resolver.Emitter.Handlers, func(evt combat.Event) {
		g.logger.Info("combat", "event", evt.Type,
			"attacker", evt.AttackerName, "attacker_id", evt.AttackerID,
			"target", evt.TargetName, "target_id", evt.TargetID,
			"damage", evt.Damage, "hp", evt.TargetHP)
		g.message = evt.String()
	})

	// Only files on disk can change under us; embedded maps are fixed.
	if _, err := os.Stat(cfg.Map); err == nil {
		w, err := grid.NewWatcher(cfg.Map, g.store, g.logger)
		if err != nil {
			g.logger.Warn("map hot reload disabled", "err", err)
		} else {
			g.watcher = w
		}
	}

	if err := clipboard.Init(); err != nil {
		g.logger.Warn("clipboard unavailable", "err", err)
	} else {
		g.clipboardOK = true
	}

	g.pauseUI = NewPauseUI(g)

	runCtx, cancel := context.WithCancel(ctx)
	g.cancel = cancel
	g.runner = agent.NewRunner(cfg.Tick, g.player, g.enemy)
	go func() {
		g.runErr <- g.runner.Run(runCtx)
	}()

	g.logger.Info("game started", "spawn", spawn, "width", m.Width(), "height", m.Height(),
		"player_id", g.player.ID, "enemy_id", g.enemy.ID)
	return g, nil
}

// Close stops the tick loop and the map watcher.
func (g *Game) Close() error {
	g.cancel()
	err := <-g.runErr
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if g.watcher != nil {
		err = errors.Join(err, g.watcher.Close())
	}
	return err
}

func (g *Game) Update() error {
	g.frames++

	if g.quit {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.setPaused(!g.paused)
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.pollWatcher()

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.moveTo(g.cellAt(x, y))
	}
	for key, step := range stepKeys {
		if inpututil.IsKeyJustPressed(key) {
			g.step(step)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyRoute()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		g.showVisited = !g.showVisited
		if !g.showVisited {
			g.visited = nil
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.attack()
	}
	return nil
}

func (g *Game) setPaused(paused bool) {
	g.paused = paused
	g.runner.SetPaused(paused)
}

func (g *Game) clearRoute() {
	g.player.Stop()
	g.hasGoal = false
	g.visited = nil
	g.message = "route cleared"
}

// origin is the screen position of cell (0,0)'s top corner.
func (g *Game) origin() (int, int) {
	return g.cfg.WindowWidth / 2, topMargin
}

func (g *Game) cellAt(x, y int) grid.Cell {
	ox, oy := g.origin()
	return g.proj.ToCell(x-ox, y-oy)
}

func (g *Game) moveTo(goal grid.Cell) {
	m, _ := g.store.Load()
	if !m.InBounds(goal) {
		return
	}
	opts := []pathfinding.Option{pathfinding.WithMaxNodes(g.cfg.MaxNodes)}
	if g.showVisited {
		opts = append(opts, pathfinding.WithVisited())
	}

	res, err := g.player.Plan(m, goal, opts...)
	if g.showVisited {
		g.visited, g.expanded = res.Visited, res.Expanded
	}
	switch {
	case err != nil:
		g.logger.Warn("move failed", "agent_id", g.player.ID, "goal", goal, "err", err)
		g.message = err.Error()
		g.hasGoal = false
		return
	case !res.Found:
		g.message = fmt.Sprintf("no route to %s", goal)
		g.hasGoal = false
		return
	}
	g.goal, g.hasGoal = goal, true
	g.message = fmt.Sprintf("walking to %s, %d steps", goal, res.Cost)
	g.logger.Debug("route planned", "agent_id", g.player.ID, "goal", goal, "steps", res.Cost, "expanded", res.Expanded)
}

var stepKeys = map[ebiten.Key]grid.Cell{
	ebiten.KeyW: grid.Up,
	ebiten.KeyA: grid.Left,
	ebiten.KeyS: grid.Down,
	ebiten.KeyD: grid.Right,
}

// step walks the player one cell, replacing any planned route.
func (g *Game) step(dir grid.Cell) {
	m, _ := g.store.Load()
	if !g.player.Step(m, dir) {
		return
	}
	g.hasGoal = false
	g.visited = nil
}

// pollWatcher picks up reloaded maps and replans the current walk on them.
func (g *Game) pollWatcher() {
	if g.watcher != nil {
		select {
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.message = "reload failed: " + err.Error()
			}
		default:
		}
	}

	m, version := g.store.Load()
	if version == g.mapVersion {
		return
	}
	g.mapVersion = version
	g.message = fmt.Sprintf("map reloaded (v%d)", version)
	for _, a := range []*agent.Agent{g.player, g.enemy} {
		if pos := a.Position(); !m.InBounds(pos) || m.Blocked(pos) {
			a.Place(firstOpen(m))
		}
	}
	if g.hasGoal && len(g.player.Route()) > 0 {
		g.moveTo(g.goal)
	}
}

func (g *Game) copyRoute() {
	route := g.player.Route()
	if len(route) == 0 {
		g.message = "no route to copy"
		return
	}
	if !g.clipboardOK {
		g.message = "clipboard unavailable"
		return
	}
	parts := make([]string, 0, len(route)+1)
	parts = append(parts, g.player.Position().String())
	for _, c := range route {
		parts = append(parts, c.String())
	}
	clipboard.Write(clipboard.FmtText, []byte(strings.Join(parts, " ")))
	g.message = fmt.Sprintf("copied %d cells", len(parts))
}

func (g *Game) attack() {
	if !g.player.Position().Adjacent(g.enemy.Position()) {
		g.message = "enemy is out of reach"
		return
	}
	if _, err := g.resolver.Attack(g.hero, g.foe); err != nil {
		g.message = err.Error()
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return float64(g.cfg.WindowWidth), float64(g.cfg.WindowHeight)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

func firstOpen(m *grid.Grid) grid.Cell {
	for y := range m.Height() {
		for x := range m.Width() {
			if c := (grid.Cell{X: x, Y: y}); m.Passable(c) {
				return c
			}
		}
	}
	return grid.Cell{}
}

// farthestOpen returns the reachable cell with the longest route from start.
func farthestOpen(m *grid.Grid, start grid.Cell) grid.Cell {
	best, bestCost := start, 0
	for y := range m.Height() {
		for x := range m.Width() {
			c := grid.Cell{X: x, Y: y}
			if m.Blocked(c) || grid.Manhattan(start, c) <= bestCost {
				continue
			}
			res, err := pathfinding.Search(start, c, m)
			if err == nil && res.Found && res.Cost > bestCost {
				best, bestCost = c, res.Cost
			}
		}
	}
	return best
}
