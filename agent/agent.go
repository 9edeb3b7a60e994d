// Package agent moves entities along routes produced by pathfinding, one
// cell per tick.
package agent

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/milk9111/isopath/grid"
	"github.com/milk9111/isopath/pathfinding"
)

const (
	defaultFrames      = 5
	defaultFramePeriod = 10
)

var ErrBrokenRoute = errors.New("agent: route steps must be orthogonally adjacent")

// Direction is the way an agent faces.
type Direction int

const (
	Down Direction = iota
	Up
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Down:
		return "down"
	case Up:
		return "up"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// directionOf picks the facing for a step, preferring the horizontal axis.
func directionOf(delta grid.Cell, prev Direction) Direction {
	switch {
	case delta.X > 0:
		return Right
	case delta.X < 0:
		return Left
	case delta.Y > 0:
		return Down
	case delta.Y < 0:
		return Up
	default:
		return prev
	}
}

// State is a read-only copy of an agent for renderers.
type State struct {
	ID        uuid.UUID
	Name      string
	Pos       grid.Cell
	Facing    Direction
	Moving    bool
	Frame     int
	Remaining int
}

// Animation names the sprite strip to draw, e.g. "down" or "idle_left".
func (s State) Animation() string {
	if s.Moving {
		return s.Facing.String()
	}
	return "idle_" + s.Facing.String()
}

// Agent follows a route. All methods are safe for concurrent use; route
// changes and ticks are serialized.
type Agent struct {
	ID   uuid.UUID
	Name string

	mu          sync.Mutex
	pos         grid.Cell
	route       []grid.Cell
	facing      Direction
	moving      bool
	frame       int
	animDelay   int
	frames      int
	framePeriod int
}

// Option configures an Agent.
type Option func(*Agent)

// WithAnimation sets the number of walk frames and how many ticks each lasts.
func WithAnimation(frames, period int) Option {
	return func(a *Agent) {
		if frames > 0 {
			a.frames = frames
		}
		if period > 0 {
			a.framePeriod = period
		}
	}
}

func New(name string, pos grid.Cell, opts ...Option) *Agent {
	a := &Agent{
		ID:          uuid.New(),
		Name:        name,
		pos:         pos,
		facing:      Down,
		frames:      defaultFrames,
		framePeriod: defaultFramePeriod,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// MoveTo plans a route from the agent's cell to goal and starts following
// it. An unreachable goal stops the agent where it is. On error the current
// route is left untouched.
func (a *Agent) MoveTo(m pathfinding.Map, goal grid.Cell, opts ...pathfinding.Option) ([]grid.Cell, error) {
	res, err := a.Plan(m, goal, opts...)
	if err != nil {
		return nil, err
	}
	return res.Route, nil
}

// Plan is MoveTo returning the whole search result. The search and the
// route swap happen under one lock, so the route always starts where the
// agent stands, and Visited matches the route that is followed.
func (a *Agent) Plan(m pathfinding.Map, goal grid.Cell, opts ...pathfinding.Option) (pathfinding.Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	res, err := pathfinding.Search(a.pos, goal, m, opts...)
	if err != nil {
		return res, fmt.Errorf("agent: %s move to %s: %w", a.Name, goal, err)
	}
	a.setRouteLocked(res.Route)
	return res, nil
}

// Step replaces the route with a single move in dir. It reports false and
// keeps the route when the target is off the map or blocked.
func (a *Agent) Step(m pathfinding.Map, dir grid.Cell) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	next := a.pos.Add(dir)
	if !a.pos.Adjacent(next) || next.X < 0 || next.Y < 0 || next.X >= m.Width() || next.Y >= m.Height() || m.Blocked(next) {
		return false
	}
	a.route = []grid.Cell{next}
	return true
}

// SetRoute replaces the route. A leading cell equal to the agent's position
// is dropped.
func (a *Agent) SetRoute(route []grid.Cell) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	prev := a.pos
	for i, c := range route {
		if i == 0 && c == a.pos {
			continue
		}
		if !prev.Adjacent(c) {
			return fmt.Errorf("%w: %s -> %s", ErrBrokenRoute, prev, c)
		}
		prev = c
	}
	a.setRouteLocked(route)
	return nil
}

func (a *Agent) setRouteLocked(route []grid.Cell) {
	if len(route) > 0 && route[0] == a.pos {
		route = route[1:]
	}
	a.route = append(a.route[:0:0], route...)
}

// Stop clears the route; the agent goes idle on its next tick.
func (a *Agent) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.route = nil
}

// Place puts the agent on c and clears its route.
func (a *Agent) Place(c grid.Cell) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pos = c
	a.route = nil
	a.moving = false
	a.frame = 0
}

func (a *Agent) Position() grid.Cell {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pos
}

// Route returns a copy of the cells still to walk.
func (a *Agent) Route() []grid.Cell {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]grid.Cell(nil), a.route...)
}

// Tick advances the walk animation, then steps onto the next route cell.
// It reports whether the agent moved.
func (a *Agent) Tick() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.moving {
		a.animDelay++
		if a.animDelay%a.framePeriod == 0 {
			a.frame = (a.frame + 1) % a.frames
		}
	} else {
		a.frame = 0
	}

	if len(a.route) == 0 {
		a.moving = false
		return false
	}

	next := a.route[0]
	a.route = a.route[1:]
	a.facing = directionOf(next.Sub(a.pos), a.facing)
	a.pos = next
	a.moving = true
	return true
}

func (a *Agent) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return State{
		ID:        a.ID,
		Name:      a.Name,
		Pos:       a.pos,
		Facing:    a.facing,
		Moving:    a.moving,
		Frame:     a.frame,
		Remaining: len(a.route),
	}
}
