// Package pathfinding finds shortest 4-way routes on an occupancy grid.
//
// Search is A* with a Manhattan heuristic and unit step cost. It keeps no
// state between calls, so concurrent searches over grids that are not being
// mutated need no locking.
package pathfinding

import (
	"container/heap"

	"github.com/milk9111/isopath/grid"
)

// Map is the occupancy data a search reads. *grid.Grid satisfies it.
type Map interface {
	Width() int
	Height() int
	Blocked(c grid.Cell) bool
}

// Result is the outcome of a search.
type Result struct {
	// Route runs from start to goal inclusive; nil when no route exists.
	Route []grid.Cell
	// Cost is the number of steps in Route.
	Cost int
	// Expanded counts cells whose neighbors were examined.
	Expanded int
	// Visited lists popped cells in order. Only filled with WithVisited.
	Visited []grid.Cell
	Found   bool
}

// FindPath returns the shortest route from start to goal, or an empty route
// if goal cannot be reached. Cells outside the map fail with ErrOutOfBounds.
func FindPath(start, goal grid.Cell, m Map, opts ...Option) ([]grid.Cell, error) {
	res, err := Search(start, goal, m, opts...)
	if err != nil {
		return nil, err
	}
	return res.Route, nil
}

// Search runs A* from start to goal.
//
// Frontier entries with equal f are served closest-to-goal first, then in
// reading order (grid.Cell.Less), so identical inputs always give identical
// routes. start == goal yields the single-cell route [start]. A blocked start
// is still used as the origin; a blocked goal is never reached.
func Search(start, goal grid.Cell, m Map, opts ...Option) (Result, error) {
	if m == nil {
		return Result{}, ErrNilMap
	}
	o := newOptions(opts)

	if err := checkBounds(m, "start", start); err != nil {
		return Result{}, err
	}
	if err := checkBounds(m, "goal", goal); err != nil {
		return Result{}, err
	}

	if start == goal {
		res := Result{Route: []grid.Cell{start}, Found: true}
		if o.recordVisited {
			res.Visited = []grid.Cell{start}
		}
		return res, nil
	}
	if m.Blocked(goal) {
		return Result{}, nil
	}

	open := &openSet{}
	heap.Init(open)
	heap.Push(open, newOpenItem(start, 0, goal))

	gScore := map[grid.Cell]int{start: 0}
	cameFrom := make(map[grid.Cell]grid.Cell)
	closed := make(map[grid.Cell]struct{})

	var res Result
	for open.Len() > 0 {
		current := heap.Pop(open).(*openItem)
		cur := current.cell

		// Improved cells are pushed again; drop the outdated entries.
		if _, done := closed[cur]; done || current.g > gScore[cur] {
			continue
		}

		if o.recordVisited {
			res.Visited = append(res.Visited, cur)
		}

		if cur == goal {
			res.Route = reconstructPath(cameFrom, start, goal)
			res.Cost = current.g
			res.Found = true
			return res, nil
		}

		if o.maxNodes > 0 && res.Expanded >= o.maxNodes {
			return Result{Expanded: res.Expanded, Visited: res.Visited}, ErrBudgetExhausted
		}

		closed[cur] = struct{}{}
		res.Expanded++

		for _, step := range grid.Steps {
			next := cur.Add(step)
			if !inBounds(m, next) || m.Blocked(next) {
				continue
			}
			if _, done := closed[next]; done {
				continue
			}
			tentative := current.g + 1
			if best, seen := gScore[next]; seen && tentative >= best {
				continue
			}
			gScore[next] = tentative
			cameFrom[next] = cur
			heap.Push(open, newOpenItem(next, tentative, goal))
		}
	}

	return res, nil
}

func reconstructPath(cameFrom map[grid.Cell]grid.Cell, start, goal grid.Cell) []grid.Cell {
	path := make([]grid.Cell, 0, grid.Manhattan(start, goal)+1)
	cur := goal
	for {
		path = append(path, cur)
		if cur == start {
			break
		}
		prev, ok := cameFrom[cur]
		if !ok {
			return nil
		}
		cur = prev
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func inBounds(m Map, c grid.Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < m.Width() && c.Y < m.Height()
}

func checkBounds(m Map, endpoint string, c grid.Cell) error {
	if inBounds(m, c) {
		return nil
	}
	return &BoundsError{Endpoint: endpoint, Cell: c, Width: m.Width(), Height: m.Height()}
}
