package pathfinding

import (
	"errors"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/isopath/grid"
)

func mustGrid(t *testing.T, values [][]int) *grid.Grid {
	t.Helper()
	g, err := grid.FromValues(values)
	require.NoError(t, err)
	return g
}

func openGrid(t *testing.T, w, h int) *grid.Grid {
	t.Helper()
	g, err := grid.New(w, h)
	require.NoError(t, err)
	return g
}

func randomGrid(r *rand.Rand, w, h int, density float64) *grid.Grid {
	g, _ := grid.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if r.Float64() < density {
				g.Set(grid.Cell{X: x, Y: y}, grid.Wall)
			}
		}
	}
	return g
}

// bfsDistance is the reference shortest step count, or -1 when unreachable.
func bfsDistance(m Map, start, goal grid.Cell) int {
	if start == goal {
		return 0
	}
	dist := map[grid.Cell]int{start: 0}
	queue := []grid.Cell{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, step := range grid.Steps {
			next := cur.Add(step)
			if !inBounds(m, next) || m.Blocked(next) {
				continue
			}
			if _, seen := dist[next]; seen {
				continue
			}
			dist[next] = dist[cur] + 1
			if next == goal {
				return dist[next]
			}
			queue = append(queue, next)
		}
	}
	return -1
}

func assertValidRoute(t *testing.T, m Map, start, goal grid.Cell, route []grid.Cell) {
	t.Helper()
	require.NotEmpty(t, route)
	assert.Equal(t, start, route[0], "route must begin at start")
	assert.Equal(t, goal, route[len(route)-1], "route must end at goal")
	for i := 1; i < len(route); i++ {
		assert.True(t, route[i-1].Adjacent(route[i]), "step %d: %s -> %s", i, route[i-1], route[i])
		assert.False(t, m.Blocked(route[i]), "route enters blocked cell %s", route[i])
	}
}

func TestOpenGridPrefersX(t *testing.T) {
	g := openGrid(t, 5, 5)
	route, err := FindPath(grid.Cell{X: 0, Y: 0}, grid.Cell{X: 4, Y: 4}, g)
	require.NoError(t, err)

	want := []grid.Cell{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}, {X: 4, Y: 0},
		{X: 4, Y: 1}, {X: 4, Y: 2}, {X: 4, Y: 3}, {X: 4, Y: 4},
	}
	assert.Equal(t, want, route)
}

func TestRoutesThroughOpening(t *testing.T) {
	t.Run("corner_to_corner", func(t *testing.T) {
		g := mustGrid(t, [][]int{
			{0, 0, 0},
			{1, 0, 1},
			{0, 0, 0},
		})
		route, err := FindPath(grid.Cell{X: 0, Y: 0}, grid.Cell{X: 2, Y: 2}, g)
		require.NoError(t, err)
		assert.Len(t, route, 5)
		assert.Contains(t, route, grid.Cell{X: 1, Y: 1})
		assertValidRoute(t, g, grid.Cell{X: 0, Y: 0}, grid.Cell{X: 2, Y: 2}, route)
	})

	t.Run("detour", func(t *testing.T) {
		g := mustGrid(t, [][]int{
			{0, 0, 0},
			{1, 1, 0},
			{0, 0, 0},
		})
		route, err := FindPath(grid.Cell{X: 0, Y: 0}, grid.Cell{X: 0, Y: 2}, g)
		require.NoError(t, err)
		assert.Equal(t, []grid.Cell{
			{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1},
			{X: 2, Y: 2}, {X: 1, Y: 2}, {X: 0, Y: 2},
		}, route)
	})
}

func TestBlockedGoal(t *testing.T) {
	g := mustGrid(t, [][]int{
		{0, 0, 0},
		{0, 0, 0},
		{0, 0, 1},
	})
	res, err := Search(grid.Cell{X: 0, Y: 0}, grid.Cell{X: 2, Y: 2}, g)
	require.NoError(t, err)
	assert.Empty(t, res.Route)
	assert.False(t, res.Found)
}

func TestStartIsGoal(t *testing.T) {
	g := openGrid(t, 3, 3)
	c := grid.Cell{X: 1, Y: 2}
	route, err := FindPath(c, c, g)
	require.NoError(t, err)
	assert.Equal(t, []grid.Cell{c}, route)
}

func TestOptimalityOnOpenGrid(t *testing.T) {
	g := openGrid(t, 6, 5)
	for sy := 0; sy < g.Height(); sy++ {
		for sx := 0; sx < g.Width(); sx++ {
			for gy := 0; gy < g.Height(); gy++ {
				for gx := 0; gx < g.Width(); gx++ {
					start, goal := grid.Cell{X: sx, Y: sy}, grid.Cell{X: gx, Y: gy}
					res, err := Search(start, goal, g)
					require.NoError(t, err)
					require.Len(t, res.Route, grid.Manhattan(start, goal)+1, "%s -> %s", start, goal)
					assert.Equal(t, grid.Manhattan(start, goal), res.Cost)
					assertValidRoute(t, g, start, goal, res.Route)
				}
			}
		}
	}
}

func TestMatchesBreadthFirstOnRandomGrids(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 200; i++ {
		g := randomGrid(r, 12, 9, 0.3)
		start := grid.Cell{X: r.IntN(g.Width()), Y: r.IntN(g.Height())}
		goal := grid.Cell{X: r.IntN(g.Width()), Y: r.IntN(g.Height())}
		// Agents stand on open ground.
		g.Set(start, grid.Grass)

		route, err := FindPath(start, goal, g)
		require.NoError(t, err)

		want := bfsDistance(g, start, goal)
		if want < 0 {
			assert.Empty(t, route, "case %d: %s -> %s should be unreachable", i, start, goal)
			continue
		}
		require.Len(t, route, want+1, "case %d: %s -> %s", i, start, goal)
		assertValidRoute(t, g, start, goal, route)
	}
}

func TestUnreachable(t *testing.T) {
	g := mustGrid(t, [][]int{
		{0, 0, 1, 0, 0},
		{0, 0, 1, 0, 0},
		{1, 1, 1, 0, 0},
		{0, 0, 0, 0, 0},
	})
	res, err := Search(grid.Cell{X: 0, Y: 0}, grid.Cell{X: 4, Y: 3}, g, WithVisited())
	require.NoError(t, err)
	assert.Nil(t, res.Route)
	assert.False(t, res.Found)
	// Only the walled-off pocket is explored.
	assert.Equal(t, 4, res.Expanded)
	assert.ElementsMatch(t, []grid.Cell{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}, res.Visited)
}

func TestOutOfBounds(t *testing.T) {
	g := openGrid(t, 4, 3)
	cases := []struct {
		name     string
		start    grid.Cell
		goal     grid.Cell
		endpoint string
	}{
		{"start_negative_x", grid.Cell{X: -1, Y: 0}, grid.Cell{X: 1, Y: 1}, "start"},
		{"start_too_tall", grid.Cell{X: 0, Y: 3}, grid.Cell{X: 1, Y: 1}, "start"},
		{"goal_too_wide", grid.Cell{X: 0, Y: 0}, grid.Cell{X: 4, Y: 0}, "goal"},
		{"goal_negative_y", grid.Cell{X: 0, Y: 0}, grid.Cell{X: 2, Y: -5}, "goal"},
		{"both_report_start", grid.Cell{X: 9, Y: 9}, grid.Cell{X: 9, Y: 9}, "start"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			route, err := FindPath(c.start, c.goal, g)
			require.Error(t, err)
			assert.Nil(t, route)
			assert.ErrorIs(t, err, ErrOutOfBounds)

			var be *BoundsError
			require.True(t, errors.As(err, &be))
			assert.Equal(t, c.endpoint, be.Endpoint)
			assert.Equal(t, 4, be.Width)
			assert.Equal(t, 3, be.Height)
		})
	}
}

func TestNilMap(t *testing.T) {
	_, err := FindPath(grid.Cell{}, grid.Cell{}, nil)
	assert.ErrorIs(t, err, ErrNilMap)
}

func TestDeterministic(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	g := randomGrid(r, 20, 20, 0.2)
	start, goal := grid.Cell{X: 0, Y: 0}, grid.Cell{X: 19, Y: 19}
	g.Set(start, grid.Grass)
	g.Set(goal, grid.Grass)

	first, err := FindPath(start, goal, g)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := FindPath(start, goal, g.Clone())
		require.NoError(t, err)
		require.Equal(t, first, again, "run %d diverged", i)
	}
}

func TestBlockedStartStillSearches(t *testing.T) {
	g := mustGrid(t, [][]int{
		{1, 0, 0},
	})
	route, err := FindPath(grid.Cell{X: 0, Y: 0}, grid.Cell{X: 2, Y: 0}, g)
	require.NoError(t, err)
	assert.Equal(t, []grid.Cell{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}, route)
}

func TestMaxNodes(t *testing.T) {
	g := openGrid(t, 30, 30)
	start, goal := grid.Cell{X: 0, Y: 0}, grid.Cell{X: 29, Y: 29}

	res, err := Search(start, goal, g, WithMaxNodes(10))
	assert.ErrorIs(t, err, ErrBudgetExhausted)
	assert.Nil(t, res.Route)
	assert.Equal(t, 10, res.Expanded)

	res, err = Search(start, goal, g, WithMaxNodes(10_000))
	require.NoError(t, err)
	assert.Len(t, res.Route, 59)

	// An unreachable goal inside the budget is still a plain empty route.
	walled := mustGrid(t, [][]int{
		{0, 1, 0},
	})
	res, err = Search(grid.Cell{X: 0, Y: 0}, grid.Cell{X: 2, Y: 0}, walled, WithMaxNodes(5))
	require.NoError(t, err)
	assert.Empty(t, res.Route)
}

func TestVisitedOrder(t *testing.T) {
	g := openGrid(t, 3, 1)
	res, err := Search(grid.Cell{X: 0, Y: 0}, grid.Cell{X: 2, Y: 0}, g, WithVisited())
	require.NoError(t, err)
	assert.Equal(t, []grid.Cell{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}, res.Visited)
	assert.Equal(t, 2, res.Expanded)

	res, err = Search(grid.Cell{X: 0, Y: 0}, grid.Cell{X: 2, Y: 0}, g)
	require.NoError(t, err)
	assert.Nil(t, res.Visited)
}

func TestConcurrentSearches(t *testing.T) {
	g := openGrid(t, 40, 40)
	for x := 0; x < 39; x++ {
		g.Set(grid.Cell{X: x, Y: 20}, grid.Wall)
	}
	want, err := FindPath(grid.Cell{X: 0, Y: 0}, grid.Cell{X: 0, Y: 39}, g)
	require.NoError(t, err)

	var wg sync.WaitGroup
	routes := make([][]grid.Cell, 16)
	errs := make([]error, len(routes))
	for i := range routes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			routes[i], errs[i] = FindPath(grid.Cell{X: 0, Y: 0}, grid.Cell{X: 0, Y: 39}, g)
		}(i)
	}
	wg.Wait()

	for i := range routes {
		require.NoError(t, errs[i])
		assert.Equal(t, want, routes[i])
	}
}

func TestFrontierTieBreak(t *testing.T) {
	items := openSet{
		{cell: grid.Cell{X: 0, Y: 1}, f: 5, h: 3},
		{cell: grid.Cell{X: 2, Y: 0}, f: 5, h: 3},
		{cell: grid.Cell{X: 9, Y: 9}, f: 5, h: 1},
		{cell: grid.Cell{X: 0, Y: 0}, f: 6, h: 0},
	}
	assert.True(t, items.Less(2, 0), "lower h wins on equal f")
	assert.True(t, items.Less(1, 0), "reading order wins on equal f and h")
	assert.True(t, items.Less(0, 3), "lower f always wins")
}

func BenchmarkSearchOpen64(b *testing.B) {
	g, _ := grid.New(64, 64)
	start, goal := grid.Cell{X: 0, Y: 0}, grid.Cell{X: 63, Y: 63}
	for b.Loop() {
		_, _ = FindPath(start, goal, g)
	}
}
