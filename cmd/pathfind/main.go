package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/milk9111/isopath/config"
	"github.com/milk9111/isopath/grid"
	"github.com/milk9111/isopath/pathfinding"
)

const (
	exitOK = iota
	exitUsage
	exitNoRoute
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("pathfind", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "isopath.yaml", "config file (optional)")
	mapName := fs.String("map", "", "map file or embedded map name (overrides config)")
	from := fs.String("from", "", "start cell as x,y (defaults to the map spawn)")
	to := fs.String("to", "", "goal cell as x,y")
	maxNodes := fs.Int("max-nodes", -1, "expansion budget; -1 uses the config value, 0 is unlimited")
	showVisited := fs.Bool("visited", false, "mark expanded cells on the map")
	plain := fs.Bool("plain", false, "disable colors")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	logger := cfg.Logger()
	if *mapName != "" {
		cfg.Map = *mapName
	}
	if *maxNodes >= 0 {
		cfg.MaxNodes = *maxNodes
	}

	g, spec, err := grid.LoadGrid(cfg.Map)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	start, ok := spec.SpawnCell()
	if *from != "" {
		start, err = grid.ParseCell(*from)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitUsage
		}
	} else if !ok {
		fmt.Fprintln(stderr, "pathfind: -from is required for maps without a spawn")
		return exitUsage
	}
	if *to == "" {
		fmt.Fprintln(stderr, "pathfind: -to is required")
		return exitUsage
	}
	goal, err := grid.ParseCell(*to)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	opts := []pathfinding.Option{pathfinding.WithMaxNodes(cfg.MaxNodes)}
	if *showVisited {
		opts = append(opts, pathfinding.WithVisited())
	}
	res, err := pathfinding.Search(start, goal, g, opts...)
	switch {
	case errors.Is(err, pathfinding.ErrOutOfBounds):
		fmt.Fprintln(stderr, err)
		return exitUsage
	case errors.Is(err, pathfinding.ErrBudgetExhausted):
		logger.Warn("search budget exhausted", "map", spec.Name, "from", start, "to", goal, "expanded", res.Expanded)
		fmt.Fprintln(stderr, err)
		return exitNoRoute
	case err != nil:
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	logger.Debug("search finished", "map", spec.Name, "from", start, "to", goal, "found", res.Found, "expanded", res.Expanded)

	r := newRenderer(stdout, *plain)
	fmt.Fprint(stdout, r.board(g, start, goal, res))
	if !res.Found {
		fmt.Fprintf(stdout, "no route from %s to %s\n", start, goal)
		return exitNoRoute
	}
	fmt.Fprintf(stdout, "route (%d steps, %d expanded): %s\n", res.Cost, res.Expanded, formatRoute(res.Route))
	return exitOK
}

func formatRoute(route []grid.Cell) string {
	parts := make([]string, len(route))
	for i, c := range route {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
