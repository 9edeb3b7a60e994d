package grid

import (
	"context"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// FromScript builds a grid by running a tengo script once per cell.
//
// The script sees x, y, width and height, and assigns either tile (an int
// tile value) or blocked (a bool). Both are predeclared globals, so scripts
// assign with = rather than :=.
//
//	blocked = x == 3 && y != 5
func FromScript(ctx context.Context, src string, width, height int) (*Grid, error) {
	g, err := New(width, height)
	if err != nil {
		return nil, err
	}

	script := tengo.NewScript([]byte(src))
	_ = script.Add("x", 0)
	_ = script.Add("y", 0)
	_ = script.Add("width", width)
	_ = script.Add("height", height)
	_ = script.Add("tile", int(Grass))
	_ = script.Add("blocked", false)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("grid: compile script: %w", err)
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if err := setScriptCell(compiled, x, y); err != nil {
				return nil, err
			}
			if err := compiled.RunContext(ctx); err != nil {
				return nil, fmt.Errorf("grid: run script at (%d,%d): %w", x, y, err)
			}
			t := Tile(compiled.Get("tile").Int())
			if compiled.Get("blocked").Bool() {
				t = Wall
			}
			g.Set(Cell{X: x, Y: y}, t)
		}
	}
	return g, nil
}

func setScriptCell(compiled *tengo.Compiled, x, y int) error {
	vars := []struct {
		name  string
		value any
	}{
		{"x", x},
		{"y", y},
		{"tile", int(Grass)},
		{"blocked", false},
	}
	for _, v := range vars {
		if err := compiled.Set(v.name, v.value); err != nil {
			return fmt.Errorf("grid: set script var %s: %w", v.name, err)
		}
	}
	return nil
}
