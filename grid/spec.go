package grid

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed maps/*.yaml
var MapsFS embed.FS

const scriptTimeout = 2 * time.Second

// Spec is the on-disk description of a map.
type Spec struct {
	Name      string   `yaml:"name"`
	Width     int      `yaml:"width"`
	Height    int      `yaml:"height"`
	Rows      []string `yaml:"rows"`
	Walls     [][2]int `yaml:"walls"`
	Generator string   `yaml:"generator"`
	Script    string   `yaml:"script"`
	Spawn     *[2]int  `yaml:"spawn"`
}

// Load reads a map file from disk, falling back to the embedded maps when
// no such file exists. Other disk errors are returned as is.
func Load(name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return MapsFS.ReadFile(cleanMapPath(name))
}

// ModTime reports the on-disk modification time of a map file.
func ModTime(name string) (time.Time, bool) {
	info, err := os.Stat(name)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func LoadSpec(name string) (*Spec, error) {
	data, err := Load(name)
	if err != nil {
		return nil, fmt.Errorf("grid: load %s: %w", name, err)
	}
	spec, err := ParseSpec(data)
	if err != nil {
		return nil, fmt.Errorf("grid: parse %s: %w", name, err)
	}
	if spec.Name == "" {
		spec.Name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}
	return spec, nil
}

func ParseSpec(data []byte) (*Spec, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("grid: unmarshal map: %w", err)
	}
	return &spec, nil
}

// LoadGrid loads and builds the named map.
func LoadGrid(name string) (*Grid, *Spec, error) {
	spec, err := LoadSpec(name)
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), scriptTimeout)
	defer cancel()
	g, err := spec.Build(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("grid: build %s: %w", name, err)
	}
	return g, spec, nil
}

// Build produces the grid the spec describes. Explicit walls are applied
// after rows or the generator.
func (s *Spec) Build(ctx context.Context) (*Grid, error) {
	if s == nil {
		return nil, fmt.Errorf("grid: nil spec")
	}

	g, err := s.base(ctx)
	if err != nil {
		return nil, err
	}

	for _, w := range s.Walls {
		c := Cell{X: w[0], Y: w[1]}
		if !g.Set(c, Wall) {
			return nil, fmt.Errorf("grid: wall %s outside %dx%d map", c, g.width, g.height)
		}
	}

	if spawn, ok := s.SpawnCell(); ok && !g.InBounds(spawn) {
		return nil, fmt.Errorf("grid: spawn %s outside %dx%d map", spawn, g.width, g.height)
	}
	return g, nil
}

func (s *Spec) base(ctx context.Context) (*Grid, error) {
	if len(s.Rows) > 0 {
		if s.Generator != "" {
			return nil, fmt.Errorf("grid: map %q sets both rows and generator %q", s.Name, s.Generator)
		}
		return s.fromRows()
	}

	switch strings.ToLower(s.Generator) {
	case "", "empty":
		return New(s.Width, s.Height)
	case "pattern":
		return Pattern(s.Width, s.Height)
	case "script":
		if strings.TrimSpace(s.Script) == "" {
			return nil, fmt.Errorf("grid: map %q uses script generator without a script", s.Name)
		}
		return FromScript(ctx, s.Script, s.Width, s.Height)
	default:
		return nil, fmt.Errorf("grid: map %q: unknown generator %q", s.Name, s.Generator)
	}
}

func (s *Spec) fromRows() (*Grid, error) {
	width := utf8.RuneCountInString(s.Rows[0])
	height := len(s.Rows)
	if (s.Width != 0 && s.Width != width) || (s.Height != 0 && s.Height != height) {
		return nil, fmt.Errorf("grid: map %q declares %dx%d but rows are %dx%d", s.Name, s.Width, s.Height, width, height)
	}

	g, err := New(width, height)
	if err != nil {
		return nil, err
	}
	for y, row := range s.Rows {
		if n := utf8.RuneCountInString(row); n != width {
			return nil, fmt.Errorf("grid: row %d has %d cells, want %d", y, n, width)
		}
		x := 0
		for _, r := range row {
			t, err := TileFromRune(r)
			if err != nil {
				return nil, fmt.Errorf("grid: row %d col %d: %w", y, x, err)
			}
			g.Set(Cell{X: x, Y: y}, t)
			x++
		}
	}
	return g, nil
}

// SpawnCell returns the configured spawn point, if any.
func (s *Spec) SpawnCell() (Cell, bool) {
	if s == nil || s.Spawn == nil {
		return Cell{}, false
	}
	return Cell{X: s.Spawn[0], Y: s.Spawn[1]}, true
}

func cleanMapPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "grid/"); ok {
		s = after
	}
	if after, ok := strings.CutPrefix(s, "maps/"); ok {
		s = after
	}
	if filepath.Ext(s) == "" {
		s += ".yaml"
	}
	return "maps/" + s
}
