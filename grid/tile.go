package grid

import "fmt"

// Tile is the value stored in each grid cell.
type Tile int

const (
	Grass Tile = iota
	Wall
	Road
	Water
	Building
	Tree
)

var tileRunes = map[Tile]rune{
	Grass:    '.',
	Wall:     '#',
	Road:     '=',
	Water:    '~',
	Building: 'B',
	Tree:     'T',
}

// Blocks reports whether the tile stops movement. Only Wall does.
func (t Tile) Blocks() bool {
	return t == Wall
}

func (t Tile) Rune() rune {
	if r, ok := tileRunes[t]; ok {
		return r
	}
	return '?'
}

func (t Tile) String() string {
	switch t {
	case Grass:
		return "grass"
	case Wall:
		return "wall"
	case Road:
		return "road"
	case Water:
		return "water"
	case Building:
		return "building"
	case Tree:
		return "tree"
	default:
		return fmt.Sprintf("tile(%d)", int(t))
	}
}

// TileFromRune parses a map row character.
func TileFromRune(r rune) (Tile, error) {
	for t, tr := range tileRunes {
		if tr == r {
			return t, nil
		}
	}
	return 0, fmt.Errorf("grid: unknown tile %q", r)
}

// Pattern fills a width x height grid with the stock grass/road/water
// layout used by the demo map.
func Pattern(width, height int) (*Grid, error) {
	g, err := New(width, height)
	if err != nil {
		return nil, err
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var t Tile
			switch s := x + y; {
			case s%2 == 0:
				t = Grass
			case s%3 == 0:
				t = Road
			case s%5 == 0:
				t = Water
			default:
				t = Grass
			}
			g.Set(Cell{X: x, Y: y}, t)
		}
	}
	return g, nil
}
