package pathfinding

import "github.com/milk9111/isopath/grid"

type openItem struct {
	cell grid.Cell
	f    int
	g    int
	h    int
}

func newOpenItem(c grid.Cell, g int, goal grid.Cell) *openItem {
	h := grid.Manhattan(c, goal)
	return &openItem{cell: c, f: g + h, g: g, h: h}
}

// openSet is a min-heap on f. Ties go to the smaller h, then to the cell
// that comes first in reading order.
type openSet []*openItem

func (o openSet) Len() int { return len(o) }
func (o openSet) Less(i, j int) bool {
	a, b := o[i], o[j]
	if a.f != b.f {
		return a.f < b.f
	}
	if a.h != b.h {
		return a.h < b.h
	}
	return a.cell.Less(b.cell)
}
func (o openSet) Swap(i, j int) { o[i], o[j] = o[j], o[i] }
func (o *openSet) Push(x any) {
	*o = append(*o, x.(*openItem))
}
func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*o = old[:n-1]
	return item
}
