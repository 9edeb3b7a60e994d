package pathfinding

import (
	"errors"
	"fmt"

	"github.com/milk9111/isopath/grid"
)

var (
	ErrOutOfBounds     = errors.New("pathfinding: cell out of bounds")
	ErrBudgetExhausted = errors.New("pathfinding: node budget exhausted")
	ErrNilMap          = errors.New("pathfinding: nil map")
)

// BoundsError reports which endpoint fell outside the map. It matches
// ErrOutOfBounds with errors.Is.
type BoundsError struct {
	Endpoint string
	Cell     grid.Cell
	Width    int
	Height   int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("pathfinding: %s %s outside %dx%d map", e.Endpoint, e.Cell, e.Width, e.Height)
}

func (e *BoundsError) Unwrap() error {
	return ErrOutOfBounds
}
