package debugger

import (
	"fmt"

	"github.com/jetsetilly/tileflow/flow/grid"
	"github.com/jetsetilly/tileflow/flow/tile"
)

// watch a single grid cell for changes to the logical tile
type watch struct {
	x, y int
	idx  uint16
	data tile.Tile
	prev tile.Tile
}

func (w watch) String() string {
	return fmt.Sprintf("(%d,%d) %s -> %s", w.x, w.y, w.prev, w.data)
}

// checkWatches compares every watched cell with the value last seen. Returns
// the first watch that has changed. Must only be called from the goroutine
// running the main loop or when the main loop is not running.
func (m *debugger) checkWatches(g *grid.Grid) *watch {
	for i, w := range m.watches {
		d := tile.Logical(g.At(w.idx))
		if d != w.data {
			w.prev = w.data
			w.data = d
			m.watches[i] = w
			return &w
		}
	}
	return nil
}
