// Package grid is the store for the 40x25 map of tiles.
//
// The Get() and Set() functions take interior coordinates only and do not
// check bounds. Row offsets are taken from a precomputed table rather than
// multiplied out each time.
package grid

import (
	"fmt"

	"github.com/jetsetilly/tileflow/flow/tile"
)

// Dimensions of the map.
const (
	Width  = 40
	Height = 25
	Size   = Width * Height

	// the live region is every row except the last. the last row of the
	// screen is used for the status line
	LiveSize = Width * (Height - 1)
)

// row offsets indexed by y
var rows [Height]uint16

func init() {
	for y := range Height {
		rows[y] = uint16(y * Width)
	}
}

// Index returns the linear index for the x/y coordinates.
func Index(x, y int) uint16 {
	return rows[y] + uint16(x)
}

// Coords returns the x/y coordinates for the linear index.
func Coords(i uint16) (int, int) {
	return int(i % Width), int(i / Width)
}

// Interior returns true if the coordinates are inside the border.
func Interior(x, y int) bool {
	return x > 0 && x < Width-1 && y > 0 && y < Height-1
}

// Grid is the map of tiles.
type Grid struct {
	cells [Size]tile.Tile
}

// Load copies the blob into the grid and clears the animation phase of every
// tile. The blob must be exactly Size bytes long.
func (g *Grid) Load(blob []uint8) error {
	if len(blob) != Size {
		return fmt.Errorf("grid: map data must be %d bytes (got %d)", Size, len(blob))
	}
	for i, v := range blob {
		g.cells[i] = tile.Logical(tile.Tile(v))
	}
	return nil
}

// Get the tile at the interior coordinates.
func (g *Grid) Get(x, y int) tile.Tile {
	return g.cells[rows[y]+uint16(x)]
}

// Set the tile at the interior coordinates.
func (g *Grid) Set(x, y int, v tile.Tile) {
	g.cells[rows[y]+uint16(x)] = v
}

// At returns the tile at the linear index.
func (g *Grid) At(i uint16) tile.Tile {
	return g.cells[i]
}

// Put sets the tile at the linear index.
func (g *Grid) Put(i uint16, v tile.Tile) {
	g.cells[i] = v
}

// CopyLive copies the live region of the grid into dst, which must be at
// least LiveSize long. Returns the number of bytes copied.
func (g *Grid) CopyLive(dst []uint8) int {
	n := min(len(dst), LiveSize)
	for i := range n {
		dst[i] = uint8(g.cells[i])
	}
	return n
}

// CountResources returns the number of cells with the resource bit set.
func (g *Grid) CountResources() int {
	var n int
	for _, t := range g.cells {
		if tile.HasResource(t) {
			n++
		}
	}
	return n
}

// Snapshot returns a copy of every cell.
func (g *Grid) Snapshot() [Size]tile.Tile {
	return g.cells
}

// String returns the logical map as rows of two-digit hex values.
func (g *Grid) String() string {
	b := make([]byte, 0, Size*3)
	for y := range Height {
		for x := range Width {
			if x > 0 {
				b = append(b, ' ')
			}
			b = fmt.Appendf(b, "%02x", uint8(tile.Logical(g.cells[rows[y]+uint16(x)])))
		}
		b = append(b, '\n')
	}
	return string(b[:len(b)-1])
}
