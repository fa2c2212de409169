// Package spawner implements the table of spawners and the periodic creation
// of entities.
//
// A spawner is created for every spawner marker found on the map. It emits
// an entity into the cell next to the marker, in the direction given by the
// marker, once every Period+1 ticks.
package spawner

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/tileflow/flow/entity"
	"github.com/jetsetilly/tileflow/flow/grid"
	"github.com/jetsetilly/tileflow/flow/tile"
)

// Capacity is the maximum number of spawners.
const Capacity = 64

// Period is the value the countdown is reset to after it reaches zero.
const Period = 23

// the initial countdown value is taken from the low bits of the marker's
// index so that spawners do not all fire on the same tick
const seedMask = 0b11111

// Spawner is a single entry in the table. The coordinates and index are of
// the target cell, not the marker.
type Spawner struct {
	X         int8
	Y         int8
	Index     uint16
	Countdown uint8
}

func (s Spawner) String() string {
	return fmt.Sprintf("(%d,%d) @%d countdown=%d", s.X, s.Y, s.Index, s.Countdown)
}

// Table of spawners stored as parallel arrays.
type Table struct {
	Count     int
	X         [Capacity]int8
	Y         [Capacity]int8
	Index     [Capacity]uint16
	Countdown [Capacity]uint8
}

// Add appends a spawner to the table. Returns false if the table is full.
func (tbl *Table) Add(x, y int8, idx uint16, countdown uint8) bool {
	if tbl.Count >= Capacity {
		return false
	}
	tbl.X[tbl.Count] = x
	tbl.Y[tbl.Count] = y
	tbl.Index[tbl.Count] = idx
	tbl.Countdown[tbl.Count] = countdown
	tbl.Count++
	return true
}

// Get returns the spawner at position i in the table.
func (tbl *Table) Get(i int) Spawner {
	return Spawner{X: tbl.X[i], Y: tbl.Y[i], Index: tbl.Index[i], Countdown: tbl.Countdown[i]}
}

// Reset empties the table.
func (tbl *Table) Reset() {
	*tbl = Table{}
}

func (tbl *Table) String() string {
	var s strings.Builder
	fmt.Fprintf(&s, "%d spawners", tbl.Count)
	for i := range tbl.Count {
		fmt.Fprintf(&s, "\n%02d: %s", i, tbl.Get(i))
	}
	return s.String()
}

// Outcome of a single spawner tick.
type Outcome int

// List of valid Outcome values.
const (
	// the countdown has not yet reached zero
	Waiting Outcome = iota

	// a new entity was created
	Spawned

	// the entity table is full. the spawn is skipped
	SkippedFull

	// the target cell already has a resource. the spawn is skipped
	SkippedOccupied
)

func (o Outcome) String() string {
	switch o {
	case Spawned:
		return "spawned"
	case SkippedFull:
		return "skipped (full)"
	case SkippedOccupied:
		return "skipped (occupied)"
	}
	return "waiting"
}

// Result of a pass over every spawner.
type Result struct {
	Spawned         int
	SkippedFull     int
	SkippedOccupied int
}

// TickOne advances spawner i. Neither kind of skipped spawn is an error. In
// both cases the grid and the entity table are left as they were.
func (tbl *Table) TickOne(i int, g *grid.Grid, ents *entity.Table) Outcome {
	if tbl.Countdown[i] > 0 {
		tbl.Countdown[i]--
		return Waiting
	}

	tbl.Countdown[i] = Period

	if ents.Full() {
		return SkippedFull
	}

	idx := tbl.Index[i]
	t := g.At(idx)
	if tile.HasResource(t) {
		return SkippedOccupied
	}

	ents.Add(tbl.X[i], tbl.Y[i], idx)
	g.Put(idx, tile.SetResource(t))

	return Spawned
}

// Tick advances every spawner once, in table order.
func (tbl *Table) Tick(g *grid.Grid, ents *entity.Table) Result {
	var r Result
	for i := range tbl.Count {
		switch tbl.TickOne(i, g, ents) {
		case Spawned:
			r.Spawned++
		case SkippedFull:
			r.SkippedFull++
		case SkippedOccupied:
			r.SkippedOccupied++
		}
	}
	return r
}

// FindInitial adds a spawner for every marker on the grid. The grid is
// scanned in the same column order as entity.FindInitial().
//
// Markers whose target cell is not inside the border are ignored, as are
// markers found after the table is full. Returns the number of markers
// ignored.
func (tbl *Table) FindInitial(g *grid.Grid) int {
	var ignored int
	for x := range grid.Width {
		for y := range grid.Height {
			idx := grid.Index(x, y)
			tx, ty := x, y
			switch g.At(idx).SpawnDirection() {
			case tile.Left:
				tx--
			case tile.Up:
				ty--
			case tile.Right:
				tx++
			case tile.Down:
				ty++
			default:
				continue // for loop
			}

			if !grid.Interior(tx, ty) {
				ignored++
				continue // for loop
			}

			if !tbl.Add(int8(tx), int8(ty), grid.Index(tx, ty), uint8(idx&seedMask)) {
				ignored++
			}
		}
	}
	return ignored
}
