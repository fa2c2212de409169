// Package entity implements the table of resource tokens and the movement
// pass over them.
//
// The table is append-only. Entities are never removed, an entity that
// reaches a non-directional cell stays there for good.
//
// The order of entities in the table is significant. When two entities want
// to move into the same cell, the entity earlier in the table wins.
package entity

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/tileflow/flow/grid"
	"github.com/jetsetilly/tileflow/flow/tile"
)

// Capacity is the maximum number of entities.
const Capacity = 64

// Entity is a single resource token. It owns exactly one cell of the grid and
// that cell has the resource bit set.
type Entity struct {
	X     int8
	Y     int8
	Index uint16
}

func (e Entity) String() string {
	return fmt.Sprintf("(%d,%d) @%d", e.X, e.Y, e.Index)
}

// Table of entities stored as parallel arrays.
type Table struct {
	Count int
	X     [Capacity]int8
	Y     [Capacity]int8
	Index [Capacity]uint16
}

// Full returns true if no more entities can be added.
func (tbl *Table) Full() bool {
	return tbl.Count >= Capacity
}

// Add appends an entity to the table. Returns false if the table is full, in
// which case nothing is changed.
//
// The caller is responsible for setting the resource bit at the entity's
// cell.
func (tbl *Table) Add(x, y int8, idx uint16) bool {
	if tbl.Full() {
		return false
	}
	tbl.X[tbl.Count] = x
	tbl.Y[tbl.Count] = y
	tbl.Index[tbl.Count] = idx
	tbl.Count++
	return true
}

// Get returns the entity at position i in the table.
func (tbl *Table) Get(i int) Entity {
	return Entity{X: tbl.X[i], Y: tbl.Y[i], Index: tbl.Index[i]}
}

// Reset empties the table.
func (tbl *Table) Reset() {
	*tbl = Table{}
}

func (tbl *Table) String() string {
	var s strings.Builder
	fmt.Fprintf(&s, "%d entities", tbl.Count)
	for i := range tbl.Count {
		fmt.Fprintf(&s, "\n%02d: %s", i, tbl.Get(i))
	}
	return s.String()
}

// Result of a single movement pass.
type Result struct {
	Moved   int
	Blocked int
	Resting int
}

// neighbour returns the index of the adjacent cell in the direction and the
// change in x/y coordinates. Only called for a direction other than None.
func neighbour(idx uint16, d tile.Direction) (uint16, int8, int8) {
	switch d {
	case tile.Left:
		return idx - 1, -1, 0
	case tile.Right:
		return idx + 1, 1, 0
	case tile.Up:
		return idx - grid.Width, 0, -1
	}
	return idx + grid.Width, 0, 1
}

// Step moves every entity once, in table order.
//
// The entity's own cell has its resource bit cleared while the move is
// considered. If the destination cell already has a resource the move is
// blocked and the bit is restored. Entities on non-directional cells stay
// where they are.
func (tbl *Table) Step(g *grid.Grid) Result {
	var r Result

	for i := range tbl.Count {
		idx := tbl.Index[i]
		t := tile.ClearResource(g.At(idx))
		g.Put(idx, t)

		d := t.Direction()
		if d == tile.None {
			g.Put(idx, tile.SetResource(t))
			r.Resting++
			continue // for loop
		}

		cand, dx, dy := neighbour(idx, d)
		ct := g.At(cand)
		if tile.HasResource(ct) {
			g.Put(idx, tile.SetResource(t))
			r.Blocked++
			continue // for loop
		}

		tbl.X[i] += dx
		tbl.Y[i] += dy
		tbl.Index[i] = cand
		g.Put(cand, tile.SetResource(ct))
		r.Moved++
	}

	return r
}

// FindInitial adds an entity for every cell with the resource bit set. The
// grid is scanned column by column, x in the outer loop and y in the inner
// loop, which decides the initial table order.
//
// If there are more marked cells than the table can hold then the resource
// bit of the surplus cells is cleared. Returns the number of cells cleared in
// this way.
func (tbl *Table) FindInitial(g *grid.Grid) int {
	var dropped int
	for x := range grid.Width {
		for y := range grid.Height {
			idx := grid.Index(x, y)
			t := g.At(idx)
			if !tile.HasResource(t) {
				continue // for loop
			}
			if !tbl.Add(int8(x), int8(y), idx) {
				g.Put(idx, tile.ClearResource(t))
				dropped++
			}
		}
	}
	return dropped
}
