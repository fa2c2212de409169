package grid_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/tileflow/flow/grid"
	"github.com/jetsetilly/tileflow/flow/tile"
	"github.com/jetsetilly/tileflow/test"
)

func TestIndex(t *testing.T) {
	test.ExpectEquality(t, grid.Index(0, 0), 0)
	test.ExpectEquality(t, grid.Index(1, 1), 41)
	test.ExpectEquality(t, grid.Index(39, 24), 999)

	for i := range uint16(grid.Size) {
		x, y := grid.Coords(i)
		test.DemandEquality(t, grid.Index(x, y), i)
	}

	test.ExpectSuccess(t, grid.Interior(1, 1))
	test.ExpectSuccess(t, grid.Interior(38, 23))
	test.ExpectFailure(t, grid.Interior(0, 5))
	test.ExpectFailure(t, grid.Interior(39, 5))
	test.ExpectFailure(t, grid.Interior(5, 0))
	test.ExpectFailure(t, grid.Interior(5, 24))
}

func TestLoad(t *testing.T) {
	var g grid.Grid

	err := g.Load(make([]uint8, 10))
	test.ExpectFailure(t, err)

	blob := make([]uint8, grid.Size)
	blob[grid.Index(3, 4)] = 0xd3 // animation phase 3, resource, right
	err = g.Load(blob)
	test.DemandSuccess(t, err)

	// animation phase is removed on load
	test.ExpectEquality(t, g.Get(3, 4), tile.Tile(0x13))
	test.ExpectEquality(t, g.CountResources(), 1)
}

func TestGetSet(t *testing.T) {
	var g grid.Grid
	g.Set(10, 12, tile.SetResource(tile.DirectionalGlyph(tile.Up, 0)))
	test.ExpectEquality(t, g.At(grid.Index(10, 12)), g.Get(10, 12))
	test.ExpectEquality(t, g.Get(10, 12).Direction(), tile.Up)

	g.Put(grid.Index(11, 12), tile.Wall)
	test.ExpectEquality(t, g.Get(11, 12), tile.Wall)
}

func TestCopyLive(t *testing.T) {
	var g grid.Grid
	blob := make([]uint8, grid.Size)
	for i := range blob {
		blob[i] = uint8(i % 0x3f)
	}
	test.DemandSuccess(t, g.Load(blob))

	dst := make([]uint8, 1000)
	for i := range dst {
		dst[i] = 0xff
	}

	n := g.CopyLive(dst)
	test.ExpectEquality(t, n, grid.LiveSize)
	for i := range grid.LiveSize {
		test.DemandEquality(t, dst[i], blob[i])
	}

	// the status row is untouched
	for i := grid.LiveSize; i < len(dst); i++ {
		test.DemandEquality(t, dst[i], 0xff)
	}

	// short destinations are filled without overrun
	short := make([]uint8, 5)
	test.ExpectEquality(t, g.CopyLive(short), 5)
}

func TestString(t *testing.T) {
	var g grid.Grid
	s := g.String()
	test.ExpectEquality(t, len(strings.Split(s, "\n")), grid.Height)
}
