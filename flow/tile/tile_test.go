package tile_test

import (
	"testing"

	"github.com/jetsetilly/tileflow/flow/tile"
	"github.com/jetsetilly/tileflow/test"
)

func TestResourceBit(t *testing.T) {
	for i := range 256 {
		v := tile.Tile(i)
		test.ExpectSuccess(t, tile.HasResource(tile.SetResource(v)))
		test.ExpectFailure(t, tile.HasResource(tile.ClearResource(v)))
		test.ExpectEquality(t, tile.ClearResource(tile.SetResource(v)), v&^tile.Resource)
		test.ExpectEquality(t, tile.ClearResource(tile.ClearResource(v)), tile.ClearResource(v))
		test.ExpectEquality(t, tile.SetResource(tile.SetResource(v)), tile.SetResource(v))
	}
}

func TestDirectionGrouping(t *testing.T) {
	expected := map[tile.Tile]tile.Direction{
		0: tile.None,
		1: tile.Left, 5: tile.Left, 9: tile.Left,
		2: tile.Up, 6: tile.Up, 10: tile.Up,
		3: tile.Right, 7: tile.Right, 11: tile.Right,
		4: tile.Down, 8: tile.Down, 12: tile.Down,
		13: tile.None, 14: tile.None, 15: tile.None,
	}
	for g, d := range expected {
		test.ExpectEquality(t, g.Direction(), d)

		// the resource bit and the animation phase make no difference
		test.ExpectEquality(t, tile.SetResource(g).Direction(), d)
		for p := range 4 {
			test.ExpectEquality(t, tile.WithPhase(g, p).Direction(), d)
		}
	}
}

func TestSpawnerMarkersAreNotDirections(t *testing.T) {
	markers := []tile.Tile{tile.LeftSpawner, tile.TopSpawner, tile.RightSpawner, tile.DownSpawner}
	spawn := []tile.Direction{tile.Left, tile.Up, tile.Right, tile.Down}
	for i, m := range markers {
		test.ExpectEquality(t, m.Direction(), tile.None)
		test.ExpectEquality(t, tile.DirectionOf(m), tile.None)
		test.ExpectSuccess(t, m.IsSpawner())
		test.ExpectEquality(t, m.SpawnDirection(), spawn[i])
		test.ExpectEquality(t, tile.WithPhase(m, 3).SpawnDirection(), spawn[i])
	}

	for g := range tile.Tile(13) {
		test.ExpectFailure(t, g.IsSpawner())
		test.ExpectEquality(t, g.SpawnDirection(), tile.None)
	}
}

func TestRoundTrip(t *testing.T) {
	// every logical value is a glyph code and a resource flag
	for i := range 64 {
		v := tile.Tile(i)
		glyph := tile.Glyph(v)
		res := tile.HasResource(v)

		e := tile.Encode(glyph, res, 0)
		test.ExpectEquality(t, e, v)
		test.ExpectEquality(t, tile.Glyph(e), glyph)
		test.ExpectEquality(t, tile.HasResource(e), res)
		test.ExpectEquality(t, e.Direction(), v.Direction())

		for p := range 4 {
			e = tile.Encode(glyph, res, p)
			test.ExpectEquality(t, tile.Phase(e), p)
			test.ExpectEquality(t, tile.Logical(e), v)
		}
	}
}

func TestDirectionalGlyph(t *testing.T) {
	for _, d := range []tile.Direction{tile.Left, tile.Up, tile.Right, tile.Down} {
		for v := range 3 {
			g := tile.DirectionalGlyph(d, v)
			test.ExpectEquality(t, g.Direction(), d)
		}
	}
	test.ExpectEquality(t, tile.DirectionalGlyph(tile.None, 0), tile.Empty)
}
