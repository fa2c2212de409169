package assets

import (
	"math/bits"

	"github.com/jetsetilly/tileflow/flow/grid"
	"github.com/jetsetilly/tileflow/flow/tile"
	"github.com/jetsetilly/tileflow/hardware/video"
)

// DemoMap returns a map with a circuit fed by two spawners and a conveyor
// that ends in a sink.
func DemoMap() []uint8 {
	var g [grid.Size]tile.Tile

	put := func(x, y int, t tile.Tile) {
		g[grid.Index(x, y)] = t
	}
	arrow := func(x, y int, d tile.Direction) {
		put(x, y, tile.DirectionalGlyph(d, x+y))
	}

	// border
	for x := range grid.Width {
		put(x, 0, tile.Wall)
		put(x, grid.Height-1, tile.Wall)
	}
	for y := range grid.Height {
		put(0, y, tile.Wall)
		put(grid.Width-1, y, tile.Wall)
	}

	// circuit. right along row 5, down column 31, left along row 15 and up
	// column 10 back into row 5
	for x := 1; x < 31; x++ {
		arrow(x, 5, tile.Right)
	}
	for y := 5; y < 15; y++ {
		arrow(31, y, tile.Down)
	}
	for x := 11; x <= 31; x++ {
		arrow(x, 15, tile.Left)
	}
	for y := 6; y <= 15; y++ {
		arrow(10, y, tile.Up)
	}

	// feed into the circuit from the top border
	for y := 1; y < 5; y++ {
		arrow(5, y, tile.Down)
	}

	// conveyor from the right border that ends on the empty floor at x=24
	for x := 25; x < grid.Width-1; x++ {
		arrow(x, 20, tile.Left)
	}

	// spawners
	put(0, 5, tile.RightSpawner)
	put(5, 0, tile.DownSpawner)
	put(grid.Width-1, 20, tile.LeftSpawner)

	// a few resources already on the circuit
	for _, x := range []int{12, 14, 16, 18} {
		put(x, 5, tile.SetResource(g[grid.Index(x, 5)]))
	}

	data := make([]uint8, grid.Size)
	for i, t := range g {
		data[i] = uint8(t)
	}
	return data
}

// the demo arrow. points to the right
var chevron = [video.CharBytes]uint8{0x00, 0x30, 0x18, 0x0c, 0x18, 0x30, 0x00, 0x00}

func transpose(g [video.CharBytes]uint8) [video.CharBytes]uint8 {
	var t [video.CharBytes]uint8
	for y := range video.CharBytes {
		for x := range 8 {
			if g[y]&(0x80>>x) != 0 {
				t[x] |= 0x80 >> y
			}
		}
	}
	return t
}

func mirror(g [video.CharBytes]uint8) [video.CharBytes]uint8 {
	for i := range g {
		g[i] = bits.Reverse8(g[i])
	}
	return g
}

// demoGlyph returns the glyph for the tile in the animation phase. Arrows
// move two pixels in their direction for every phase.
func demoGlyph(t tile.Tile, phase int) [video.CharBytes]uint8 {
	var g [video.CharBytes]uint8

	n := phase * 2

	switch {
	case t.IsSpawner():
		for i := range g {
			g[i] = 0xaa >> (i & 0x01)
		}
		return g
	case tile.Glyph(t) == tile.Wall:
		for i := range g {
			g[i] = 0x55
		}
	default:
		switch t.Direction() {
		case tile.Right:
			for i, b := range chevron {
				g[i] = bits.RotateLeft8(b, -n)
			}
		case tile.Left:
			for i, b := range mirror(chevron) {
				g[i] = bits.RotateLeft8(b, n)
			}
		case tile.Down:
			tr := transpose(chevron)
			for i := range g {
				g[(i+n)%len(g)] = tr[i]
			}
		case tile.Up:
			tr := transpose(mirror(chevron))
			for i := range g {
				g[i] = tr[(i+n)%len(g)]
			}
		}
	}

	if tile.HasResource(t) {
		g[3] |= 0x3c
		g[4] |= 0x3c
	}

	return g
}

// DemoTileset returns a tileset with glyphs for every direction, the wall
// and the spawner markers.
func DemoTileset() []uint8 {
	data := make([]uint8, video.TilesetSize)
	for bank := range video.AnimationBanks {
		for code := range video.BankChars {
			g := demoGlyph(tile.Tile(code), bank)
			copy(data[(bank*video.BankChars+code)*video.CharBytes:], g[:])
		}
	}
	return data
}
