// Package tile is the codec for the packed byte stored in every cell of the
// map.
//
// A tile carries three independent pieces of information:
//
//	bit  7-6   cosmetic animation phase
//	bit  5     marker bit (spawners and other non-directional glyphs)
//	bit  4     resource present
//	bit  3-0   glyph
//
// The bottom six bits are the logical tile. The animation phase is only ever
// used by the video output and is masked off before the tile is inspected by
// the simulation.
//
// The logical tile with the resource bit removed is the glyph code. Glyph
// codes 1 to 12 are directional and are grouped by value modulo four. The
// three codes in each group differ only in their graphics:
//
//	1, 5, 9    Left
//	2, 6, 10   Up
//	3, 7, 11   Right
//	4, 8, 12   Down
//
// All other glyph codes are non-directional. In particular, the four spawner
// markers (33 to 36) have the marker bit set and so can never be mistaken for
// a direction.
package tile

import "fmt"

// Tile is a single packed map cell.
type Tile uint8

const (
	// LogicalMask removes the animation phase.
	LogicalMask Tile = 0x3f

	// Resource is set when a resource token occupies the cell.
	Resource Tile = 0x10

	// GlyphMask removes the animation phase and the resource bit.
	GlyphMask Tile = 0x2f

	// Marker is set on non-directional glyphs that have a special meaning.
	Marker Tile = 0x20

	phaseShift = 6
)

// Glyph codes with meaning outside of the map graphics.
const (
	Empty Tile = 0

	// Wall is the conventional non-directional glyph for border cells. Any
	// non-directional glyph acts in the same way.
	Wall Tile = 13

	LeftSpawner  Tile = 33
	TopSpawner   Tile = 34
	RightSpawner Tile = 35
	DownSpawner  Tile = 36
)

// Direction of travel encoded by a tile.
type Direction int

// List of valid Direction values.
const (
	None Direction = iota
	Left
	Up
	Right
	Down
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	}
	return "none"
}

// HasResource returns true if the resource bit is set.
func HasResource(t Tile) bool {
	return t&Resource == Resource
}

// SetResource returns the tile with the resource bit set.
func SetResource(t Tile) Tile {
	return t | Resource
}

// ClearResource returns the tile with the resource bit cleared.
func ClearResource(t Tile) Tile {
	return t &^ Resource
}

// Logical returns the tile without the animation phase.
func Logical(t Tile) Tile {
	return t & LogicalMask
}

// Glyph returns the glyph code of the tile. The glyph code excludes the
// animation phase and the resource bit.
func Glyph(t Tile) Tile {
	return t & GlyphMask
}

// Phase returns the cosmetic animation phase (0 to 3).
func Phase(t Tile) int {
	return int(t >> phaseShift)
}

// WithPhase returns the tile with the animation phase replaced.
func WithPhase(t Tile, phase int) Tile {
	return Logical(t) | Tile(phase&0x03)<<phaseShift
}

// Encode builds a tile from its parts. Bits of glyph outside of GlyphMask are
// ignored.
func Encode(glyph Tile, resource bool, phase int) Tile {
	t := WithPhase(Glyph(glyph), phase)
	if resource {
		t = SetResource(t)
	}
	return t
}

// Direction returns the direction of travel for the tile. The resource bit
// and the animation phase do not affect the result.
func (t Tile) Direction() Direction {
	g := Glyph(t)
	if g == 0 || g > 12 {
		return None
	}
	switch g % 4 {
	case 1:
		return Left
	case 2:
		return Up
	case 3:
		return Right
	}
	return Down
}

// DirectionOf is the function form of Tile.Direction().
func DirectionOf(t Tile) Direction {
	return t.Direction()
}

// IsSpawner returns true if the tile is one of the four spawner markers.
func (t Tile) IsSpawner() bool {
	g := Glyph(t)
	return g >= LeftSpawner && g <= DownSpawner
}

// SpawnDirection returns the direction in which a spawner marker emits. The
// result is None if the tile is not a spawner marker.
func (t Tile) SpawnDirection() Direction {
	switch Glyph(t) {
	case LeftSpawner:
		return Left
	case TopSpawner:
		return Up
	case RightSpawner:
		return Right
	case DownSpawner:
		return Down
	}
	return None
}

// DirectionalGlyph returns the first glyph code for the direction. Variant
// selects one of the three graphical variants (0 to 2).
func DirectionalGlyph(d Direction, variant int) Tile {
	if d == None {
		return Empty
	}
	return Tile(int(d) + (variant%3)*4)
}

func (t Tile) String() string {
	var r string
	if HasResource(t) {
		r = " +res"
	}
	return fmt.Sprintf("%02d/%s%s", Glyph(t), t.Direction(), r)
}
