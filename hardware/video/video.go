// Package video is the character display. It has two screen buffers, colour
// RAM, four animation character banks loaded from the tileset and a built-in
// text character bank.
//
// Which screen buffer and which character bank is displayed is decided by
// the bank register. The register is latched twice per frame: once for the
// character rows above the split raster and once for the status row.
package video

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync/atomic"

	"github.com/jetsetilly/tileflow/hardware/spec"
	"github.com/jetsetilly/tileflow/ui"
)

// Context allows Video to query the television specification
type Context interface {
	Spec() spec.Spec
}

const (
	ScreenSize = spec.Columns * spec.Rows
	StatusRow  = spec.Rows - 1
	CharBytes  = spec.CharHeight

	// number of animation banks and the number of characters in each bank
	AnimationBanks = 4
	BankChars      = 64

	// the charset value that selects the text bank
	TextCharset = AnimationBanks

	// the size of the tileset data expected by LoadTileset()
	TilesetSize = AnimationBanks * BankChars * CharBytes
)

// colour RAM values with this bit set are drawn in multicolour mode when
// multicolour mode is enabled
const multicolourBit = 0x08

// ErrTileset is returned by LoadTileset() when the data is the wrong size
var ErrTileset = errors.New("tileset")

// Bank returns the bank register value that selects the screen buffer and
// character bank
func Bank(screen int, charset int) uint8 {
	return uint8(screen&0x01)<<4 | uint8(charset&0x07)
}

// BankScreen returns the screen buffer selected by the bank register value
func BankScreen(v uint8) int {
	return int(v>>4) & 0x01
}

// BankCharset returns the character bank selected by the bank register value
func BankCharset(v uint8) int {
	return int(v & 0x07)
}

type Video struct {
	ctx Context
	ui  *ui.UI

	// the current television specificaion (PAL, NTSC)
	Spec spec.Spec

	screens  [2][ScreenSize]uint8
	colour   [ScreenSize]uint8
	charsets [AnimationBanks][BankChars * CharBytes]uint8

	// bank register and the values latched for the two regions of the screen
	bank  atomic.Uint32
	top   atomic.Uint32
	split atomic.Uint32

	border atomic.Uint32

	multicolour bool
	background  [3]uint8

	// number of frames rendered
	frames int
}

func Create(ctx Context, u *ui.UI) *Video {
	vid := &Video{
		ctx:  ctx,
		ui:   u,
		Spec: ctx.Spec(),
	}
	vid.Reset()
	return vid
}

// Reset clears the screens, colour RAM and registers. Character banks are
// not changed.
func (vid *Video) Reset() {
	vid.Spec = vid.ctx.Spec()
	vid.ClearScreens(0)
	clear(vid.colour[:])
	vid.bank.Store(0)
	vid.top.Store(0)
	vid.split.Store(0)
	vid.border.Store(spec.Black)
	vid.multicolour = false
	vid.background = [3]uint8{}
	vid.frames = 0
}

// LoadTileset copies the tileset into the animation character banks
func (vid *Video) LoadTileset(data []uint8) error {
	if len(data) != TilesetSize {
		return fmt.Errorf("%w: data is %d bytes and should be %d bytes", ErrTileset, len(data), TilesetSize)
	}
	for b := range vid.charsets {
		copy(vid.charsets[b][:], data[b*len(vid.charsets[b]):])
	}
	return nil
}

// Screen returns the screen buffer. The screen index is taken modulo two.
func (vid *Video) Screen(n int) []uint8 {
	return vid.screens[n&0x01][:]
}

// ClearScreens fills both screen buffers with the value
func (vid *Video) ClearScreens(v uint8) {
	for s := range vid.screens {
		for i := range vid.screens[s] {
			vid.screens[s][i] = v
		}
	}
}

// FillColour sets the colour RAM for the cells from index start up to but
// not including index end
func (vid *Video) FillColour(start int, end int, c uint8) {
	end = min(end, ScreenSize)
	for i := max(start, 0); i < end; i++ {
		vid.colour[i] = c & 0x0f
	}
}

// Colour returns the colour RAM value for the cell
func (vid *Video) Colour(idx int) uint8 {
	return vid.colour[idx]
}

// SetMulticolour enables multicolour mode with the three background colours
func (vid *Video) SetMulticolour(on bool, bg0 uint8, bg1 uint8, bg2 uint8) {
	vid.multicolour = on
	vid.background = [3]uint8{bg0 & 0x0f, bg1 & 0x0f, bg2 & 0x0f}
}

// WriteBank sets the bank register
func (vid *Video) WriteBank(v uint8) {
	vid.bank.Store(uint32(v))
}

// ReadBank returns the bank register
func (vid *Video) ReadBank() uint8 {
	return uint8(vid.bank.Load())
}

// Latch copies the bank register for use by a region of the display. If
// split is true the value is used for the status row. Otherwise the value is
// used for the rows above the status row.
func (vid *Video) Latch(split bool) {
	if split {
		vid.split.Store(vid.bank.Load())
	} else {
		vid.top.Store(vid.bank.Load())
	}
}

// LatchStatus sets the status row latch directly. The latch must be moved
// with the active screen whenever the active screen changes outside of the
// split interrupt
func (vid *Video) LatchStatus(v uint8) {
	vid.split.Store(uint32(v))
}

// StatusVisible returns the index of the screen buffer being displayed in
// the status row
func (vid *Video) StatusVisible() int {
	return BankScreen(uint8(vid.split.Load()))
}

// SetBorder sets the border colour register
func (vid *Video) SetBorder(c uint8) {
	vid.border.Store(uint32(c & 0x0f))
}

// Border returns the border colour register
func (vid *Video) Border() uint8 {
	return uint8(vid.border.Load())
}

// Visible returns the index of the screen buffer being displayed above the
// status row
func (vid *Video) Visible() int {
	return BankScreen(uint8(vid.top.Load()))
}

func (vid *Video) glyph(charset int, code uint8) []uint8 {
	if charset >= TextCharset {
		c := int(code%textChars) * CharBytes
		return text[c : c+CharBytes]
	}
	c := int(code%BankChars) * CharBytes
	return vid.charsets[charset][c : c+CharBytes]
}

// Snapshot renders the display and returns it as a ui.Frame
func (vid *Video) Snapshot() ui.Frame {
	var f ui.Frame

	vid.frames++
	f.ID = fmt.Sprintf("%d", vid.frames)

	pal := vid.Spec.Palette
	f.Border = vid.Border()
	f.Background = vid.background[0]

	f.Main = image.NewRGBA(image.Rect(0, 0, spec.FrameWidth, spec.FrameHeight))
	border := pal[f.Border]
	for y := range spec.FrameHeight {
		for x := range spec.FrameWidth {
			f.Main.SetRGBA(x, y, border)
		}
	}

	top := uint8(vid.top.Load())
	split := uint8(vid.split.Load())

	for row := range spec.Rows {
		latch := top
		if row == StatusRow {
			latch = split
		}
		scr := &vid.screens[BankScreen(latch)]
		charset := BankCharset(latch)

		for col := range spec.Columns {
			idx := row*spec.Columns + col
			code := scr[idx]
			c := vid.colour[idx]

			f.Screen[idx] = code
			f.Colour[idx] = c
			if charset >= TextCharset {
				f.Bank[idx] = ui.TextBank
			} else {
				f.Bank[idx] = uint8(charset)
			}

			vid.drawChar(f.Main, col, row, vid.glyph(charset, code), c)
		}
	}

	return f
}

func (vid *Video) drawChar(img *image.RGBA, col int, row int, glyph []uint8, c uint8) {
	pal := vid.Spec.Palette
	ox := spec.BorderWidth + col*spec.CharWidth
	oy := spec.BorderHeight + row*spec.CharHeight

	if vid.multicolour && c&multicolourBit == multicolourBit {
		cols := [4]color.RGBA{
			pal[vid.background[0]],
			pal[vid.background[1]],
			pal[vid.background[2]],
			pal[c&0x07],
		}
		for y, b := range glyph {
			for x := 0; x < spec.CharWidth; x += 2 {
				p := cols[(b>>(6-x))&0x03]
				img.SetRGBA(ox+x, oy+y, p)
				img.SetRGBA(ox+x+1, oy+y, p)
			}
		}
		return
	}

	fg := pal[c]
	bg := pal[vid.background[0]]
	for y, b := range glyph {
		for x := range spec.CharWidth {
			if b&(0x80>>x) != 0 {
				img.SetRGBA(ox+x, oy+y, fg)
			} else {
				img.SetRGBA(ox+x, oy+y, bg)
			}
		}
	}
}

// PushRender sends the current display to the user interface. If the user
// interface is not ready the frame is dropped.
func (vid *Video) PushRender() {
	if vid.ui == nil {
		return
	}

	select {
	case vid.ui.SetImage <- vid.Snapshot():
	default:
	}
}

func (vid *Video) String() string {
	var s strings.Builder
	bank := vid.ReadBank()
	top := uint8(vid.top.Load())
	split := uint8(vid.split.Load())
	s.WriteString(fmt.Sprintf("VIDEO: bank=%#02x (screen=%d charset=%d) border=%d\n",
		bank, BankScreen(bank), BankCharset(bank), vid.Border()))
	s.WriteString(fmt.Sprintf("top: screen=%d charset=%d\n", BankScreen(top), BankCharset(top)))
	s.WriteString(fmt.Sprintf("split: screen=%d charset=%d\n", BankScreen(split), BankCharset(split)))
	s.WriteString(fmt.Sprintf("multicolour=%v background=%v frames=%d", vid.multicolour, vid.background, vid.frames))
	return s.String()
}
