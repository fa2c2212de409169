package spec

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/jetsetilly/tileflow/hardware/clocks"
)

// the raster lines on which the two interrupts are raised
const (
	// the status row starts on the character row after this raster line
	SplitRaster = 239

	// the last visible character row has been drawn by this raster line
	FrameRaster = 247
)

// geometry of the visible display
const (
	Columns      = 40
	Rows         = 25
	CharWidth    = 8
	CharHeight   = 8
	BorderWidth  = 32
	BorderHeight = 36

	ScreenWidth  = Columns * CharWidth
	ScreenHeight = Rows * CharHeight

	FrameWidth  = ScreenWidth + BorderWidth*2
	FrameHeight = ScreenHeight + BorderHeight*2

	// the first raster line of the character display
	ScreenTop = 51
)

// the colour values accepted by the video registers
const (
	Black = iota
	White
	Red
	Cyan
	Purple
	Green
	Blue
	Yellow
	Orange
	Brown
	LightRed
	Gray1
	Gray2
	LightGreen
	LightBlue
	Gray3
)

type Spec struct {
	ID             string
	Palette        [16]color.RGBA
	AbsoluteBottom int
	HorizScan      float64
}

// FrameRate returns the number of frames per second
func (s Spec) FrameRate() float64 {
	return s.HorizScan / float64(s.AbsoluteBottom)
}

func (s Spec) String() string {
	return fmt.Sprintf("%s %.2fHz", s.ID, s.FrameRate())
}

var NTSC Spec
var PAL Spec

// Lookup returns the Spec for the ID. The ID is not case sensitive
func Lookup(id string) (Spec, error) {
	switch strings.ToUpper(id) {
	case "PAL":
		return PAL, nil
	case "NTSC":
		return NTSC, nil
	}
	return Spec{}, fmt.Errorf("spec: unknown television specification (%s)", id)
}

// colodore palette
var palette = [16]color.RGBA{
	{R: 0x00, G: 0x00, B: 0x00, A: 255},
	{R: 0xff, G: 0xff, B: 0xff, A: 255},
	{R: 0x81, G: 0x33, B: 0x38, A: 255},
	{R: 0x75, G: 0xce, B: 0xc8, A: 255},
	{R: 0x8e, G: 0x3c, B: 0x97, A: 255},
	{R: 0x56, G: 0xac, B: 0x4d, A: 255},
	{R: 0x2e, G: 0x2c, B: 0x9b, A: 255},
	{R: 0xed, G: 0xf1, B: 0x71, A: 255},
	{R: 0x8e, G: 0x50, B: 0x29, A: 255},
	{R: 0x55, G: 0x38, B: 0x00, A: 255},
	{R: 0xc4, G: 0x6c, B: 0x71, A: 255},
	{R: 0x4a, G: 0x4a, B: 0x4a, A: 255},
	{R: 0x7b, G: 0x7b, B: 0x7b, A: 255},
	{R: 0xa9, G: 0xff, B: 0x9f, A: 255},
	{R: 0x70, G: 0x6d, B: 0xeb, A: 255},
	{R: 0xb2, G: 0xb2, B: 0xb2, A: 255},
}

func init() {
	NTSC = Spec{
		// 263 rasters per frame (~1/60th second)
		ID:             "NTSC",
		Palette:        palette,
		AbsoluteBottom: 263,
		HorizScan:      clocks.NTSC / clocks.NTSC_Raster,
	}

	PAL = Spec{
		// 312 rasters per frame (~1/50th second)
		ID:             "PAL",
		Palette:        palette,
		AbsoluteBottom: 312,
		HorizScan:      clocks.PAL / clocks.PAL_Raster,
	}
}
