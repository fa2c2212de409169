package clocks

const Mhz = 1000000

// system clocks
const (
	NTSC = 1.022727 * Mhz
	PAL  = 0.985248 * Mhz
)

// clock cycles in a single raster line
const (
	NTSC_Raster = 65
	PAL_Raster  = 63
)
