package video

// glyphs for the text character bank, indexed by the ASCII character they
// represent. the bank is built from this table on initialisation
var font = map[byte][8]uint8{
	'@': {0x3c, 0x66, 0x6e, 0x6e, 0x60, 0x62, 0x3c, 0x00},
	'A': {0x18, 0x3c, 0x66, 0x7e, 0x66, 0x66, 0x66, 0x00},
	'B': {0x7c, 0x66, 0x66, 0x7c, 0x66, 0x66, 0x7c, 0x00},
	'C': {0x3c, 0x66, 0x60, 0x60, 0x60, 0x66, 0x3c, 0x00},
	'D': {0x78, 0x6c, 0x66, 0x66, 0x66, 0x6c, 0x78, 0x00},
	'E': {0x7e, 0x60, 0x60, 0x78, 0x60, 0x60, 0x7e, 0x00},
	'F': {0x7e, 0x60, 0x60, 0x78, 0x60, 0x60, 0x60, 0x00},
	'G': {0x3c, 0x66, 0x60, 0x6e, 0x66, 0x66, 0x3c, 0x00},
	'H': {0x66, 0x66, 0x66, 0x7e, 0x66, 0x66, 0x66, 0x00},
	'I': {0x3c, 0x18, 0x18, 0x18, 0x18, 0x18, 0x3c, 0x00},
	'J': {0x1e, 0x0c, 0x0c, 0x0c, 0x0c, 0x6c, 0x38, 0x00},
	'K': {0x66, 0x6c, 0x78, 0x70, 0x78, 0x6c, 0x66, 0x00},
	'L': {0x60, 0x60, 0x60, 0x60, 0x60, 0x60, 0x7e, 0x00},
	'M': {0x63, 0x77, 0x7f, 0x6b, 0x63, 0x63, 0x63, 0x00},
	'N': {0x66, 0x76, 0x7e, 0x7e, 0x6e, 0x66, 0x66, 0x00},
	'O': {0x3c, 0x66, 0x66, 0x66, 0x66, 0x66, 0x3c, 0x00},
	'P': {0x7c, 0x66, 0x66, 0x7c, 0x60, 0x60, 0x60, 0x00},
	'Q': {0x3c, 0x66, 0x66, 0x66, 0x66, 0x3c, 0x0e, 0x00},
	'R': {0x7c, 0x66, 0x66, 0x7c, 0x78, 0x6c, 0x66, 0x00},
	'S': {0x3c, 0x66, 0x60, 0x3c, 0x06, 0x66, 0x3c, 0x00},
	'T': {0x7e, 0x18, 0x18, 0x18, 0x18, 0x18, 0x18, 0x00},
	'U': {0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x3c, 0x00},
	'V': {0x66, 0x66, 0x66, 0x66, 0x66, 0x3c, 0x18, 0x00},
	'W': {0x63, 0x63, 0x63, 0x6b, 0x7f, 0x77, 0x63, 0x00},
	'X': {0x66, 0x66, 0x3c, 0x18, 0x3c, 0x66, 0x66, 0x00},
	'Y': {0x66, 0x66, 0x66, 0x3c, 0x18, 0x18, 0x18, 0x00},
	'Z': {0x7e, 0x06, 0x0c, 0x18, 0x30, 0x60, 0x7e, 0x00},
	' ': {0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	'-': {0x00, 0x00, 0x00, 0x7e, 0x00, 0x00, 0x00, 0x00},
	'.': {0x00, 0x00, 0x00, 0x00, 0x00, 0x18, 0x18, 0x00},
	'/': {0x00, 0x03, 0x06, 0x0c, 0x18, 0x30, 0x60, 0x00},
	'0': {0x3c, 0x66, 0x6e, 0x76, 0x66, 0x66, 0x3c, 0x00},
	'1': {0x18, 0x18, 0x38, 0x18, 0x18, 0x18, 0x7e, 0x00},
	'2': {0x3c, 0x66, 0x06, 0x0c, 0x30, 0x60, 0x7e, 0x00},
	'3': {0x3c, 0x66, 0x06, 0x1c, 0x06, 0x66, 0x3c, 0x00},
	'4': {0x06, 0x0e, 0x1e, 0x66, 0x7f, 0x06, 0x06, 0x00},
	'5': {0x7e, 0x60, 0x7c, 0x06, 0x06, 0x66, 0x3c, 0x00},
	'6': {0x3c, 0x66, 0x60, 0x7c, 0x66, 0x66, 0x3c, 0x00},
	'7': {0x7e, 0x66, 0x0c, 0x18, 0x18, 0x18, 0x18, 0x00},
	'8': {0x3c, 0x66, 0x66, 0x3c, 0x66, 0x66, 0x3c, 0x00},
	'9': {0x3c, 0x66, 0x66, 0x3e, 0x06, 0x66, 0x3c, 0x00},
	':': {0x00, 0x00, 0x18, 0x00, 0x00, 0x18, 0x00, 0x00},
	'=': {0x00, 0x00, 0x7e, 0x00, 0x7e, 0x00, 0x00, 0x00},
	'?': {0x3c, 0x66, 0x06, 0x0c, 0x18, 0x00, 0x18, 0x00},
}

// the number of characters in the text bank
const textChars = 64

var text [textChars * CharBytes]uint8

func init() {
	for c, g := range font {
		copy(text[int(ScreenCode(c))*CharBytes:], g[:])
	}
}

// ScreenCode converts an ASCII character to the screen code used by the text
// character bank. Lower case letters are converted to upper case. Characters
// that are not in the text bank are converted to a question mark.
func ScreenCode(c byte) uint8 {
	switch {
	case c >= 'a' && c <= 'z':
		return c - 'a' + 1
	case c >= '@' && c <= 'Z':
		return c - '@'
	}
	if _, ok := font[c]; ok && c >= ' ' && c <= '?' {
		return c
	}
	return '?'
}
