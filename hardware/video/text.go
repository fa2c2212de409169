package video

import (
	"io"
)

// TextWriter writes ASCII text to a region of screen memory as screen codes
// for the text character bank. Text that does not fit is clipped.
type TextWriter struct {
	buf []uint8
	n   int
}

// Reset the writer so that it writes from the start of the buffer
func (w *TextWriter) Reset(buf []uint8) {
	w.buf = buf
	w.n = 0
}

// Write implements the io.Writer interface. Returns io.ErrShortWrite if the
// text was clipped.
func (w *TextWriter) Write(p []byte) (int, error) {
	var n int
	for _, c := range p {
		if w.n >= len(w.buf) {
			return n, io.ErrShortWrite
		}
		w.buf[w.n] = ScreenCode(c)
		w.n++
		n++
	}
	return n, nil
}

// Pad fills the remainder of the buffer with spaces
func (w *TextWriter) Pad() {
	for ; w.n < len(w.buf); w.n++ {
		w.buf[w.n] = ScreenCode(' ')
	}
}

// Len returns the number of characters written since the last Reset()
func (w *TextWriter) Len() int {
	return w.n
}
