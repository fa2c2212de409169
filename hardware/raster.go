package hardware

import (
	"errors"

	"github.com/jetsetilly/tileflow/hardware/spec"
	"github.com/jetsetilly/tileflow/hardware/video"
	"github.com/jetsetilly/tileflow/logger"
)

// Handler is called by the raster for every raster interrupt
type Handler interface {
	// Interrupt returns true if the interrupt was the last interrupt of the
	// frame. If an error is returned the raster halts.
	Interrupt() (bool, error)
}

// ErrNoHandler is returned when the raster is run without a Handler
var ErrNoHandler = errors.New("no interrupt handler")

// the number of frames between changes of border colour when halted
const haltFlashFrames = 8

// the border colours used to indicate a halt
var haltFlash = [2]uint8{spec.Brown, spec.Black}

// Raster is the source of the raster interrupts. Interrupts are serviced in
// real time by Run() or one frame at a time by Frame().
type Raster struct {
	video   *video.Video
	limit   *limiter
	handler Handler

	// number of frames completed
	Frames int

	// the error that caused the raster to halt
	halt error
}

// Service a single interrupt. The bank register is latched for the region
// of the display that begins after the interrupt.
func (r *Raster) Service() (bool, error) {
	if r.halt != nil {
		return true, r.halt
	}
	if r.handler == nil {
		return true, ErrNoHandler
	}

	end, err := r.handler.Interrupt()
	if err != nil {
		r.halt = err
		logger.Log(logger.Allow, "raster", err)
		return true, err
	}

	r.video.Latch(!end)
	if end {
		r.Frames++
	}

	return end, nil
}

// Frame services interrupts until the end of the frame and then sends the
// display to the user interface
func (r *Raster) Frame() error {
	for {
		end, err := r.Service()
		if err != nil {
			return err
		}
		if end {
			r.video.PushRender()
			return nil
		}
	}
}

// Halted returns the error that halted the raster. Returns nil if the raster
// is not halted.
func (r *Raster) Halted() error {
	return r.halt
}

// Run services interrupts in real time until a value is received on the stop
// channel. If the raster halts, the border flashes until a value is received
// on the stop channel and the halting error is returned.
func (r *Raster) Run(stop chan bool) error {
	for {
		select {
		case <-stop:
			return r.halt
		default:
		}

		if r.halt == nil {
			// a halt is dealt with on the next iteration
			_ = r.Frame()
		} else {
			r.flash()
		}

		r.limit.Wait()
	}
}

func (r *Raster) flash() {
	r.Frames++
	if r.Frames%haltFlashFrames == 0 {
		r.video.SetBorder(haltFlash[(r.Frames/haltFlashFrames)%len(haltFlash)])
	}
	r.video.PushRender()
}

// Reset clears the halt condition and the frame count
func (r *Raster) Reset() {
	r.halt = nil
	r.Frames = 0
}
