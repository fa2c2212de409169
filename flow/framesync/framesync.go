// Package framesync is the handshake between the raster interrupt and the
// main loop.
//
// The two sides share a single "done" flag. The main loop sets the flag when
// it has finished a frame and then spins until the flag is cleared. The
// interrupt clears the flag, granting the main loop permission to start the
// next frame, once every full animation cycle. If the flag is still clear at
// that point then the main loop has missed its deadline and the interrupt
// halts the system for good.
//
// The frame counter, the animation phase and the active buffer are written by
// the interrupt side only. The main loop only ever reads them.
//
// All shared fields are atomic values. A store by one side is visible to a
// load by the other side together with every write made before the store.
// This is what guarantees that a screen buffer is complete before the
// interrupt makes it visible.
package framesync

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
)

// ErrDeadlineOverrun is the fatal error returned when the main loop has not
// finished a frame by the time the interrupt needs it. There is no recovery
// from this error.
var ErrDeadlineOverrun = errors.New("deadline overrun")

// ErrStopped is returned by Wait() when Stop() has been called.
var ErrStopped = errors.New("stopped")

const (
	// number of frames for each step of the animation phase
	PhaseFrames = 5

	// number of animation phases. the main loop is granted a new frame every
	// time the phase returns to zero
	Phases = 4

	// the number of raster interrupts in every frame
	InterruptsPerFrame = 2
)

// Event identifies which of the two interrupts in a frame has occurred.
type Event int

// List of valid Event values.
const (
	// the mid-frame interrupt. used to switch the status row to the text
	// character bank
	Split Event = iota

	// the end of frame interrupt
	Frame
)

func (e Event) String() string {
	if e == Split {
		return "split"
	}
	return "frame"
}

// Tick is the result of a single interrupt.
type Tick struct {
	Event Event

	// the frame counter and animation phase after the interrupt
	Frame uint8
	Phase int

	// the screen buffer being displayed after the interrupt
	Active int

	// whether the main loop was granted a new frame by this interrupt
	Granted bool
}

// State of the handshake. The zero value is ready to use. In the initial
// state the main loop has permission to run its first frame.
type State struct {
	// the handshake flag. true means the main loop has finished its frame
	done atomic.Bool

	frame  atomic.Uint32
	phase  atomic.Uint32
	active atomic.Uint32

	halted  atomic.Bool
	stopped atomic.Bool

	// interrupt side only
	split      bool
	phaseCount int
}

// Reset returns the state to its initial condition.
func (s *State) Reset() {
	s.done.Store(false)
	s.frame.Store(0)
	s.phase.Store(0)
	s.active.Store(0)
	s.halted.Store(false)
	s.stopped.Store(false)
	s.split = false
	s.phaseCount = 0
}

// Interrupt should be called by the interrupt side for every raster
// interrupt. The first interrupt is an end of frame interrupt and subsequent
// interrupts alternate between Split and Frame.
//
// Returns ErrDeadlineOverrun if the main loop has missed its deadline. The
// state is halted from that point on and every subsequent call will return
// the same error.
func (s *State) Interrupt() (Tick, error) {
	if s.halted.Load() {
		return Tick{}, ErrDeadlineOverrun
	}

	if s.split {
		s.split = false
		return Tick{
			Event:  Split,
			Frame:  s.Frame(),
			Phase:  s.Phase(),
			Active: s.Active(),
		}, nil
	}
	s.split = true

	var granted bool

	if s.phaseCount == PhaseFrames {
		s.phaseCount = 0

		p := s.phase.Load() + 1
		if p == Phases {
			s.phase.Store(0)

			if !s.Release() {
				s.halted.Store(true)
				return Tick{Event: Frame, Frame: s.Frame(), Active: s.Active()},
					fmt.Errorf("frame %d: %w", s.Frame(), ErrDeadlineOverrun)
			}
			granted = true
		} else {
			s.phase.Store(p)
		}
	}

	s.phaseCount++
	s.frame.Store(uint32(uint8(s.frame.Load() + 1)))

	return Tick{
		Event:   Frame,
		Frame:   s.Frame(),
		Phase:   s.Phase(),
		Active:  s.Active(),
		Granted: granted,
	}, nil
}

// Release grants the main loop permission to run the next frame and flips the
// active screen buffer. Called by the interrupt side.
//
// If the flag is already clear then nothing is changed and false is
// returned. Permission can therefore be granted only once for every frame the
// main loop completes.
func (s *State) Release() bool {
	if !s.done.Load() {
		return false
	}

	// the active buffer must be flipped before the flag is cleared. the main
	// loop reads the active buffer as soon as it sees the flag clear
	s.active.Store(s.active.Load() ^ 1)
	s.done.Store(false)

	return true
}

// Wait spins while the done flag is set. Called by the main loop before
// starting a frame.
//
// Returns ErrDeadlineOverrun if the interrupt side has halted and ErrStopped
// if Stop() has been called while waiting.
func (s *State) Wait() error {
	for s.done.Load() {
		if s.halted.Load() {
			return ErrDeadlineOverrun
		}
		if s.stopped.Load() {
			return ErrStopped
		}
		runtime.Gosched()
	}
	if s.halted.Load() {
		return ErrDeadlineOverrun
	}
	return nil
}

// Done sets the flag. Called by the main loop once the frame is complete,
// including the write to the inactive screen buffer.
func (s *State) Done() {
	s.done.Store(true)
}

// IsDone returns the current value of the flag.
func (s *State) IsDone() bool {
	return s.done.Load()
}

// Ready returns true if the main loop has permission to run a frame.
func (s *State) Ready() bool {
	return !s.done.Load() && !s.halted.Load()
}

// Stop causes a waiting main loop to return ErrStopped. It is not a way of
// recovering from a halt.
func (s *State) Stop() {
	s.stopped.Store(true)
}

// Resume undoes the effect of Stop().
func (s *State) Resume() {
	s.stopped.Store(false)
}

// Halted returns true if the deadline has been missed.
func (s *State) Halted() bool {
	return s.halted.Load()
}

// Frame returns the wrapping frame counter.
func (s *State) Frame() uint8 {
	return uint8(s.frame.Load())
}

// Phase returns the animation phase (0 to 3).
func (s *State) Phase() int {
	return int(s.phase.Load())
}

// Active returns the index of the screen buffer being displayed.
func (s *State) Active() int {
	return int(s.active.Load())
}

// Inactive returns the index of the screen buffer the main loop should draw
// to.
func (s *State) Inactive() int {
	return s.Active() ^ 1
}

func (s *State) String() string {
	return fmt.Sprintf("frame=%d phase=%d active=%d done=%v halted=%v",
		s.Frame(), s.Phase(), s.Active(), s.IsDone(), s.Halted())
}
