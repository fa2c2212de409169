package hardware

import (
	"time"

	"github.com/jetsetilly/tileflow/hardware/spec"
)

type limiter struct {
	tick  *time.Ticker
	nudge chan bool
	d     time.Duration
}

func newLimiter(spec spec.Spec) *limiter {
	l := &limiter{
		nudge: make(chan bool, 1),
	}
	l.d = period(spec)
	l.tick = time.NewTicker(l.d)
	return l
}

// the ideal duration of a frame
func period(spec spec.Spec) time.Duration {
	return time.Duration(float64(time.Second) / spec.FrameRate())
}

// Reset the limiter for the specification. Ticks that are pending are
// discarded.
func (l *limiter) Reset(spec spec.Spec) {
	l.d = period(spec)
	l.tick.Reset(l.d)
	select {
	case <-l.tick.C:
	default:
	}
}

// Wait until the next frame is due or until the limiter is nudged
func (l *limiter) Wait() {
	select {
	case <-l.tick.C:
	case <-l.nudge:
	}
}

// Nudge causes a waiting Wait() to return immediately
func (l *limiter) Nudge() {
	select {
	case l.nudge <- true:
	default:
	}
}
