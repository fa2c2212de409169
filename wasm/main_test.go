package main

import (
	"testing"
	"time"

	"github.com/jetsetilly/tileflow/test"
	"github.com/jetsetilly/tileflow/ui"
)

func TestHaltAndReset(t *testing.T) {
	u := ui.NewUI()
	m := newMachine(u)

	test.DemandSuccess(t, m.reset())
	m.start()
	test.ExpectEquality(t, <-u.State, ui.StateRunning)

	for range 3 {
		time.Sleep(50 * time.Millisecond)
		m.halt()
		test.ExpectEquality(t, <-u.State, ui.StatePaused)
		test.ExpectFailure(t, m.running)

		// neither the raster nor the main loop is running so the machine
		// can be reset safely
		frames := m.con.Raster.Frames
		test.DemandSuccess(t, m.reset())
		test.ExpectEquality(t, m.con.Raster.Frames, 0)
		test.ExpectSuccess(t, m.con.Raster.Halted())
		test.ExpectSuccess(t, m.flow.Check())
		test.ExpectSuccess(t, frames > 0)

		m.start()
		test.ExpectEquality(t, <-u.State, ui.StateRunning)
	}

	m.halt()
	test.ExpectEquality(t, <-u.State, ui.StatePaused)
}
