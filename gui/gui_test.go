package gui

import (
	"errors"
	"testing"

	"github.com/jetsetilly/tileflow/config"
	"github.com/jetsetilly/tileflow/test"
	"github.com/jetsetilly/tileflow/ui"
)

func TestHeadless(t *testing.T) {
	u := ui.NewUI()
	end := make(chan bool, 1)

	u.SetImage <- ui.Frame{ID: "1"}
	u.State <- ui.StateRunning

	done := make(chan error, 1)
	go func() {
		done <- Launch(end, u, config.DisplayNone)
	}()

	// channels are drained so that further sends succeed
	u.SetImage <- ui.Frame{ID: "2"}
	u.State <- ui.StatePaused

	end <- true
	test.ExpectSuccess(t, <-done)
}

func TestUnknownDisplay(t *testing.T) {
	err := Launch(make(chan bool, 1), ui.NewUI(), "PLOTTER")
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, errors.Is(err, config.ErrInvalid))
}
