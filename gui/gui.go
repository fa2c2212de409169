// Package gui selects and launches the frontend named by the display setting
// of the configuration.
package gui

import (
	"fmt"

	"github.com/jetsetilly/tileflow/config"
	"github.com/jetsetilly/tileflow/gui/ebiten"
	"github.com/jetsetilly/tileflow/gui/terminal"
	"github.com/jetsetilly/tileflow/ui"
)

// Launch runs the frontend until endGui is signalled or the frontend is closed
// by the user
func Launch(endGui chan bool, u *ui.UI, display string) error {
	switch display {
	case config.DisplayEbiten:
		return ebiten.Launch(endGui, u)
	case config.DisplayTerminal:
		return terminal.Launch(endGui, u)
	case config.DisplayNone:
		headless(endGui, u)
		return nil
	}
	return fmt.Errorf("gui: %w: unknown display (%s)", config.ErrInvalid, display)
}

// headless drains the frontend channels so the latest frame and state are
// never stale
func headless(endGui chan bool, u *ui.UI) {
	for {
		select {
		case <-endGui:
			return
		case <-u.SetImage:
		case <-u.State:
		}
	}
}
