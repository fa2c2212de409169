// Package terminal is a character cell frontend. It draws the screen codes of
// each ui.Frame directly rather than the rendered image, which makes it
// suitable for use over a remote shell.
package terminal

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/jetsetilly/tileflow/flow/tile"
	"github.com/jetsetilly/tileflow/hardware/spec"
	"github.com/jetsetilly/tileflow/logger"
	"github.com/jetsetilly/tileflow/ui"
)

// the row below the display on which the state and the most recent log entry
// are shown
const infoRow = spec.Rows + 1

// how often the log line is refreshed
const refreshPeriod = 250 * time.Millisecond

type guiTerminal struct {
	screen tcell.Screen
	u      *ui.UI

	palette [16]tcell.Color

	state  ui.State
	lastID string
	last   ui.Frame
}

func newTerminal(screen tcell.Screen, u *ui.UI) *guiTerminal {
	gt := &guiTerminal{
		screen: screen,
		u:      u,
		state:  ui.StatePaused,
	}
	for i, c := range spec.PAL.Palette {
		gt.palette[i] = tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	}
	return gt
}

// CellRune returns the rune used to draw a single character cell
func CellRune(code uint8, bank uint8) rune {
	if bank == ui.TextBank {
		code &= 0x3f
		if code < 0x20 {
			return rune('@' + code)
		}
		return rune(code)
	}

	t := tile.Tile(code)
	switch {
	case tile.Logical(t) == tile.Empty:
		return ' '
	case tile.HasResource(t):
		return '●'
	case t.IsSpawner():
		return '◆'
	}

	switch t.Direction() {
	case tile.Left:
		return '←'
	case tile.Up:
		return '↑'
	case tile.Right:
		return '→'
	case tile.Down:
		return '↓'
	}
	return '█'
}

func (gt *guiTerminal) draw(f ui.Frame) {
	bg := gt.palette[f.Background&0x0f]
	for row := range spec.Rows {
		for col := range spec.Columns {
			idx := row*spec.Columns + col
			st := tcell.StyleDefault.Foreground(gt.palette[f.Colour[idx]&0x07]).Background(bg)
			gt.screen.SetContent(col, row, CellRune(f.Screen[idx], f.Bank[idx]), nil, st)
		}
	}
	gt.info()
}

// info draws the state of the machine and the most recent log entry
func (gt *guiTerminal) info() {
	s := fmt.Sprintf("[%s] ", gt.state)
	if e, err := logger.Last(); err == nil {
		s = fmt.Sprintf("%s%s", s, e)
	}

	w, _ := gt.screen.Size()
	st := tcell.StyleDefault
	if gt.state == ui.StateHalted {
		st = st.Foreground(gt.palette[spec.White]).Background(gt.palette[spec.Red])
	}

	r := []rune(s)
	for x := range w {
		c := ' '
		if x < len(r) {
			c = r[x]
		}
		gt.screen.SetContent(x, infoRow, c, nil, st)
	}
}

// input converts a terminal event to a user input. returns true if the
// terminal should close
func (gt *guiTerminal) input(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		var inp ui.Input

		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			inp.Action = ui.Quit
		case tcell.KeyRune:
			switch ev.Rune() {
			case ' ':
				inp.Action = ui.Pause
			case 's', '.':
				inp.Action = ui.Step
			case 'r':
				inp.Action = ui.Reset
			case 'q':
				inp.Action = ui.Quit
			}
		}

		if inp.Action == ui.Nothing {
			return false
		}

		select {
		case gt.u.UserInput <- inp:
		default:
		}

		return inp.Action == ui.Quit

	case *tcell.EventResize:
		gt.screen.Sync()
	}

	return false
}

// poll forwards screen events until the screen is finalised or done is
// closed
func (gt *guiTerminal) poll(events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := gt.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

func (gt *guiTerminal) run(endGui chan bool) error {
	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go gt.poll(events, done)

	ticker := time.NewTicker(refreshPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-endGui:
			return nil
		case f := <-gt.u.SetImage:
			if f.ID == gt.lastID {
				continue
			}
			gt.lastID = f.ID
			gt.last = f
			gt.draw(f)
		case gt.state = <-gt.u.State:
			gt.info()
		case ev := <-events:
			if gt.input(ev) {
				return nil
			}
		case <-ticker.C:
			gt.info()
		}
		gt.screen.Show()
	}
}

// Launch runs the terminal frontend until endGui is signalled or the user
// quits
func Launch(endGui chan bool, u *ui.UI) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	defer screen.Fini()

	// log output would otherwise corrupt the display
	logger.SetEcho(nil, false)

	return newTerminal(screen, u).run(endGui)
}
