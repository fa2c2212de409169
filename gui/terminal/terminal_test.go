package terminal

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/jetsetilly/tileflow/flow/tile"
	"github.com/jetsetilly/tileflow/hardware/video"
	"github.com/jetsetilly/tileflow/test"
	"github.com/jetsetilly/tileflow/ui"
)

func TestCellRune(t *testing.T) {
	test.ExpectEquality(t, CellRune(uint8(tile.Empty), 0), ' ')
	test.ExpectEquality(t, CellRune(uint8(tile.Wall), 1), '█')
	test.ExpectEquality(t, CellRune(uint8(tile.DirectionalGlyph(tile.Left, 0)), 0), '←')
	test.ExpectEquality(t, CellRune(uint8(tile.DirectionalGlyph(tile.Up, 1)), 2), '↑')
	test.ExpectEquality(t, CellRune(uint8(tile.DirectionalGlyph(tile.Right, 2)), 3), '→')
	test.ExpectEquality(t, CellRune(uint8(tile.DirectionalGlyph(tile.Down, 0)), 0), '↓')
	test.ExpectEquality(t, CellRune(uint8(tile.SetResource(tile.DirectionalGlyph(tile.Down, 0))), 0), '●')
	test.ExpectEquality(t, CellRune(uint8(tile.TopSpawner), 0), '◆')

	// animation phase does not change the rune
	test.ExpectEquality(t, CellRune(uint8(tile.WithPhase(tile.DirectionalGlyph(tile.Left, 0), 3)), 0), '←')

	// text bank
	test.ExpectEquality(t, CellRune(video.ScreenCode('T'), ui.TextBank), 'T')
	test.ExpectEquality(t, CellRune(video.ScreenCode('k'), ui.TextBank), 'K')
	test.ExpectEquality(t, CellRune(video.ScreenCode('7'), ui.TextBank), '7')
	test.ExpectEquality(t, CellRune(video.ScreenCode(' '), ui.TextBank), ' ')
}

func newSimulation(t *testing.T) (*guiTerminal, tcell.SimulationScreen) {
	t.Helper()
	s := tcell.NewSimulationScreen("")
	test.DemandSuccess(t, s.Init())
	s.SetSize(80, 30)
	t.Cleanup(s.Fini)
	return newTerminal(s, ui.NewUI()), s
}

func TestDraw(t *testing.T) {
	gt, s := newSimulation(t)

	var f ui.Frame
	f.ID = "1"
	f.Screen[0] = uint8(tile.Wall)
	f.Screen[41] = uint8(tile.DirectionalGlyph(tile.Right, 0))
	f.Screen[24*40] = video.ScreenCode('A')
	f.Bank[24*40] = ui.TextBank

	gt.draw(f)
	s.Show()

	r, _, _, _ := s.GetContent(0, 0)
	test.ExpectEquality(t, r, '█')
	r, _, _, _ = s.GetContent(1, 1)
	test.ExpectEquality(t, r, '→')
	r, _, _, _ = s.GetContent(0, 24)
	test.ExpectEquality(t, r, 'A')
	r, _, _, _ = s.GetContent(1, infoRow)
	test.ExpectEquality(t, r, 'p')
}

func TestInput(t *testing.T) {
	gt, _ := newSimulation(t)

	quit := gt.input(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone))
	test.ExpectEquality(t, quit, false)
	inp := <-gt.u.UserInput
	test.ExpectEquality(t, inp.Action, ui.Pause)

	quit = gt.input(tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone))
	test.ExpectEquality(t, quit, false)
	inp = <-gt.u.UserInput
	test.ExpectEquality(t, inp.Action, ui.Step)

	// unmapped keys produce no input
	quit = gt.input(tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone))
	test.ExpectEquality(t, quit, false)
	test.ExpectEquality(t, len(gt.u.UserInput), 0)

	quit = gt.input(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	test.ExpectEquality(t, quit, true)
	inp = <-gt.u.UserInput
	test.ExpectEquality(t, inp.Action, ui.Quit)
}

func TestRunEnds(t *testing.T) {
	gt, _ := newSimulation(t)

	end := make(chan bool, 1)
	gt.u.SetImage <- ui.Frame{ID: "7"}
	end <- true

	// the frame may or may not have been drawn before the end signal is
	// seen, but run must return
	test.ExpectSuccess(t, gt.run(end))
}

// busyScreen always has another event waiting
type busyScreen struct {
	tcell.Screen
}

func (busyScreen) PollEvent() tcell.Event {
	return tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone)
}

func TestPollEnds(t *testing.T) {
	gt, s := newSimulation(t)
	gt.screen = busyScreen{Screen: s}

	// nothing reads the events channel once done is closed
	events := make(chan tcell.Event)
	done := make(chan struct{})
	ended := make(chan bool)
	go func() {
		gt.poll(events, done)
		ended <- true
	}()

	<-events
	close(done)

	select {
	case <-ended:
	case <-time.After(time.Second):
		t.Fatalf("poll did not end")
	}
}
