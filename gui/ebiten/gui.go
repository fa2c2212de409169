package ebiten

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jetsetilly/tileflow/hardware/spec"
	"github.com/jetsetilly/tileflow/logger"
	"github.com/jetsetilly/tileflow/ui"
	"github.com/jetsetilly/tileflow/version"
	input "github.com/quasilyte/ebitengine-input"
)

type windowGeometry struct {
	x, y int
	w, h int
}

func (g windowGeometry) valid() bool {
	return g.x >= 0 && g.y >= 0 && g.w > 0 && g.h > 0
}

const (
	ActionPause = input.Action(ui.Pause)
	ActionStep  = input.Action(ui.Step)
	ActionReset = input.Action(ui.Reset)
	ActionQuit  = input.Action(ui.Quit)
)

// the scaling of the window when it is first opened
const windowScale = 2

type guiEbiten struct {
	u    *ui.UI
	geom windowGeometry

	started bool
	endGui  chan bool

	state ui.State

	main   *ebiten.Image
	lastID string

	// width/height of incoming image from emulation. not to be confused with window dimensions
	width  int
	height int

	inputHandler *input.Handler
	inputSystem  input.System
}

func (eg *guiEbiten) initialise() {
	keymap := input.Keymap{
		ActionPause: {input.KeySpace, input.KeyGamepadStart},
		ActionStep:  {input.KeyPeriod, input.KeyGamepadA},
		ActionReset: {input.KeyR, input.KeyGamepadBack},
		ActionQuit:  {input.KeyEscape},
	}
	eg.inputHandler = eg.inputSystem.NewHandler(uint8(0), keymap)
	eg.started = true
}

// returns true if the quit action has been pressed
func (eg *guiEbiten) input() bool {
	eg.inputSystem.Update()

	var inp ui.Input

	for _, a := range []input.Action{ActionPause, ActionStep, ActionReset, ActionQuit} {
		if eg.inputHandler.ActionIsJustPressed(a) {
			inp = ui.Input{Action: ui.Action(a)}
		}
	}

	if inp.Action == ui.Nothing {
		return false
	}

	select {
	case eg.u.UserInput <- inp:
	default:
	}

	return inp.Action == ui.Quit
}

func (eg *guiEbiten) Update() error {
	if !eg.started {
		eg.initialise()
	}

	// deal with quit condition
	select {
	case <-eg.endGui:
		return ebiten.Termination
	default:
	}

	if eg.input() {
		return ebiten.Termination
	}

	// change state if necessary
	select {
	case eg.state = <-eg.u.State:
	default:
	}

	// retrieve any pending images
	select {
	case f := <-eg.u.SetImage:
		if f.Main != nil && f.ID != eg.lastID {
			eg.lastID = f.ID
			if eg.main == nil || eg.main.Bounds() != f.Main.Bounds() {
				eg.width = f.Main.Bounds().Dx()
				eg.height = f.Main.Bounds().Dy()
				eg.main = ebiten.NewImage(eg.width, eg.height)
			}
			eg.main.WritePixels(f.Main.Pix)
		}
	default:
	}

	return nil
}

func (eg *guiEbiten) Draw(screen *ebiten.Image) {
	if eg.main != nil {
		var op ebiten.DrawImageOptions

		// the image is dimmed when the machine is not running
		switch eg.state {
		case ui.StatePaused:
			op.ColorScale.Scale(0.6, 0.6, 0.6, 1.0)
		case ui.StateHalted:
			op.ColorScale.Scale(1.0, 0.4, 0.4, 1.0)
		}

		screen.DrawImage(eg.main, &op)
	}

	eg.geom.x, eg.geom.y = ebiten.WindowPosition()
	eg.geom.w, eg.geom.h = ebiten.WindowSize()
}

func (eg *guiEbiten) Layout(width, height int) (int, int) {
	if eg.main != nil {
		return eg.width, eg.height
	}
	return width, height
}

func Launch(endGui chan bool, u *ui.UI) error {
	ebiten.SetWindowTitle(version.Title())
	ebiten.SetVsyncEnabled(true)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowPosition(10, 10)
	ebiten.SetTPS(ebiten.SyncWithFPS)

	eg := &guiEbiten{
		endGui: endGui,
		u:      u,
		state:  ui.StatePaused,
	}

	eg.inputSystem.Init(input.SystemConfig{
		DevicesEnabled: input.AnyDevice,
	})

	var err error

	eg.geom, err = onWindowOpen()
	if err != nil {
		logger.Log(logger.Allow, "gui", err.Error())
	}
	if !eg.geom.valid() {
		ebiten.SetWindowSize(spec.FrameWidth*windowScale, spec.FrameHeight*windowScale)
	}

	defer func() {
		err := onWindowClose(eg.geom)
		if err != nil {
			logger.Log(logger.Allow, "gui", err.Error())
			return
		}
	}()

	return ebiten.RunGame(eg)
}
