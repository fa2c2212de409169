package debugger

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jetsetilly/tileflow/assets"
	"github.com/jetsetilly/tileflow/config"
	"github.com/jetsetilly/tileflow/flow"
	"github.com/jetsetilly/tileflow/flow/framesync"
	"github.com/jetsetilly/tileflow/flow/tile"
	"github.com/jetsetilly/tileflow/hardware"
	"github.com/jetsetilly/tileflow/logger"
	"github.com/jetsetilly/tileflow/trace"
	"github.com/jetsetilly/tileflow/ui"
)

type input struct {
	s   string
	err error
}

type debugger struct {
	ctx context

	guiQuit chan bool
	sig     chan os.Signal
	input   chan input

	// this channel is passed to the debugger during creation via the UI type
	state     chan ui.State
	userInput chan ui.Input

	console *hardware.Console
	machine *flow.Machine

	// the map and tileset to use on reset
	mapData []uint8
	tileset []uint8

	// frame trace. the tap is nil if no recorders are configured. the index
	// is nil if the SQLite recorder is not configured
	tap   *trace.Tap
	index *trace.SQLite

	watches map[uint16]watch

	// watches that have triggered while the main loop is running
	triggered chan watch

	// rule for stepping. by default (the field is nil) the step will move
	// forward one raster frame
	stepRule func() bool
	postStep func()

	// printing styles and the destination for printed output
	styles styles
	out    io.Writer
}

func newDebugger(guiQuit chan bool, u *ui.UI, cfg config.Config, out io.Writer) *debugger {
	m := &debugger{
		ctx:       context{cfg: cfg},
		guiQuit:   guiQuit,
		sig:       make(chan os.Signal, 1),
		input:     make(chan input, 1),
		state:     u.State,
		userInput: u.UserInput,
		watches:   make(map[uint16]watch),
		triggered: make(chan watch, 1),
		styles:    newStyles(lipgloss.NewRenderer(out)),
		out:       out,
	}
	m.console = hardware.Create(&m.ctx, u)
	m.machine = flow.NewMachine(m.console.Video)
	m.console.Attach(m.machine)
	m.machine.AttachTracer(m)
	return m
}

// initialise loads the assets, opens the trace recorders and resets the
// machine
func (m *debugger) initialise() error {
	var err error

	m.mapData, err = assets.LoadMap(m.ctx.cfg.Map)
	if err != nil {
		return fmt.Errorf("debugger: %w", err)
	}
	m.tileset, err = assets.LoadTileset(m.ctx.cfg.Tileset)
	if err != nil {
		return fmt.Errorf("debugger: %w", err)
	}

	err = m.openTrace()
	if err != nil {
		return fmt.Errorf("debugger: %w", err)
	}

	return m.reset()
}

func (m *debugger) openTrace() error {
	var rec trace.Multi

	if pth := m.ctx.cfg.Trace.JSONL; pth != "" {
		j, err := trace.NewJSONLZstd(pth)
		if err != nil {
			return err
		}
		rec = append(rec, j)
	}

	if pth := m.ctx.cfg.Trace.SQLite; pth != "" {
		s, err := trace.OpenSQLite(pth)
		if err != nil {
			return errors.Join(err, rec.Close())
		}
		m.index = s
		rec = append(rec, s)
	}

	if len(rec) > 0 {
		m.tap = trace.NewTap(rec, trace.TapQueue)
	}

	return nil
}

func (m *debugger) close() {
	if m.tap == nil {
		return
	}
	if err := m.tap.Close(); err != nil {
		logger.Log(logger.Allow, "debugger", err)
	}
	m.tap = nil
	m.index = nil
}

// Push implements the flow.Tracer interface. It is called by the main loop
// at the end of every frame.
func (m *debugger) Push(r trace.Record) bool {
	if w := m.checkWatches(&m.machine.Grid); w != nil {
		select {
		case m.triggered <- *w:
		default:
		}
	}
	if m.tap == nil {
		return true
	}
	return m.tap.Push(r)
}

func (m *debugger) reset() error {
	err := m.console.Video.LoadTileset(m.tileset)
	if err != nil {
		return err
	}

	m.console.Reset()

	rep, err := m.machine.Bootstrap(m.mapData)
	if err != nil {
		return err
	}

	// watched values are refreshed so that the reset itself doesn't trigger
	// a watch
	for i, w := range m.watches {
		w.data = tile.Logical(m.machine.Grid.At(w.idx))
		m.watches[i] = w
	}
	select {
	case <-m.triggered:
	default:
	}

	m.setState(ui.StatePaused)
	m.console.Video.PushRender()

	fmt.Fprintln(m.out, m.styles.debugger.Render("machine reset"))
	fmt.Fprintln(m.out, m.styles.sim.Render(rep.String()))

	return nil
}

// setState sends the state to the user interface. An unread state is
// replaced
func (m *debugger) setState(s ui.State) {
	select {
	case <-m.state:
	default:
	}
	select {
	case m.state <- s:
	default:
	}
}

// halted prints the reason for a halt
func (m *debugger) halted(err error) {
	m.setState(ui.StateHalted)
	fmt.Fprintln(m.out, m.styles.halt.Render(err.Error()))
	fmt.Fprintln(m.out, m.styles.sync.Render(m.machine.Sync.String()))
	fmt.Fprintln(m.out, m.styles.debugger.Render("machine halted. RESET to continue"))
}

// step advances the raster by one frame according to the current step rule.
// The main loop is run whenever it has permission to run. The step rule will
// be reset after the step has completed
//
// returns true if quit signal has been received
func (m *debugger) step() bool {
	defer func() {
		m.stepRule = nil
		m.postStep = nil
	}()

	if err := m.console.Raster.Halted(); err != nil {
		m.halted(err)
		return false
	}

	// the number of raster frames stepped over
	var ct int

	// loop until the step rule returns true
	var done bool
	for !done {
		select {
		case <-m.sig:
			done = true
			continue // for loop
		case <-m.guiQuit:
			return true
		default:
		}

		if m.machine.Sync.Ready() {
			m.machine.Frame()
		}

		err := m.console.Frame()
		if err != nil {
			m.halted(err)
			return false
		}

		ct++

		select {
		case w := <-m.triggered:
			fmt.Fprintln(m.out, m.styles.watch.Render(fmt.Sprintf("watch: %s", w)))
			done = true
			continue // for loop
		default:
		}

		if ct >= stepLimit {
			fmt.Fprintln(m.out, m.styles.err.Render(
				fmt.Sprintf("step limit of %d frames reached", stepLimit),
			))
			return false
		}

		// apply step rule
		if m.stepRule == nil {
			done = true
		} else {
			done = m.stepRule()
		}
	}

	// report how many frames were stepped if it is more than one
	if ct > 1 {
		fmt.Fprintln(m.out, m.styles.debugger.Render(
			fmt.Sprintf("%d frames stepped", ct),
		))
	}

	if m.postStep == nil {
		// by default we print the state of the handshake
		fmt.Fprintln(m.out, m.styles.sync.Render(m.machine.Sync.String()))
	} else {
		m.postStep()
	}

	return false
}

// returns true if quit signal has been received
func (m *debugger) run() bool {
	if err := m.console.Raster.Halted(); err != nil {
		m.halted(err)
		return false
	}

	fmt.Fprintln(m.out, m.styles.debugger.Render("machine running"))

	startFrames := m.machine.Frames()
	startTime := time.Now()

	// the main loop
	m.machine.Sync.Resume()
	mainLoop := make(chan error, 1)
	go func() {
		mainLoop <- m.machine.Run()
	}()

	// the raster interrupts
	stop := make(chan bool, 1)
	raster := make(chan error, 1)
	go func() {
		raster <- m.console.Run(stop)
	}()

	m.setState(ui.StateRunning)

	var quit bool
	var halt error

	running := true
	for running {
		select {
		case <-m.sig:
			running = false
		case <-m.guiQuit:
			quit = true
			running = false
		case inp := <-m.userInput:
			switch inp.Action {
			case ui.Pause, ui.Step, ui.Reset:
				running = false
			case ui.Quit:
				quit = true
				running = false
			}
		case w := <-m.triggered:
			fmt.Fprintln(m.out, m.styles.watch.Render(fmt.Sprintf("watch: %s", w)))
			running = false
		case err := <-mainLoop:
			// the main loop only ends on its own if the raster has halted. the
			// raster continues to run in order to flash the border until the
			// run is stopped
			mainLoop = nil
			halt = err
			m.halted(err)
		}
	}

	stop <- true
	err := <-raster
	if err != nil && halt == nil {
		halt = err
		m.halted(err)
	}

	// wait for the main loop to finish its current frame
	if mainLoop != nil {
		m.machine.Sync.Stop()
		err := <-mainLoop
		if !errors.Is(err, framesync.ErrStopped) && halt == nil {
			m.halted(err)
			halt = err
		}
	}

	if quit {
		return true
	}

	if halt == nil {
		m.setState(ui.StatePaused)
		m.console.Video.PushRender()
		fmt.Fprintln(m.out, m.styles.debugger.Render(
			fmt.Sprintf("%d frames in %.02f seconds", m.machine.Frames()-startFrames, time.Since(startTime).Seconds()),
		))
	}

	fmt.Fprintln(m.out, m.styles.sim.Render(m.machine.String()))

	return false
}

func (m *debugger) loop() {
	for {
		fmt.Fprintf(m.out, "%d> ", m.machine.Frames())

		var cmd []string

		select {
		case input := <-m.input:
			if input.err != nil {
				fmt.Fprintln(m.out, m.styles.err.Render(input.err.Error()))
				return
			}
			cmd = strings.Fields(input.s)
			if len(cmd) == 0 {
				cmd = []string{"STEP"}
			}
		case inp := <-m.userInput:
			switch inp.Action {
			case ui.Pause:
				cmd = []string{"RUN"}
			case ui.Step:
				cmd = []string{"STEP"}
			case ui.Reset:
				cmd = []string{"RESET"}
			case ui.Quit:
				cmd = []string{"QUIT"}
			default:
				continue // for loop
			}
			fmt.Fprintln(m.out, cmd[0])
		case <-m.sig:
			fmt.Fprint(m.out, "\r")
			return
		case <-m.guiQuit:
			fmt.Fprint(m.out, "\n")
			return
		}

		if m.commands(cmd) {
			return
		}
	}
}

// logWriter sends printed output to the log. used when the terminal is being
// used as the display
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	if s := strings.TrimSpace(string(p)); s != "" {
		logger.Log(logger.Allow, "debugger", s)
	}
	return len(p), nil
}

const programName = "tileflow"

// Configure parses the command line arguments and returns the resolved
// configuration. A single non-flag argument is taken to be the map file.
func Configure(args []string) (config.Config, error) {
	flgs := flag.NewFlagSet(programName, flag.ExitOnError)
	f := config.Bind(flgs)
	err := flgs.Parse(args)
	if err != nil {
		return config.Default(), err
	}
	args = flgs.Args()

	cfg, err := f.Resolve()
	if err != nil {
		return cfg, err
	}

	if len(args) == 1 {
		cfg.Map = args[0]
	} else if len(args) > 1 {
		return cfg, fmt.Errorf("too many arguments to debugger")
	}

	return cfg, nil
}

// Launch the debugger. Commands are read from stdin unless the terminal is
// being used as the display, in which case commands come only from the user
// interface and printed output is sent to the log.
func Launch(guiQuit chan bool, u *ui.UI, cfg config.Config) error {
	out := io.Writer(os.Stdout)
	terminal := cfg.Display == config.DisplayTerminal
	if terminal {
		out = logWriter{}
	} else if cfg.Echo {
		logger.SetEcho(os.Stdout, false)
	}

	m := newDebugger(guiQuit, u, cfg, out)
	if err := m.initialise(); err != nil {
		return err
	}
	defer m.close()

	signal.Notify(m.sig, syscall.SIGINT)
	defer signal.Stop(m.sig)

	if !terminal {
		go func() {
			r := bufio.NewReader(os.Stdin)
			for {
				s, err := r.ReadString('\n')
				m.input <- input{
					s:   strings.TrimSpace(s),
					err: err,
				}
				if err != nil {
					return
				}
			}
		}()
	}

	if cfg.Autorun {
		if m.run() {
			return nil
		}
	}

	m.loop()

	return nil
}
