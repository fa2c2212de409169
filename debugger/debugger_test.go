package debugger

import (
	"bytes"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/jetsetilly/tileflow/assets"
	"github.com/jetsetilly/tileflow/config"
	"github.com/jetsetilly/tileflow/flow/tile"
	"github.com/jetsetilly/tileflow/test"
	"github.com/jetsetilly/tileflow/trace"
	"github.com/jetsetilly/tileflow/ui"
)

func newTestDebugger(t *testing.T, cfg config.Config) (*debugger, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	m := newDebugger(make(chan bool, 1), ui.NewUI(), cfg, out)
	test.DemandSuccess(t, m.initialise())
	t.Cleanup(m.close)
	return m, out
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Display = config.DisplayNone
	return cfg
}

// expectOutput checks that the output contains s and then clears the output
func expectOutput(t *testing.T, out *bytes.Buffer, s string) {
	t.Helper()
	if !strings.Contains(out.String(), s) {
		t.Errorf("output does not contain %q:\n%s", s, out.String())
	}
	out.Reset()
}

func TestInitialise(t *testing.T) {
	m, out := newTestDebugger(t, testConfig())
	expectOutput(t, out, "machine reset")
	test.ExpectEquality(t, m.machine.Entities.Count, 4)
	test.ExpectEquality(t, m.machine.Spawners.Count, 3)
	test.ExpectEquality(t, <-m.state, ui.StatePaused)
}

func TestStep(t *testing.T) {
	m, out := newTestDebugger(t, testConfig())
	out.Reset()

	// the first frame of the main loop is run immediately
	test.ExpectFailure(t, m.commands([]string{"STEP"}))
	test.ExpectEquality(t, m.machine.Frames(), uint64(1))
	test.ExpectEquality(t, m.console.Raster.Frames, 1)
	expectOutput(t, out, "frame=1")

	test.ExpectFailure(t, m.commands([]string{"STEP", "5"}))
	test.ExpectEquality(t, m.console.Raster.Frames, 6)
	expectOutput(t, out, "5 frames stepped")

	// the main loop is granted a new frame once every animation cycle
	test.ExpectFailure(t, m.commands([]string{"STEP", "FRAME"}))
	test.ExpectEquality(t, m.machine.Frames(), uint64(2))
	expectOutput(t, out, "frame 2:")

	phase := m.machine.Sync.Phase()
	test.ExpectFailure(t, m.commands([]string{"STEP", "PHASE"}))
	test.ExpectInequality(t, m.machine.Sync.Phase(), phase)

	test.ExpectFailure(t, m.commands([]string{"STEP", "SPAWN"}))
	test.ExpectInequality(t, m.machine.Last().Spawned, 0)

	test.ExpectFailure(t, m.commands([]string{"STEP", "SIDEWAYS"}))
	expectOutput(t, out, "STEP SIDEWAYS is unsupported")

	test.ExpectSuccess(t, m.machine.Check())
}

func TestCommands(t *testing.T) {
	m, out := newTestDebugger(t, testConfig())
	out.Reset()

	test.ExpectFailure(t, m.commands([]string{"grid"}))
	expectOutput(t, out, "0d 0d 0d")

	test.ExpectFailure(t, m.commands([]string{"ENTITIES"}))
	test.ExpectInequality(t, out.Len(), 0)
	out.Reset()

	test.ExpectFailure(t, m.commands([]string{"SPAWNERS"}))
	test.ExpectInequality(t, out.Len(), 0)
	out.Reset()

	test.ExpectFailure(t, m.commands([]string{"SYNC"}))
	expectOutput(t, out, "halted=false")

	test.ExpectFailure(t, m.commands([]string{"VIDEO"}))
	expectOutput(t, out, "multicolour=true")

	test.ExpectFailure(t, m.commands([]string{"CHECK"}))
	expectOutput(t, out, "resource invariant holds")

	test.ExpectFailure(t, m.commands([]string{"CELL", "0", "0"}))
	expectOutput(t, out, "(0,0) = 13/none")

	test.ExpectFailure(t, m.commands([]string{"CELL", "40", "0"}))
	expectOutput(t, out, "outside the map")

	test.ExpectFailure(t, m.commands([]string{"CELL", "x"}))
	expectOutput(t, out, "requires a column and a row")

	test.ExpectFailure(t, m.commands([]string{"TRACE"}))
	expectOutput(t, out, "not enabled")

	test.ExpectFailure(t, m.commands([]string{"CONFIG"}))
	expectOutput(t, out, "NONE")

	test.ExpectFailure(t, m.commands([]string{"FLY"}))
	expectOutput(t, out, "unrecognised command: FLY")

	test.ExpectSuccess(t, m.commands([]string{"QUIT"}))
}

func TestWatch(t *testing.T) {
	m, out := newTestDebugger(t, testConfig())
	out.Reset()

	test.ExpectFailure(t, m.commands([]string{"WATCH", "2", "2"}))
	expectOutput(t, out, "added watch for (2,2)")

	test.ExpectFailure(t, m.commands([]string{"WATCH", "2", "2"}))
	expectOutput(t, out, "already present")

	// the watch triggers at the end of the next frame of the main loop
	m.machine.Grid.Set(2, 2, tile.Wall)
	test.ExpectFailure(t, m.commands([]string{"STEP", "100"}))
	test.ExpectEquality(t, m.console.Raster.Frames, 1)
	expectOutput(t, out, "watch: (2,2)")

	test.ExpectFailure(t, m.commands([]string{"WATCH", "LIST"}))
	expectOutput(t, out, "(2,2)")

	test.ExpectFailure(t, m.commands([]string{"WATCH", "DROP", "2", "2"}))
	expectOutput(t, out, "has been removed")
	test.ExpectEquality(t, len(m.watches), 0)

	test.ExpectFailure(t, m.commands([]string{"WATCH", "DROP", "2", "2"}))
	expectOutput(t, out, "not present")
}

func TestHaltAndReset(t *testing.T) {
	m, out := newTestDebugger(t, testConfig())
	out.Reset()

	// servicing the raster without running the main loop misses the deadline
	for range 21 {
		_ = m.console.Frame()
	}
	test.ExpectFailure(t, m.console.Raster.Halted() == nil)

	test.ExpectFailure(t, m.commands([]string{"STEP"}))
	expectOutput(t, out, "machine halted")

	test.ExpectFailure(t, m.commands([]string{"RUN"}))
	expectOutput(t, out, "deadline overrun")

	test.ExpectFailure(t, m.commands([]string{"RESET"}))
	expectOutput(t, out, "machine reset")
	test.ExpectSuccess(t, m.console.Raster.Halted())
	test.ExpectFailure(t, m.machine.Sync.Halted())

	test.ExpectFailure(t, m.commands([]string{"STEP"}))
	test.ExpectEquality(t, m.machine.Frames(), uint64(1))
}

func TestRun(t *testing.T) {
	m, out := newTestDebugger(t, testConfig())
	out.Reset()

	go func() {
		time.Sleep(200 * time.Millisecond)
		m.sig <- syscall.SIGINT
	}()

	test.ExpectFailure(t, m.run())
	expectOutput(t, out, "frames in")
	test.ExpectSuccess(t, m.console.Raster.Frames > 0)
	test.ExpectSuccess(t, m.machine.Check())

	// pause from the user interface
	go func() {
		time.Sleep(100 * time.Millisecond)
		m.userInput <- ui.Input{Action: ui.Pause}
	}()
	test.ExpectFailure(t, m.run())

	// quit from the user interface
	go func() {
		time.Sleep(100 * time.Millisecond)
		m.guiQuit <- true
	}()
	test.ExpectSuccess(t, m.run())
}

func TestTrace(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()
	cfg.Trace.JSONL = filepath.Join(dir, "trace.jsonl.zst")
	cfg.Trace.SQLite = filepath.Join(dir, "trace.db")

	m, out := newTestDebugger(t, cfg)
	out.Reset()

	test.ExpectFailure(t, m.commands([]string{"STEP", "FRAME"}))
	test.ExpectFailure(t, m.commands([]string{"STEP", "FRAME"}))
	test.ExpectFailure(t, m.commands([]string{"STEP", "FRAME"}))
	test.DemandEquality(t, m.machine.Frames(), uint64(3))

	m.close()

	recs, err := trace.ReadJSONLZstd(cfg.Trace.JSONL)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(recs), 3)
	test.ExpectEquality(t, recs[2].Frame, uint64(3))

	test.ExpectFailure(t, m.commands([]string{"TRACE"}))
	expectOutput(t, out, "not enabled")
}

func TestTraceSummary(t *testing.T) {
	cfg := testConfig()
	cfg.Trace.SQLite = filepath.Join(t.TempDir(), "trace.db")

	m, out := newTestDebugger(t, cfg)
	test.ExpectFailure(t, m.commands([]string{"STEP", "FRAME"}))
	test.ExpectFailure(t, m.commands([]string{"STEP", "FRAME"}))

	// records pass through the tap queue before reaching the index
	deadline := time.Now().Add(time.Second)
	for {
		pushed, _ := m.tap.Stats()
		if pushed == 2 || time.Now().After(deadline) {
			break
		}
		time.Sleep(time.Millisecond)
	}

	out.Reset()
	test.ExpectFailure(t, m.commands([]string{"TRACE"}))
	expectOutput(t, out, "records queued")
}

func TestSave(t *testing.T) {
	m, out := newTestDebugger(t, testConfig())
	out.Reset()

	pth := filepath.Join(t.TempDir(), "map.zst")
	test.ExpectFailure(t, m.commands([]string{"SAVE", pth}))
	expectOutput(t, out, "map saved")

	data, err := assets.LoadMap(pth)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(data), assets.MapSize)
	test.ExpectEquality(t, tile.Tile(data[0]), tile.Wall)

	test.ExpectFailure(t, m.commands([]string{"SAVE"}))
	expectOutput(t, out, "requires a filename")
}

func TestConfigure(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "missing.yaml")

	cfg, err := Configure([]string{"-config", pth, "-display", "none", "-spec", "ntsc", "demo.map"})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, cfg.Display, config.DisplayNone)
	test.ExpectEquality(t, cfg.Spec, "NTSC")
	test.ExpectEquality(t, cfg.Map, "demo.map")

	_, err = Configure([]string{"-config", pth, "a.map", "b.map"})
	test.ExpectFailure(t, err)

	ctx := context{cfg: cfg}
	test.ExpectEquality(t, ctx.Spec().ID, "NTSC")
}
