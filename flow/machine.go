// Package flow is the resource flow machine. It owns the grid, the entity and
// spawner tables and the frame synchronisation state, and it implements both
// sides of the handshake: Interrupt() is called by the raster and Run() is
// the main loop.
package flow

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/jetsetilly/tileflow/flow/entity"
	"github.com/jetsetilly/tileflow/flow/framesync"
	"github.com/jetsetilly/tileflow/flow/grid"
	"github.com/jetsetilly/tileflow/flow/spawner"
	"github.com/jetsetilly/tileflow/flow/tile"
	"github.com/jetsetilly/tileflow/hardware/spec"
	"github.com/jetsetilly/tileflow/hardware/video"
	"github.com/jetsetilly/tileflow/logger"
	"github.com/jetsetilly/tileflow/trace"
)

// ErrInvariant is returned by Check() if the number of cells with the
// resource bit set is not the same as the number of entities
var ErrInvariant = errors.New("invariant")

// Display is the part of the video hardware used by the machine
type Display interface {
	Screen(n int) []uint8
	ClearScreens(v uint8)
	FillColour(start int, end int, c uint8)
	SetMulticolour(on bool, bg0 uint8, bg1 uint8, bg2 uint8)
	WriteBank(v uint8)
	LatchStatus(v uint8)
	SetBorder(c uint8)
}

// Tracer receives a record at the end of every frame. Push() must not block
type Tracer interface {
	Push(trace.Record) bool
}

// Report summarises the result of Bootstrap()
type Report struct {
	Entities int
	Spawners int

	// entities that could not be added because the table was full. the
	// resource bit for these cells is cleared
	Dropped int

	// spawner markers with a target outside the border or found after the
	// spawner table was full
	Ignored int

	// border cells with a direction that have been changed into walls
	Sanitised int
}

func (r Report) String() string {
	return fmt.Sprintf("%d entities, %d spawners (dropped=%d ignored=%d sanitised=%d)",
		r.Entities, r.Spawners, r.Dropped, r.Ignored, r.Sanitised)
}

type Machine struct {
	Grid     grid.Grid
	Entities entity.Table
	Spawners spawner.Table
	Sync     framesync.State

	display Display
	tracer  Tracer

	// the following fields are used by the main loop only
	frames  uint64
	last    trace.Record
	status  video.TextWriter
	scratch [spec.Columns]byte
}

// NewMachine creates a machine that draws to the display. Bootstrap() must be
// called before the machine is used.
func NewMachine(d Display) *Machine {
	return &Machine{
		display: d,
	}
}

// AttachTracer sets the tracer that will receive a record for every frame.
// A nil value removes the current tracer.
func (m *Machine) AttachTracer(t Tracer) {
	m.tracer = t
}

// Bootstrap loads the map and prepares the machine and the display for the
// first frame.
func (m *Machine) Bootstrap(data []uint8) (Report, error) {
	var rep Report

	m.Entities.Reset()
	m.Spawners.Reset()
	m.Sync.Reset()
	m.frames = 0
	m.last = trace.Record{}

	if err := m.Grid.Load(data); err != nil {
		return rep, fmt.Errorf("flow: %w", err)
	}

	rep.Sanitised = m.sanitise()
	rep.Dropped = m.Entities.FindInitial(&m.Grid)
	rep.Ignored = m.Spawners.FindInitial(&m.Grid)
	rep.Entities = m.Entities.Count
	rep.Spawners = m.Spawners.Count

	if rep.Sanitised > 0 {
		logger.Logf(logger.Allow, "flow", "%d directional border cells changed to walls", rep.Sanitised)
	}
	if rep.Dropped > 0 {
		logger.Logf(logger.Allow, "flow", "entity table full. %d resource cells cleared", rep.Dropped)
	}
	if rep.Ignored > 0 {
		logger.Logf(logger.Allow, "flow", "%d spawner markers ignored", rep.Ignored)
	}

	m.display.ClearScreens(uint8(tile.Empty))
	m.display.SetMulticolour(true, spec.Black, spec.Gray1, spec.Yellow)
	m.display.FillColour(0, grid.LiveSize, spec.LightRed)
	m.display.FillColour(grid.LiveSize, grid.Size, spec.Red)
	m.display.SetBorder(spec.Black)
	m.display.WriteBank(video.Bank(m.Sync.Active(), m.Sync.Phase()))

	logger.Log(logger.Allow, "flow", rep)

	return rep, nil
}

// sanitise changes border cells with a direction into walls. The resource
// bit is preserved. Returns the number of cells changed.
func (m *Machine) sanitise() int {
	var n int
	for i := range uint16(grid.Size) {
		x, y := grid.Coords(i)
		if grid.Interior(x, y) {
			continue // for loop
		}
		t := m.Grid.At(i)
		if t.Direction() == tile.None {
			continue // for loop
		}
		w := tile.Wall
		if tile.HasResource(t) {
			w = tile.SetResource(w)
		}
		m.Grid.Put(i, w)
		n++
	}
	return n
}

// Interrupt implements the hardware.Handler interface. Returns true if the
// interrupt was the end of frame interrupt.
//
// On the split interrupt the status row is switched to the text character
// bank. On the frame interrupt the bank register is set to display the
// active screen with the character bank for the current animation phase.
// When the frame interrupt flips the active screen the status row is moved
// to the new active screen at the same time, so that it is never drawn from
// the screen the main loop is about to write.
func (m *Machine) Interrupt() (bool, error) {
	tk, err := m.Sync.Interrupt()
	if err != nil {
		return true, fmt.Errorf("flow: %w", err)
	}

	if tk.Event == framesync.Split {
		m.display.WriteBank(video.Bank(tk.Active, video.TextCharset))
		return false, nil
	}

	// the border shows the time spent in the frame interrupt
	m.display.SetBorder(spec.LightGreen)
	m.display.WriteBank(video.Bank(tk.Active, tk.Phase))
	if tk.Granted {
		m.display.LatchStatus(video.Bank(tk.Active, video.TextCharset))
	}
	m.display.SetBorder(spec.Black)

	return true, nil
}

// Step runs the entity pass followed by the spawner pass
func (m *Machine) Step() (entity.Result, spawner.Result) {
	ent := m.Entities.Step(&m.Grid)
	spn := m.Spawners.Tick(&m.Grid, &m.Entities)
	return ent, spn
}

// Frame is a single iteration of the main loop. It should only be called
// when the main loop has permission to run, ie. when Sync.Ready() is true.
//
// The simulation is stepped, the grid is copied to the inactive screen
// buffer, the status row is written and the done flag is set.
func (m *Machine) Frame() trace.Record {
	counter := m.Sync.Frame()

	ent, spn := m.Step()

	scr := m.display.Screen(m.Sync.Inactive())
	m.Grid.CopyLive(scr)

	// frame counter wraps so the subtraction is performed on uint8
	elapsed := m.Sync.Frame() - counter
	m.writeStatus(scr[grid.LiveSize:], elapsed)

	m.frames++
	m.last = trace.Record{
		Frame:           m.frames,
		Counter:         counter,
		Elapsed:         elapsed,
		Entities:        m.Entities.Count,
		Spawners:        m.Spawners.Count,
		Moved:           ent.Moved,
		Blocked:         ent.Blocked,
		Resting:         ent.Resting,
		Spawned:         spn.Spawned,
		SkippedFull:     spn.SkippedFull,
		SkippedOccupied: spn.SkippedOccupied,
	}

	if m.tracer != nil {
		m.tracer.Push(m.last)
	}

	m.Sync.Done()

	return m.last
}

// writeStatus writes the status row without allocating
func (m *Machine) writeStatus(row []uint8, elapsed uint8) {
	b := m.scratch[:0]
	b = append(b, "TICKS "...)
	b = strconv.AppendUint(b, uint64(elapsed), 10)
	b = append(b, " ENTITIES "...)
	b = strconv.AppendUint(b, uint64(m.Entities.Count), 10)
	b = append(b, " SPAWNERS "...)
	b = strconv.AppendUint(b, uint64(m.Spawners.Count), 10)

	m.status.Reset(row)
	_, _ = m.status.Write(b)
	m.status.Pad()
}

// Run is the main loop. It waits for permission to run a frame, runs the
// frame and then waits again.
//
// Returns framesync.ErrStopped if Sync.Stop() is called and
// framesync.ErrDeadlineOverrun if the interrupt side has halted.
func (m *Machine) Run() error {
	for {
		if err := m.Sync.Wait(); err != nil {
			return fmt.Errorf("flow: %w", err)
		}
		m.Frame()
	}
}

// Last returns the record for the most recent frame
func (m *Machine) Last() trace.Record {
	return m.last
}

// Frames returns the number of frames run since Bootstrap()
func (m *Machine) Frames() uint64 {
	return m.frames
}

// Check that the number of cells with the resource bit set is equal to the
// number of entities and that every entity is on a cell with the bit set
func (m *Machine) Check() error {
	if n := m.Grid.CountResources(); n != m.Entities.Count {
		return fmt.Errorf("%w: %d resource cells and %d entities", ErrInvariant, n, m.Entities.Count)
	}
	for i := range m.Entities.Count {
		e := m.Entities.Get(i)
		if !tile.HasResource(m.Grid.At(e.Index)) {
			return fmt.Errorf("%w: entity %d at %s has no resource", ErrInvariant, i, e)
		}
	}
	return nil
}

func (m *Machine) String() string {
	return fmt.Sprintf("%d frames: %d entities, %d spawners. %s",
		m.frames, m.Entities.Count, m.Spawners.Count, m.Sync.String())
}
