package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jetsetilly/tileflow/assets"
	"github.com/jetsetilly/tileflow/flow/framesync"
	"github.com/jetsetilly/tileflow/flow/grid"
	"github.com/jetsetilly/tileflow/flow/tile"
	"github.com/jetsetilly/tileflow/logger"
)

// frames that took a full animation cycle are reported by the TRACE command
const traceDeadline = framesync.PhaseFrames * framesync.Phases

// returns true if debugger is to quit
func (m *debugger) commands(cmd []string) bool {
	if len(cmd) == 0 {
		return false
	}

	switch strings.ToUpper(cmd[0]) {
	case "R", "RUN":
		return m.run()

	case "ST", "STEP":
		if len(cmd) > 1 {
			if !m.parseStepRule(cmd[1:]) {
				break // switch
			}
		}
		return m.step()

	case "RESET":
		if err := m.reset(); err != nil {
			fmt.Fprintln(m.out, m.styles.err.Render(err.Error()))
		}

	case "GRID":
		fmt.Fprintln(m.out, m.styles.sim.Render(m.machine.Grid.String()))

	case "ENTITIES", "ENT":
		fmt.Fprintln(m.out, m.styles.sim.Render(m.machine.Entities.String()))

	case "SPAWNERS", "SPN":
		fmt.Fprintln(m.out, m.styles.sim.Render(m.machine.Spawners.String()))

	case "SYNC":
		fmt.Fprintln(m.out, m.styles.sync.Render(m.machine.Sync.String()))

	case "VIDEO":
		fmt.Fprintln(m.out, m.styles.video.Render(m.console.Video.String()))

	case "LAST":
		fmt.Fprintln(m.out, m.styles.sim.Render(m.machine.Last().String()))

	case "CHECK":
		if err := m.machine.Check(); err != nil {
			fmt.Fprintln(m.out, m.styles.err.Render(err.Error()))
			break // switch
		}
		fmt.Fprintln(m.out, m.styles.debugger.Render("resource invariant holds"))

	case "CELL":
		x, y, ok := m.parseCoords("CELL", cmd[1:])
		if !ok {
			break // switch
		}
		fmt.Fprintln(m.out, m.styles.sim.Render(
			fmt.Sprintf("(%d,%d) = %s", x, y, m.machine.Grid.Get(x, y)),
		))

	case "WATCH":
		if len(cmd) < 2 {
			fmt.Fprintln(m.out, m.styles.err.Render(
				"WATCH requires a column and a row",
			))
			break // switch
		}

		// we check the first argument for special keywords before assuming
		// it is a coordinate. the keywords are case insensitive
		arg := strings.ToUpper(cmd[1])

		if arg == "DROP" {
			if len(cmd) > 2 && strings.ToUpper(cmd[2]) == "ALL" {
				clear(m.watches)
				break // switch
			}
			x, y, ok := m.parseCoords("WATCH DROP", cmd[2:])
			if !ok {
				break // switch
			}
			idx := grid.Index(x, y)
			if _, ok := m.watches[idx]; !ok {
				fmt.Fprintln(m.out, m.styles.debugger.Render(
					fmt.Sprintf("watch for (%d,%d) not present", x, y),
				))
				break // switch
			}
			delete(m.watches, idx)
			fmt.Fprintln(m.out, m.styles.debugger.Render(
				fmt.Sprintf("watch for (%d,%d) has been removed", x, y),
			))
			break // switch
		}

		if arg == "LIST" {
			if len(m.watches) == 0 {
				fmt.Fprintln(m.out, "none")
			}
			for _, w := range m.watches {
				fmt.Fprintf(m.out, "(%d,%d) %s\n", w.x, w.y, w.data)
			}
			break // switch
		}

		x, y, ok := m.parseCoords("WATCH", cmd[1:])
		if !ok {
			break // switch
		}
		idx := grid.Index(x, y)
		if _, ok := m.watches[idx]; ok {
			fmt.Fprintln(m.out, m.styles.err.Render(
				fmt.Sprintf("watch for (%d,%d) already present", x, y),
			))
			break // switch
		}
		m.watches[idx] = watch{
			x:    x,
			y:    y,
			idx:  idx,
			data: tile.Logical(m.machine.Grid.At(idx)),
		}
		fmt.Fprintln(m.out, m.styles.debugger.Render(
			fmt.Sprintf("added watch for (%d,%d)", x, y),
		))

	case "TRACE":
		if m.tap == nil {
			fmt.Fprintln(m.out, m.styles.debugger.Render("frame trace is not enabled"))
			break // switch
		}
		pushed, dropped := m.tap.Stats()
		fmt.Fprintln(m.out, m.styles.trace.Render(
			fmt.Sprintf("%d records queued. %d dropped", pushed, dropped),
		))
		if m.index == nil {
			break // switch
		}
		sum, err := m.index.Summarise()
		if err != nil {
			fmt.Fprintln(m.out, m.styles.err.Render(err.Error()))
			break // switch
		}
		fmt.Fprintln(m.out, m.styles.trace.Render(sum.String()))
		frames, err := m.index.Overruns(traceDeadline)
		if err != nil {
			fmt.Fprintln(m.out, m.styles.err.Render(err.Error()))
			break // switch
		}
		if len(frames) > 0 {
			fmt.Fprintln(m.out, m.styles.trace.Render(
				fmt.Sprintf("frames at the deadline: %v", frames),
			))
		}

	case "SAVE":
		if len(cmd) < 2 {
			fmt.Fprintln(m.out, m.styles.err.Render(
				"SAVE requires a filename",
			))
			break // switch
		}
		snap := m.machine.Grid.Snapshot()
		data := make([]uint8, len(snap))
		for i, t := range snap {
			data[i] = uint8(tile.Logical(t))
		}
		if err := assets.Save(cmd[1], data); err != nil {
			fmt.Fprintln(m.out, m.styles.err.Render(err.Error()))
			break // switch
		}
		fmt.Fprintln(m.out, m.styles.debugger.Render(
			fmt.Sprintf("map saved to %s", cmd[1]),
		))

	case "CONFIG":
		fmt.Fprintln(m.out, m.styles.debugger.Render(m.ctx.cfg.String()))

	case "LOG":
		logger.Tail(m.out, -1)

	case "HELP":
		fmt.Fprintln(m.out, help)

	case "QUIT":
		return true

	default:
		fmt.Fprintln(m.out, m.styles.err.Render(
			fmt.Sprintf("unrecognised command: %s", strings.Join(cmd, " ")),
		))
	}

	return false
}

const help = `RUN                  run in real time until interrupted
STEP [n|FRAME|PHASE|SPAWN]
                     step one or more raster frames
RESET                reload the map and restart
GRID                 print the map
CELL x y             print a single map cell
ENTITIES             print the entity table
SPAWNERS             print the spawner table
SYNC                 print the state of the frame handshake
VIDEO                print the video registers
LAST                 print the record of the most recent frame
CHECK                check the resource invariant
WATCH x y            stop when a map cell changes (DROP x y, DROP ALL, LIST)
TRACE                summarise the frame trace
SAVE file            save the map
CONFIG               print the configuration
LOG                  print the log
QUIT                 quit`

// parseCoords parses a column and row from the arguments
func (m *debugger) parseCoords(name string, args []string) (int, int, bool) {
	if len(args) < 2 {
		fmt.Fprintln(m.out, m.styles.err.Render(
			fmt.Sprintf("%s requires a column and a row", name),
		))
		return 0, 0, false
	}
	x, errx := strconv.Atoi(args[0])
	y, erry := strconv.Atoi(args[1])
	if errx != nil || erry != nil {
		fmt.Fprintln(m.out, m.styles.err.Render(
			fmt.Sprintf("%s: not a valid coordinate: %s %s", name, args[0], args[1]),
		))
		return 0, 0, false
	}
	if x < 0 || x >= grid.Width || y < 0 || y >= grid.Height {
		fmt.Fprintln(m.out, m.styles.err.Render(
			fmt.Sprintf("%s: (%d,%d) is outside the map", name, x, y),
		))
		return 0, 0, false
	}
	return x, y, true
}
