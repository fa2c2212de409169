package debugger

import (
	"fmt"
	"strconv"
	"strings"
)

// the maximum number of raster frames in a single STEP. prevents a step rule
// that can never be satisfied from hanging the debugger
const stepLimit = 100000

func (m *debugger) parseStepRule(cmd []string) bool {
	rule := strings.ToUpper(cmd[0])

	switch rule {
	case "FRAME", "FR":
		// step until the main loop has completed a frame
		tgt := m.machine.Frames() + 1
		m.stepRule = func() bool {
			return m.machine.Frames() >= tgt
		}
		m.postStep = func() {
			fmt.Fprintln(m.out, m.styles.sim.Render(m.machine.Last().String()))
		}

	case "PHASE", "PH":
		// step until the animation phase changes
		phase := m.machine.Sync.Phase()
		m.stepRule = func() bool {
			return m.machine.Sync.Phase() != phase
		}

	case "SPAWN", "SP":
		// step until a spawner has created an entity
		tgt := m.machine.Frames()
		m.stepRule = func() bool {
			return m.machine.Frames() > tgt && m.machine.Last().Spawned > 0
		}
		m.postStep = func() {
			fmt.Fprintln(m.out, m.styles.sim.Render(m.machine.Entities.String()))
		}

	default:
		n, err := strconv.Atoi(rule)
		if err != nil || n < 1 {
			fmt.Fprintln(m.out, m.styles.err.Render(
				fmt.Sprintf("STEP %s is unsupported", rule),
			))
			return false
		}
		m.stepRule = func() bool {
			n--
			return n <= 0
		}
	}

	return true
}
