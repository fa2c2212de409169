package debugger

import "github.com/charmbracelet/lipgloss"

type styles struct {
	sim      lipgloss.Style
	sync     lipgloss.Style
	video    lipgloss.Style
	trace    lipgloss.Style
	err      lipgloss.Style
	halt     lipgloss.Style
	watch    lipgloss.Style
	debugger lipgloss.Style
}

// ANSI Color reference
// 0	Black
// 1	Red
// 2	Green
// 3	Yellow
// 4	Blue
// 5	Magenta
// 6	Cyan
// 7	White
// 8	Bright Black (Gray)
// 9	Bright Red
// 10	Bright Green
// 11	Bright Yellow
// 12	Bright Blue
// 13	Bright Magenta
// 14	Bright Cyan
// 15	Bright White

// the renderer decides whether colour codes are included in the output
func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		sim:      r.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(3)),
		sync:     r.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(4)),
		video:    r.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(6)),
		trace:    r.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(5)),
		err:      r.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(1)),
		halt:     r.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(11)).Background(lipgloss.ANSIColor(1)),
		watch:    r.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(4)),
		debugger: r.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(2)),
	}
}
