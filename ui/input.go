package ui

type Action int

type Input struct {
	Action  Action
	Release bool
}

const (
	Nothing Action = iota
	Pause
	Step
	Reset
	Quit
)

func (a Action) String() string {
	switch a {
	case Pause:
		return "PAUSE"
	case Step:
		return "STEP"
	case Reset:
		return "RESET"
	case Quit:
		return "QUIT"
	}
	return ""
}
