package ui

import (
	"image"
)

// State of the machine as seen by the frontend
type State int

// List of valid State values
const (
	StatePaused State = iota
	StateRunning
	StateHalted
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateHalted:
		return "halted"
	}
	return "paused"
}

// the number of cells in a Frame
const Cells = 1000

// Frame is a single rendered frame of the display. Frontends can use the
// rendered image or the character cells, whichever is most suitable.
type Frame struct {
	Main *image.RGBA

	// the screen codes and colours of every character cell as displayed
	Screen [Cells]uint8
	Colour [Cells]uint8

	// the character bank used for each cell. the text bank is indicated by
	// the value TextBank
	Bank [Cells]uint8

	Border     uint8
	Background uint8

	// identifier of the frame. frontends can use this to skip frames they
	// have already seen
	ID string
}

// the Bank value for cells drawn using the text character bank
const TextBank = 0xff

type UI struct {
	SetImage  chan Frame
	State     chan State
	UserInput chan Input
}

func NewUI() *UI {
	return &UI{
		SetImage:  make(chan Frame, 1),
		State:     make(chan State, 1),
		UserInput: make(chan Input, 1),
	}
}
