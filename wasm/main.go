package main

import (
	"os"

	"github.com/jetsetilly/tileflow/assets"
	"github.com/jetsetilly/tileflow/flow"
	"github.com/jetsetilly/tileflow/gui/ebiten"
	"github.com/jetsetilly/tileflow/hardware"
	"github.com/jetsetilly/tileflow/hardware/spec"
	"github.com/jetsetilly/tileflow/logger"
	"github.com/jetsetilly/tileflow/ui"
)

type context struct{}

func (ctx *context) Spec() spec.Spec {
	return spec.PAL
}

// machine runs the demo map in real time. Pause stops and starts the
// machine and Reset restarts it
type machine struct {
	con  *hardware.Console
	flow *flow.Machine
	u    *ui.UI

	stop    chan bool
	ended   chan error
	raster  chan error
	running bool
}

func newMachine(u *ui.UI) *machine {
	m := &machine{u: u}
	m.con = hardware.Create(&context{}, u)
	m.flow = flow.NewMachine(m.con.Video)
	m.con.Attach(m.flow)
	return m
}

func (m *machine) reset() error {
	if err := m.con.Video.LoadTileset(assets.DemoTileset()); err != nil {
		return err
	}
	m.con.Reset()
	_, err := m.flow.Bootstrap(assets.DemoMap())
	return err
}

func (m *machine) start() {
	m.flow.Sync.Resume()
	m.stop = make(chan bool, 1)
	m.ended = make(chan error, 1)
	m.raster = make(chan error, 1)
	go func() {
		m.ended <- m.flow.Run()
	}()
	go func() {
		m.raster <- m.con.Run(m.stop)
	}()
	m.running = true
	m.u.State <- ui.StateRunning
}

// halt stops the raster and then the main loop. Neither goroutine is running
// when halt returns
func (m *machine) halt() {
	m.stop <- true
	if err := <-m.raster; err != nil {
		logger.Log(logger.Allow, "wasm", err)
	}
	m.flow.Sync.Stop()
	<-m.ended
	m.running = false
	m.u.State <- ui.StatePaused
}

func (m *machine) loop() {
	for inp := range m.u.UserInput {
		switch inp.Action {
		case ui.Pause:
			if m.running {
				m.halt()
			} else {
				m.start()
			}
		case ui.Reset:
			if m.running {
				m.halt()
			}
			if err := m.reset(); err != nil {
				logger.Log(logger.Allow, "wasm", err)
				continue // for loop
			}
			m.start()
		}
	}
}

func main() {
	// logger messages will be viewable in javascript log for WASM build
	logger.SetEcho(os.Stderr, false)

	u := ui.NewUI()

	m := newMachine(u)

	if err := m.reset(); err != nil {
		logger.Log(logger.Allow, "wasm", err)
		return
	}
	m.start()

	go m.loop()

	if err := ebiten.Launch(nil, u); err != nil {
		logger.Log(logger.Allow, "wasm", err)
	}
}
