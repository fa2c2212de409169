package main

import (
	"fmt"
	"os"

	"github.com/jetsetilly/tileflow/debugger"
	"github.com/jetsetilly/tileflow/gui"
	"github.com/jetsetilly/tileflow/ui"
)

func main() {
	cfg, err := debugger.Configure(os.Args[1:])
	if err != nil {
		fmt.Printf("*** %s\n", err)
		os.Exit(10)
	}

	var endGui chan bool
	var endDebugger chan bool
	var resultDebugger chan error

	// buffered channels. this means we don't have to worry about the gui closing
	// before the debugger and vice versa
	endGui = make(chan bool, 1)
	endDebugger = make(chan bool, 1)

	// similarly, the result channel is buffered because we don't know the
	// order in which the gui and debugger will end
	resultDebugger = make(chan error, 1)

	u := ui.NewUI()

	go func() {
		resultDebugger <- debugger.Launch(endDebugger, u, cfg)
		endGui <- true
	}()

	// the gui must run on the main thread
	errGui := gui.Launch(endGui, u, cfg.Display)
	endDebugger <- true

	if errGui != nil {
		fmt.Printf("*** %s\n", errGui)
	}
	if err := <-resultDebugger; err != nil {
		fmt.Printf("*** %s\n", err)
	}
}
