//go:build !wasm

package ebiten

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jetsetilly/tileflow/resources"
)

// the name of the file in the resources directory that stores the window
// geometry between sessions
const windowFile = "window"

func onWindowOpen() (windowGeometry, error) {
	var geom windowGeometry

	s, err := resources.Read(windowFile)
	if err != nil {
		return geom, err
	}
	if s == "" {
		return geom, nil
	}

	_, err = fmt.Sscanf(s, "%d %d %d %d", &geom.x, &geom.y, &geom.w, &geom.h)
	if err != nil {
		return geom, fmt.Errorf("%s: %w", windowFile, err)
	}

	if geom.valid() {
		ebiten.SetWindowPosition(geom.x, geom.y)
		ebiten.SetWindowSize(geom.w, geom.h)
	}

	return geom, nil
}

func onWindowClose(geom windowGeometry) error {
	if !geom.valid() {
		return nil
	}
	s := fmt.Sprintf("%d %d %d %d", geom.x, geom.y, geom.w, geom.h)
	return resources.Write(windowFile, s)
}
