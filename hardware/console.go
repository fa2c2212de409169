package hardware

import (
	"github.com/jetsetilly/tileflow/hardware/spec"
	"github.com/jetsetilly/tileflow/hardware/video"
	"github.com/jetsetilly/tileflow/ui"
)

// Context allows the console to query the television specification
type Context interface {
	Spec() spec.Spec
}

type Console struct {
	ctx Context

	Video  *video.Video
	Raster *Raster
}

func Create(ctx Context, u *ui.UI) *Console {
	con := &Console{
		ctx:   ctx,
		Video: video.Create(ctx, u),
	}
	con.Raster = &Raster{
		video: con.Video,
		limit: newLimiter(ctx.Spec()),
	}
	return con
}

// Attach the handler that will be called for every raster interrupt
func (con *Console) Attach(h Handler) {
	con.Raster.handler = h
}

// Reset the video and the raster. The handler remains attached
func (con *Console) Reset() {
	con.Video.Reset()
	con.Raster.Reset()
	con.Raster.limit.Reset(con.ctx.Spec())
}

// Run the raster in real time until a value is received on the stop channel
func (con *Console) Run(stop chan bool) error {
	con.Raster.limit.Reset(con.ctx.Spec())
	return con.Raster.Run(stop)
}

// Frame services the interrupts for a single frame without waiting
func (con *Console) Frame() error {
	return con.Raster.Frame()
}

// Nudge causes the raster to stop waiting for the next frame
func (con *Console) Nudge() {
	con.Raster.limit.Nudge()
}
