package debugger

import (
	"github.com/jetsetilly/tileflow/config"
	"github.com/jetsetilly/tileflow/hardware/spec"
	"github.com/jetsetilly/tileflow/logger"
)

type context struct {
	cfg config.Config
}

// Spec implements the hardware.Context interface
func (ctx *context) Spec() spec.Spec {
	s, err := spec.Lookup(ctx.cfg.Spec)
	if err != nil {
		logger.Log(logger.Allow, "debugger", err)
		return spec.PAL
	}
	return s
}
