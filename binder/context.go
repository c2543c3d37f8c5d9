package binder

import (
	"github.com/refaktor/newtypegen/config"
	"github.com/refaktor/newtypegen/logger"
)

type Options struct {
	// Logger receives diagnostics. Defaults to a no-op logger.
	Logger *logger.Logger
}

// Immutable
type Context struct {
	Config *config.Config
	Logger *logger.Logger
}

func NewContext(cfg *config.Config, opts Options) *Context {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Context{
		Config: cfg,
		Logger: log,
	}
}

// WrapperName returns the scripting-side name of a configured type.
func (ctx *Context) WrapperName(typ string) string {
	return ctx.Config.WrapperPrefix + typ
}
