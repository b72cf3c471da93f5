package audio

import (
	"log/slog"

	"github.com/gen2brain/malgo"
)

// Context owns the malgo context that playback devices are opened against.
// One context can serve any number of sequential device initializations;
// the backend creates it lazily on first play and holds it until Close.
type Context struct {
	ctx *malgo.AllocatedContext
}

// NewContext allocates a malgo context, routing its internal log lines to slog
func NewContext() (*Context, error) {
	slog.Debug("allocating playback context")

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		slog.Debug("malgo internal", "message", message)
	})
	if err != nil {
		slog.Error("failed to allocate playback context", "error", err)
		return nil, err
	}

	slog.Info("playback context ready")
	return &Context{ctx: ctx}, nil
}

// Close releases the context. Safe to call more than once.
func (c *Context) Close() error {
	if c.ctx == nil {
		slog.Debug("playback context already released")
		return nil
	}

	slog.Debug("releasing playback context")

	// malgo needs Uninit followed by Free
	err := c.ctx.Uninit()
	if err != nil {
		slog.Error("failed to uninitialize playback context", "error", err)
		return err
	}

	c.ctx.Free()
	c.ctx = nil

	slog.Info("playback context released")
	return nil
}

// Raw exposes the underlying malgo context for device initialization
func (c *Context) Raw() *malgo.AllocatedContext {
	return c.ctx
}

// IsValid reports whether the context is still open
func (c *Context) IsValid() bool {
	return c.ctx != nil
}
