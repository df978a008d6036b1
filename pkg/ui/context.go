// Package ui holds the small amount of host-facing plumbing the CLI needs
// that isn't itself part of the emulator core: a verbosity-aware run
// context (ported from the teacher's application context) and a display
// formatter for tabular dumps.
package ui

import (
	"context"
	"fmt"
	"time"
)

// Context holds CLI-wide output preferences and a progress hook, the same
// shape the teacher's own app.Context carries.
type Context struct {
	context.Context

	OutputFormat string
	Verbose      bool
	Quiet        bool
	NoColor      bool

	DefaultTimeout time.Duration

	ProgressCallback func(message string, percent int)
}

// NewContext creates a Context with a background root and a 30s default
// timeout.
func NewContext() *Context {
	return &Context{
		Context:        context.Background(),
		DefaultTimeout: 30 * time.Second,
	}
}

// WithTimeout derives a child Context with a deadline.
func (c *Context) WithTimeout(timeout time.Duration) (*Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(c.Context, timeout)
	newCtx := *c
	newCtx.Context = ctx
	return &newCtx, cancel
}

// WithCancel derives a cancellable child Context.
func (c *Context) WithCancel() (*Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(c.Context)
	newCtx := *c
	newCtx.Context = ctx
	return &newCtx, cancel
}

// SetProgress installs the progress callback.
func (c *Context) SetProgress(callback func(string, int)) {
	c.ProgressCallback = callback
}

// Progress reports progress if a callback is set.
func (c *Context) Progress(message string, percent int) {
	if c.ProgressCallback != nil {
		c.ProgressCallback(message, percent)
	}
}

// Log prints message when verbose output is on and quiet is off.
func (c *Context) Log(message string) {
	if !c.Quiet && c.Verbose {
		fmt.Println(message)
	}
}

// Errorf prints a formatted error message unless quiet.
func (c *Context) Errorf(format string, args ...any) {
	if !c.Quiet {
		fmt.Printf("Error: "+format+"\n", args...)
	}
}
