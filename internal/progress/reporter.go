package progress

import (
	"fmt"
	"io"
)

// Reporter emits human-readable progress for a conversion attempt. The
// structured log carries the details; this is the terminal-facing summary.
type Reporter interface {
	// Step announces that a stage is starting or has finished normally.
	Step(format string, args ...interface{})
	// Success marks the attempt (or a stage) as succeeded.
	Success(format string, args ...interface{})
	// Warn flags a non-fatal condition, e.g. a watch that ran out of time.
	Warn(format string, args ...interface{})
	// Failure marks the attempt as failed.
	Failure(format string, args ...interface{})
}

// Console writes progress lines to a terminal.
type Console struct {
	out io.Writer
}

// NewConsole creates a Console reporter writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Step(format string, args ...interface{}) {
	c.print("", format, args)
}

func (c *Console) Success(format string, args ...interface{}) {
	c.print("✓ ", format, args)
}

func (c *Console) Warn(format string, args ...interface{}) {
	c.print("! ", format, args)
}

func (c *Console) Failure(format string, args ...interface{}) {
	c.print("✗ ", format, args)
}

func (c *Console) print(marker, format string, args []interface{}) {
	fmt.Fprintf(c.out, marker+format+"\n", args...)
}
