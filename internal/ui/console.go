// Package ui prints the human-readable progress lines and summaries of the
// extract and audit commands. Nothing parses this output.
package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Console writes progress lines to out. Safe for concurrent use.
type Console struct {
	out     io.Writer
	noColor bool
	mu      sync.Mutex
}

// NewConsole creates a console. noColor forces plain output; color is also off
// when out is not a terminal.
func NewConsole(out io.Writer, noColor bool) *Console {
	return &Console{out: out, noColor: noColor || color.NoColor}
}

func (c *Console) line(attr color.Attribute, prefix, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.noColor {
		fmt.Fprintf(c.out, "%s %s\n", prefix, msg)
		return
	}
	col := color.New(attr)
	col.EnableColor()
	col.Fprintf(c.out, "%s %s\n", prefix, msg)
}

// Processing announces work on one item.
func (c *Console) Processing(label string) {
	c.line(color.FgCyan, "→", "Processing %s", label)
}

func (c *Console) Skipped(label, reason string) {
	c.line(color.FgHiBlack, "-", "Skipped %s: %s", label, reason)
}

func (c *Console) Success(label, detail string) {
	c.line(color.FgGreen, "✓", "%s: %s", label, detail)
}

func (c *Console) Warning(label, msg string) {
	c.line(color.FgYellow, "⚠", "%s: %s", label, msg)
}

func (c *Console) Error(label string, err error) {
	c.line(color.FgRed, "✗", "%s: %v", label, err)
}

func (c *Console) Info(format string, args ...any) {
	c.line(color.FgBlue, "ℹ", format, args...)
}

// Stat is one row of a summary block.
type Stat struct {
	Label string
	Value any
}

// Summary prints a titled block of aligned label/value rows.
func (c *Console) Summary(title string, stats ...Stat) {
	width := 0
	for _, s := range stats {
		if len(s.Label) > width {
			width = len(s.Label)
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n%s\n", title, strings.Repeat("=", len(title)))
	for _, s := range stats {
		fmt.Fprintf(&b, "  %-*s  %v\n", width+1, s.Label+":", s.Value)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.noColor {
		io.WriteString(c.out, b.String())
		return
	}
	col := color.New(color.Bold)
	col.EnableColor()
	col.Fprint(c.out, b.String())
}

// Writer exposes the underlying writer for callers that render their own blocks
// (e.g. tables).
func (c *Console) Writer() io.Writer {
	return c.out
}
