// Package ui writes the colored, line-oriented console output shared by the
// generator and the CLI commands. Color is dropped automatically when the
// output is not a terminal.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)

	titler = cases.Title(language.English)
)

// Printer writes progress to Out and failures to Err.
type Printer struct {
	Out io.Writer
	Err io.Writer
}

// New returns a Printer. Nil writers default to the process streams.
func New(out, errOut io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &Printer{Out: out, Err: errOut}
}

// Step announces a long-running phase, surrounded by blank lines so that
// subprocess output stays readable.
func (p *Printer) Step(msg string) {
	fmt.Fprintln(p.Out)
	fmt.Fprintln(p.Out, cyan.Sprint(msg))
	fmt.Fprintln(p.Out)
}

// Infof prints a plain line.
func (p *Printer) Infof(format string, args ...any) {
	fmt.Fprintf(p.Out, format+"\n", args...)
}

// Warn prints a yellow line to Out.
func (p *Printer) Warn(msg string) {
	fmt.Fprintln(p.Out, yellow.Sprint(msg))
}

// Success prints a green line to Out.
func (p *Printer) Success(msg string) {
	fmt.Fprintln(p.Out, green.Sprint(msg))
}

// Error prints a red line to Err.
func (p *Printer) Error(msg string) {
	fmt.Fprintln(p.Err, red.Sprint(msg))
}

// Bullet prints an indented red list item to Err.
func (p *Printer) Bullet(msg string) {
	fmt.Fprintln(p.Err, red.Sprintf("  *  %s", msg))
}

// Highlight colors s for inline emphasis.
func Highlight(s string) string {
	return green.Sprint(s)
}

// Command colors a command line for inline display.
func Command(s string) string {
	return cyan.Sprint(s)
}

// Tag returns the diagnostic prefix for a check result.
func Tag(ok bool) string {
	if ok {
		return green.Sprint("[ OK ]")
	}
	return red.Sprint("[MISS]")
}

// Title upper-cases the first letter of each word, e.g. "library" → "Library".
func Title(s string) string {
	return titler.String(s)
}
