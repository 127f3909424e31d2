// Package terminal renders build status for a developer watching the console.
package terminal

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"git.home.luguber.info/inful/sitewatch/internal/diagnostics"
)

// clearSequence erases the screen and homes the cursor.
const clearSequence = "\x1b[2J\x1b[0f"

// Fixed status lines.
const (
	CompilingLine = "Compiling..."
	SuccessLine   = "Compiled successfully!"
	FailureLine   = "Failed to compile."
	WarningLine   = "Compiled with warnings."
	HintLead      = "You may use special comments to disable some warnings."
)

// Directives mentioned by the warning hints.
const (
	nextLineDirective = "// eslint-disable-next-line"
	fileDirective     = "/* eslint-disable */"
)

// Display writes status lines and diagnostic blocks to one writer.
// Colors are decided by the writer: plain buffers and pipes get no escapes.
type Display struct {
	out   io.Writer
	clear bool

	green  lipgloss.Style
	red    lipgloss.Style
	yellow lipgloss.Style
}

// Option configures a Display.
type Option func(*Display)

// WithoutClear keeps earlier output on screen between cycles.
func WithoutClear() Option {
	return func(d *Display) { d.clear = false }
}

// New creates a Display writing to out.
func New(out io.Writer, opts ...Option) *Display {
	r := lipgloss.NewRenderer(out)
	d := &Display{
		out:    out,
		clear:  true,
		green:  r.NewStyle().Foreground(lipgloss.Color("2")),
		red:    r.NewStyle().Foreground(lipgloss.Color("1")),
		yellow: r.NewStyle().Foreground(lipgloss.Color("3")),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Clear wipes the screen unless disabled.
func (d *Display) Clear() {
	if d.clear {
		d.write(clearSequence)
	}
}

// Compiling announces that a rebuild started.
func (d *Display) Compiling() {
	d.write(CompilingLine + "\n")
}

// Report prints the outcome of a finished build.
func (d *Display) Report(r diagnostics.Report) {
	var b strings.Builder
	switch r.Status {
	case diagnostics.StatusSuccess:
		b.WriteString(d.green.Render(SuccessLine) + "\n\n")
	case diagnostics.StatusErrors:
		b.WriteString(d.red.Render(FailureLine) + "\n\n")
		for _, msg := range r.Errors {
			b.WriteString("Error in " + msg + "\n\n")
		}
	case diagnostics.StatusWarnings:
		b.WriteString(d.yellow.Render(WarningLine) + "\n\n")
		for _, msg := range r.Warnings {
			b.WriteString("Warning in " + msg + "\n\n")
		}
		b.WriteString(HintLead + "\n")
		for _, hint := range d.hints() {
			b.WriteString(hint + "\n")
		}
	}
	d.write(b.String())
}

// hints are the two suppression hints printed after warnings.
func (d *Display) hints() []string {
	return []string{
		"Use " + d.yellow.Render(nextLineDirective) + " to ignore the next line.",
		"Use " + d.yellow.Render(fileDirective) + " to ignore all warnings in a file.",
	}
}

func (d *Display) write(s string) {
	// Terminal write failures have nowhere better to go.
	_, _ = io.WriteString(d.out, s)
}
