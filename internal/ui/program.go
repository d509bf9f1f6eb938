package ui

import (
	"fmt"
	"io"
	"os"
)

// Printer writes styled components to a writer.
// Commands that finish in one pass print through it.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a Printer for w, or os.Stdout when w is nil
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// WithWidth overrides the detected terminal width
func (p *Printer) WithWidth(width int) *Printer {
	p.width = width
	return p
}

// Width returns the width used for rendering
func (p *Printer) Width() int {
	return p.width
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box followed by a blank line
func (p *Printer) PrintHeader(title, command string, params ...Param) {
	p.Println(NewHeader(title, command, params...).SetWidth(p.width).Render())
	p.Newline()
}

// PrintResult prints any result box at the printer's width
func (p *Printer) PrintResult(r *Result) {
	p.Println(r.SetWidth(p.width).Render())
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details ...Param) {
	p.PrintResult(NewSuccessResult(title, details...))
}

// PrintError prints a failure box with hints
func (p *Printer) PrintError(title string, err error, hints ...string) {
	p.PrintResult(NewFailureResult(title, err, hints...))
}

// PrintIssues prints a failure box listing one problem per line
func (p *Printer) PrintIssues(title string, issues []string, details ...Param) {
	r := NewFailureResult(title, nil)
	r.Details = details
	r.Issues = issues
	p.PrintResult(r)
}

// PrintWarning prints a warning result box
func (p *Printer) PrintWarning(title string, details ...Param) {
	p.PrintResult(NewWarningResult(title, details...))
}

// PrintRaw prints a raw output box
func (p *Printer) PrintRaw(title, content string) {
	p.Println(RenderRawBox(title, content, p.width))
}
