package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// TaskConfig holds configuration for a command that runs in steps
type TaskConfig struct {
	Title   string    // e.g., "Form Submission"
	Command string    // e.g., "stepdialog send --file form.yaml"
	Params  []Param   // Shown in the header
	Steps   []string  // Step names, in order
	Hints   []string  // Shown in the failure box
	Verbose bool      // Print raw output after the result
	Output  io.Writer // Defaults to os.Stdout
	Width   int       // Defaults to the terminal width
}

// Task is the work driven by a TaskRunner. It reports progress through
// onStep and returns details for the success box.
type Task func(ctx context.Context, onStep StepCallback) ([]Param, error)

// Issuer is implemented by errors that carry one line per problem,
// such as form validation failures.
type Issuer interface {
	Issues() []string
}

// TaskRunner prints a header, then each step as it settles, then a result box.
type TaskRunner struct {
	config   TaskConfig
	header   *Header
	progress *Progress
	output   io.Writer
	width    int
	rawTitle string
	raw      string
	now      func() time.Time
}

// NewTaskRunner creates a runner for one command invocation
func NewTaskRunner(config TaskConfig) *TaskRunner {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	width := config.Width
	if width == 0 {
		width = GetTerminalWidth()
	}

	return &TaskRunner{
		config:   config,
		header:   NewHeader(config.Title, config.Command, config.Params...).SetWidth(width),
		progress: NewProgress("", config.Steps...).SetWidth(width),
		output:   config.Output,
		width:    width,
		now:      time.Now,
	}
}

// SetRaw stores output printed after the result in verbose mode
func (r *TaskRunner) SetRaw(title, output string) {
	r.rawTitle = title
	r.raw = output
}

// Progress exposes the step list, mainly for tests
func (r *TaskRunner) Progress() *Progress {
	return r.progress
}

// Run executes task and renders its outcome. The task's error is returned
// unchanged so callers can map it to an exit code.
func (r *TaskRunner) Run(ctx context.Context, task Task) ([]Param, error) {
	start := r.now()

	_, _ = fmt.Fprintln(r.output, r.header.Render())
	_, _ = fmt.Fprintln(r.output)

	details, err := task(ctx, r.onStep)
	elapsed := r.now().Sub(start).Round(time.Millisecond)

	_, _ = fmt.Fprintln(r.output)
	if err != nil {
		r.printFailure(err)
	} else {
		details = append(details, Param{Key: "Duration", Value: elapsed.String()})
		result := NewSuccessResult(r.config.Title+" complete", details...).SetWidth(r.width)
		_, _ = fmt.Fprintln(r.output, result.Render())
	}

	if r.config.Verbose && r.raw != "" {
		_, _ = fmt.Fprintln(r.output)
		_, _ = fmt.Fprintln(r.output, RenderRawBox(r.rawTitle, r.raw, r.width))
	}

	return details, err
}

func (r *TaskRunner) onStep(number int, status StepStatus, message string) {
	r.progress.UpdateStep(number, status, message)
	if number < 1 || number > r.progress.Total() {
		return
	}

	line := r.progress.RenderStep(r.progress.Steps[number-1])
	switch status {
	case StepRunning:
		// Overwritten when the step settles
		_, _ = fmt.Fprint(r.output, line+"\r")
	case StepComplete, StepFailed, StepSkipped:
		_, _ = fmt.Fprintln(r.output, line)
	}
}

func (r *TaskRunner) printFailure(err error) {
	result := NewFailureResult(r.config.Title+" failed", err, r.config.Hints...).SetWidth(r.width)

	var issuer Issuer
	if errors.As(err, &issuer) {
		result.Issues = issuer.Issues()
	}

	_, _ = fmt.Fprintln(r.output, result.Render())
}
