// Package ui renders the output of stepdialog's one-shot commands.
//
// Unlike the full-screen form in internal/wizard/tui, these components print
// once and exit. They are used by `check`, `send` and `config`:
//
//   - Header: command banner showing the operation and its inputs
//   - Progress: step list with a progress bar
//   - Result: success, failure or warning box
//   - RawBox: unstyled text such as the JSON payload in verbose mode
//
// TaskRunner strings these together for commands that work in steps:
//
//	runner := ui.NewTaskRunner(ui.TaskConfig{
//	    Title:   "Form Submission",
//	    Command: "stepdialog send --file form.yaml",
//	    Steps:   []string{"Load form", "Validate", "Submit"},
//	})
//
//	_, err := runner.Run(ctx, func(ctx context.Context, onStep ui.StepCallback) ([]ui.Param, error) {
//	    onStep(1, ui.StepRunning, "")
//	    // ... do work ...
//	    onStep(1, ui.StepComplete, "")
//	    return nil, nil
//	})
//
// Errors implementing Issuer, such as *form.ValidationError, are listed one
// line per problem in the failure box.
//
// Logging stays silent unless STEPDIALOG_LOG_LEVEL or log.level is set, so
// zap output does not interleave with the boxes.
package ui
