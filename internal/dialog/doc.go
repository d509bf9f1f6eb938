// Package dialog implements the step state machine of the modal form.
//
// A Dialog owns the form data, the displayed field errors, the current step
// and the submitting flag. Presentation code reads these through accessors
// and reports user intent through Next, Previous, UpdateField, BeginSubmit
// and Close.
//
// # Transitions
//
//	closed --Open--> step 1 --Next(valid)--> step 2 --Next(valid)--> step 3
//	step 3 --Previous--> step 2 --Previous--> step 1
//	step 3 --BeginSubmit(valid)--> submitting --FinishSubmit(ok)--> closed
//	submitting --FinishSubmit(err)--> step 3 with FailureNotice
//	any --Close--> closed (data, errors and step reset)
//
// # Asynchronous submission
//
// BeginSubmit hands back a *Submission whose Context is canceled if the
// dialog is closed first. The caller runs the effect anywhere (a tea.Cmd
// goroutine for the TUI) and reports the outcome on the dialog's goroutine
// with FinishSubmit. Outcomes for a canceled or superseded submission are
// discarded.
package dialog
