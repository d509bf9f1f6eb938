// Package tui implements the full-screen terminal interface for stepdialog.
//
// Built using the Bubble Tea framework, it follows the Elm architecture with
// value-type models and a Model-Update-View pattern. The form state itself
// lives in a dialog.Dialog; this package only renders it and translates key
// presses into dialog operations.
//
// # Architecture
//
//   - AppModel: the host screen ("enter: フォームを開く") and the success toast
//   - FormModel: the modal, drawn centered over a dimmed backdrop
//
// # Framework Components
//
//   - bubbles/textinput: name, address and phone entry
//   - bubbles/spinner: shown next to "送信中..." while submitting
//   - bubbles/help and bubbles/key: context-aware key bindings
//   - lipgloss: styling, the step indicator and modal placement
//
// # Usage Example
//
//	app := tui.NewAppModel(submit.NewDelay(0))
//	program := tea.NewProgram(app, tea.WithAltScreen())
//
//	if _, err := program.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Key Bindings
//
//   - Host: enter open the form, q quit
//   - Modal: tab/shift+tab move focus, space toggle the agreement checkbox,
//     enter next step or submit, ctrl+b previous step, esc cancel
//   - While submitting only esc (cancel the submission) and ctrl+c act
//
// # Regions
//
// Regions returns the plain text of each identifiable part of the modal
// (firstName-input, phone-error, confirmation-agreement, ...) so tests and
// automation can inspect the screen without parsing ANSI output.
//
// # Thread Safety
//
// Bubble Tea delivers every message on one goroutine. Submissions run as a
// tea.Cmd and report back with a message, so the Dialog is only touched from
// the update loop.
package tui
