// Package logging provides structured logging for stepdialog.
//
// This package wraps a global zap logger with convenience functions. Logging
// is silent unless a level is configured, so command output and the
// full-screen dialog are never interleaved with log lines by accident.
//
// # Log Levels
//
//   - Debug: step transitions, passed validations
//   - Info: failed validations, submission start/success
//   - Warn: submission failures, unexpected validator errors
//   - Error: startup failures
//
// # Configuration
//
// Initialize once at startup:
//
//	if err := logging.Initialize(cfg.Log.Level, cfg.Log.File); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// The full-screen UI owns the terminal, so it should log to a file. Line mode
// commands may log to stderr (the default when the output is empty).
//
// # Domain Helpers
//
//	logging.LogTransition(dialogID, "next", form.StepPersonalInfo, form.StepContactInfo)
//	logging.LogValidation(dialogID, form.StepContactInfo, errs.Keys())
//	logging.LogSubmit(dialogID, submissionID, "started")
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. Initialize and SetLogger
// are not and must run before other goroutines log.
package logging
