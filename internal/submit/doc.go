// Package submit implements the asynchronous effect that finalizes a
// completed form.
//
// The dialog only cares whether a submission succeeded or failed, so every
// implementation satisfies the two-outcome Submitter interface:
//
//	type Submitter interface {
//	    Submit(ctx context.Context, data form.FormData) error
//	}
//
// # Implementations
//
//   - Delay: waits a fixed duration and succeeds (the default, no receiver needed)
//   - HTTP: POSTs a JSON Payload, retrying network errors and 5xx responses
//     with exponential backoff
//   - WebSocket: sends {"type":"submit","payload":...} and waits for
//     {"type":"ack"} or {"type":"error","payload":{"error":"..."}}
//
// FromConfig picks one based on the submit section of the config file.
//
// # Errors
//
// Failures are reported as *Error with an ErrorType (network, timeout, HTTP,
// rejected, canceled, encode). IsRetryable, IsCanceled and ShortMessage help
// callers decide what to log. The dialog itself shows one generic notice
// regardless of the type.
//
// # Cancellation
//
// All implementations return promptly once ctx is done. The dialog cancels
// the context when it is closed mid-submission.
package submit
