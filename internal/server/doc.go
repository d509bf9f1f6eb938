// Package server implements a local receiver for submitted forms.
//
// The receiver speaks both wire formats used by internal/submit, so the
// http and websocket submit modes can be tried without an external service:
//
//   - POST /submit takes a JSON submit.Payload. Valid forms get 200 with
//     {"id": ..., "status": "accepted"}. Invalid forms get 422 with the
//     field messages as a plain text body.
//   - GET /ws upgrades to a websocket. Each {"type": "submit"} frame is
//     answered with {"type": "ack"} or {"type": "error"}.
//   - GET /healthz returns 204.
//
// Received forms are checked with form.ValidateForm, so the receiver rejects
// exactly what the dialog would. Accepted and rejected submissions can be
// appended to a JSON Lines capture file for later inspection.
//
// TLS is enabled when both a certificate and a key are configured.
package server
