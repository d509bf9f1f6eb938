package submit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/stepdialog/internal/form"
	"github.com/muurk/stepdialog/internal/logging"
)

// Message types exchanged with a websocket receiver
const (
	MessageSubmit = "submit"
	MessageAck    = "ack"
	MessageError  = "error"
)

// Envelope is the frame format on the websocket: {"type": ..., "payload": ...}
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ErrorPayload is the payload of an "error" frame
type ErrorPayload struct {
	Error string `json:"error"`
}

// WebSocket sends the form over a websocket and waits for an acknowledgement
type WebSocket struct {
	URL     string
	Timeout time.Duration
	Dialer  *websocket.Dialer
}

// NewWebSocket creates a websocket submitter with the default timeout
func NewWebSocket(url string) *WebSocket {
	return &WebSocket{
		URL:     url,
		Timeout: DefaultTimeout,
		Dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

// Submit dials the receiver, sends a submit frame and waits for ack or error
func (w *WebSocket) Submit(ctx context.Context, data form.FormData) error {
	if w.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.Timeout)
		defer cancel()
	}

	payload, err := json.Marshal(newPayload(ctx, data))
	if err != nil {
		return &Error{Type: ErrTypeEncode, Message: "failed to encode form", Err: err}
	}

	dialer := w.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}

	conn, resp, err := dialer.DialContext(ctx, w.URL, nil)
	if err != nil {
		if resp != nil {
			return NewHTTPError(resp.StatusCode, fmt.Sprintf("websocket handshake failed: %s", resp.Status))
		}
		return ClassifyError("failed to connect", err)
	}
	defer conn.Close()

	// Unblock pending reads when the caller gives up
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
		_ = conn.SetReadDeadline(deadline)
	}

	if err := conn.WriteJSON(Envelope{Type: MessageSubmit, Payload: payload}); err != nil {
		return w.transportError(ctx, "failed to send form", err)
	}

	for {
		var msg Envelope
		if err := conn.ReadJSON(&msg); err != nil {
			return w.transportError(ctx, "failed to read response", err)
		}

		switch msg.Type {
		case MessageAck:
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return nil

		case MessageError:
			var p ErrorPayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil || p.Error == "" {
				p.Error = "receiver refused the submission"
			}
			return NewRejectedError(p.Error)

		default:
			logging.Debug("Ignoring websocket frame",
				zap.String("url", w.URL),
				zap.String("type", msg.Type),
			)
		}
	}
}

// transportError prefers the context's reason over the socket error,
// since closing the socket on cancel surfaces as a read failure
func (w *WebSocket) transportError(ctx context.Context, message string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ClassifyError(message, ctxErr)
	}
	return ClassifyError(message, err)
}
