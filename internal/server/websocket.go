package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/stepdialog/internal/logging"
	"github.com/muurk/stepdialog/internal/submit"
)

const (
	// Time allowed to write a frame to the peer
	writeWait = 10 * time.Second

	// Time a client may stay silent before the connection is dropped
	readWait = 60 * time.Second

	// Maximum frame size accepted from a client
	maxMessageSize = maxBodySize
)

// AckPayload is the payload of an "ack" frame
type AckPayload struct {
	ID string `json:"id"`
}

// handleWebSocket upgrades the request and answers every "submit" frame with
// an "ack" or an "error" frame until the client closes
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response
		logging.Debug("Websocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	remoteAddr := r.RemoteAddr
	s.wg.Add(1)
	s.track(conn, remoteAddr)
	defer func() {
		_ = conn.Close()
		s.untrack(conn)
		s.wg.Done()
		logging.Debug("Websocket closed", zap.String("remote_addr", remoteAddr))
	}()

	logging.Debug("Websocket opened", zap.String("remote_addr", remoteAddr))
	conn.SetReadLimit(maxMessageSize)

	for {
		_ = conn.SetReadDeadline(time.Now().Add(readWait))

		var msg submit.Envelope
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Info("Websocket closed unexpectedly",
					zap.String("remote_addr", remoteAddr),
					zap.Error(err),
				)
			}
			return
		}

		if msg.Type != submit.MessageSubmit {
			logging.Debug("Ignoring websocket frame",
				zap.String("remote_addr", remoteAddr),
				zap.String("type", msg.Type),
			)
			continue
		}

		var p submit.Payload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			if !s.reply(conn, submit.MessageError, submit.ErrorPayload{Error: "malformed submission"}) {
				return
			}
			continue
		}

		if errs := s.accept(TransportWebSocket, remoteAddr, p); len(errs) > 0 {
			if !s.reply(conn, submit.MessageError, submit.ErrorPayload{Error: rejection(errs)}) {
				return
			}
			continue
		}

		if !s.reply(conn, submit.MessageAck, AckPayload{ID: p.ID}) {
			return
		}
	}
}

// reply writes one frame and reports whether the connection is still usable
func (s *Server) reply(conn *websocket.Conn, msgType string, payload any) bool {
	raw, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to encode reply", zap.Error(err))
		return false
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(submit.Envelope{Type: msgType, Payload: raw}); err != nil {
		logging.Debug("Failed to write reply",
			zap.String("type", msgType),
			zap.Error(err),
		)
		return false
	}
	return true
}
